package producer

import (
	"context"
	"errors"

	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev events.LedgerEvent) error
}

// Fanout entrega o evento a todos os publishers e junta os erros
type Fanout []EventPublisher

func (f Fanout) PublishEvent(ctx context.Context, ev events.LedgerEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop descarta eventos e transferências (Kafka desligado)
type Nop struct{}

func (Nop) PublishEvent(context.Context, events.LedgerEvent) error { return nil }

func (Nop) PublishTransfer(context.Context, events.TransferRequested) error { return nil }

func (Nop) PublishDeadLetter(context.Context, events.TransferRequested, string) error { return nil }
