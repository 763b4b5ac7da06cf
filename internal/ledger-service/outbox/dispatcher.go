// Package outbox publica as transferências gravadas pelo host e as confirma após o envio
package outbox

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger-service/metrics"
	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// Source é o lado do host: leitura, confirmação e contagem de falhas do outbox
type Source interface {
	PendingTransfers(ctx context.Context, limit int) ([]events.TransferRequested, error)
	AckTransfers(ctx context.Context, seqs ...uint64) error
	RecordFailure(ctx context.Context, seq uint64) (int, error)
}

// Sink é o destino das transferências (Kafka)
type Sink interface {
	PublishTransfer(ctx context.Context, t events.TransferRequested) error
	PublishDeadLetter(ctx context.Context, t events.TransferRequested, reason string) error
}

type Dispatcher struct {
	Log     *zap.Logger
	Source  Source
	Sink    Sink
	Metrics *metrics.Metrics

	Interval    time.Duration
	Batch       int
	MaxAttempts int
}

// Run executa DispatchOnce a cada Interval até ctx terminar
func (d *Dispatcher) Run(ctx context.Context) error {
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
				d.log().Warn("outbox: dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchOnce publica um lote em ordem de sequência. Uma falha interrompe o lote
// para não reordenar transferências; após MaxAttempts a transferência vai para a DLQ.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	lctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	pending, err := d.Source.PendingTransfers(lctx, d.batch())
	cancel()
	if err != nil {
		return 0, fmt.Errorf("list pending transfers: %w", err)
	}
	d.Metrics.SetOutboxPending(len(pending))

	sent := 0
	for _, t := range pending {
		if err := d.Sink.PublishTransfer(ctx, t); err != nil {
			d.Metrics.TransferFailed()
			return sent, d.handleFailure(ctx, t, err)
		}
		if err := d.Source.AckTransfers(ctx, t.Sequence); err != nil {
			// será republicada; consumidores deduplicam por transfer_id
			return sent, fmt.Errorf("ack transfer %d: %w", t.Sequence, err)
		}
		d.Metrics.TransferPublished()
		sent++
		d.log().Info("outbox: transfer published",
			zap.Uint64("sequence", t.Sequence),
			zap.String("transfer_id", t.TransferID),
			zap.String("to", t.ToAddress),
			zap.String("amount", t.Amount))
	}
	d.Metrics.SetOutboxPending(len(pending) - sent)
	return sent, nil
}

func (d *Dispatcher) handleFailure(ctx context.Context, t events.TransferRequested, cause error) error {
	attempts, err := d.Source.RecordFailure(ctx, t.Sequence)
	if err != nil {
		return fmt.Errorf("record failure of transfer %d: %w", t.Sequence, err)
	}
	d.log().Warn("outbox: publish transfer failed",
		zap.Uint64("sequence", t.Sequence), zap.Int("attempts", attempts), zap.Error(cause))

	if d.MaxAttempts <= 0 || attempts < d.MaxAttempts {
		return fmt.Errorf("publish transfer %d: %w", t.Sequence, cause)
	}

	t.Attempts = attempts
	if err := d.Sink.PublishDeadLetter(ctx, t, cause.Error()); err != nil {
		return fmt.Errorf("dead-letter transfer %d: %w", t.Sequence, err)
	}
	if err := d.Source.AckTransfers(ctx, t.Sequence); err != nil {
		return fmt.Errorf("ack dead-lettered transfer %d: %w", t.Sequence, err)
	}
	d.Metrics.TransferDeadLettered()
	d.log().Error("outbox: transfer moved to DLQ",
		zap.Uint64("sequence", t.Sequence), zap.String("transfer_id", t.TransferID), zap.Int("attempts", attempts))
	return nil
}

func (d *Dispatcher) batch() int {
	if d.Batch <= 0 {
		return 100
	}
	return d.Batch
}

func (d *Dispatcher) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
