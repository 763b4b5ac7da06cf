package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// MessageWriter é o subconjunto de *kafka.Writer usado aqui
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// TransferPublisher publica as transferências do outbox no tópico ledger_transfers.
// A chave é o destinatário, então as transferências de um mesmo endereço ficam na mesma partição.
type TransferPublisher struct {
	Writer MessageWriter
	DLQ    MessageWriter
}

func NewTransferPublisher(w, dlq MessageWriter) *TransferPublisher {
	return &TransferPublisher{Writer: w, DLQ: dlq}
}

func (p *TransferPublisher) PublishTransfer(ctx context.Context, t events.TransferRequested) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(t.ToAddress),
		Value: b,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "transfer_id", Value: []byte(t.TransferID)},
		},
	})
}

// PublishDeadLetter envia a transferência para a DLQ com o motivo no header
func (p *TransferPublisher) PublishDeadLetter(ctx context.Context, t events.TransferRequested, reason string) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.DLQ.WriteMessages(ctx, kafka.Message{
		Key:   []byte(t.ToAddress),
		Value: b,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "transfer_id", Value: []byte(t.TransferID)},
			{Key: "reason", Value: []byte(reason)},
		},
	})
}

// KafkaEventPublisher publica os eventos do ledger no tópico ledger_events, chaveados pelo tipo
type KafkaEventPublisher struct {
	Writer MessageWriter
}

func NewKafkaEventPublisher(w MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{Writer: w}
}

func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, ev events.LedgerEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.Type), Value: b, Time: ev.Ts})
}
