package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal de broadcast e repassa os eventos ao hub.
// Permite que várias réplicas do serviço entreguem os mesmos eventos aos seus clientes.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				var ev events.LedgerEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn("ws subscriber: invalid payload", zap.Error(err))
					continue
				}
				hub.Broadcast(ev)
			}
		}
	}()
}
