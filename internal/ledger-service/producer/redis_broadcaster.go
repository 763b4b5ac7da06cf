package producer

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// RedisBroadcaster repassa os eventos ao canal Pub/Sub lido pelos hubs WebSocket
type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) PublishEvent(ctx context.Context, ev events.LedgerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}
