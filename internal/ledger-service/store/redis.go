package store

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-ledger-poc/internal/shared/cache"
)

// Redis guarda cada chave do ledger como uma string Redis sob um namespace.
// Commit usa MULTI/EXEC para aplicar o lote de forma atômica.
type Redis struct {
	Client *redis.Client
	Prefix string
}

// OpenRedis conecta no Redis e valida a conexão com PING
func OpenRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	rdb, err := cache.ConnectRedis(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connect redis %s", addr)
	}
	return NewRedis(rdb, prefix), nil
}

func NewRedis(c *redis.Client, prefix string) *Redis {
	return &Redis{Client: c, Prefix: prefix}
}

func (r *Redis) key(k []byte) string { return r.Prefix + string(k) }

func (r *Redis) Get(ctx context.Context, key []byte) ([]byte, error) {
	b, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return b, nil
}

func (r *Redis) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, w := range writes {
			if w.Delete {
				p.Del(ctx, r.key(w.Key))
				continue
			}
			p.Set(ctx, r.key(w.Key), w.Value, 0)
		}
		return nil
	})
	return errors.Wrap(err, "redis commit")
}

func (r *Redis) Scan(ctx context.Context, prefix []byte) ([]Entry, error) {
	var keys []string
	iter := r.Client.Scan(ctx, 0, escapeGlob(r.key(prefix))+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "redis scan")
	}
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis mget")
	}

	out := make([]Entry, 0, len(keys))
	for i, k := range keys {
		s, ok := vals[i].(string)
		if !ok {
			continue // removida entre o SCAN e o MGET
		}
		out = append(out, Entry{Key: []byte(strings.TrimPrefix(k, r.Prefix)), Value: []byte(s)})
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Key, out[j].Key) < 0 })
	return out, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// escapeGlob escapa os metacaracteres do padrão MATCH do SCAN
func escapeGlob(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
