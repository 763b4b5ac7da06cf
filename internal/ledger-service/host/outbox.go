package host

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// PendingTransfers lista até limit registros do outbox em ordem de sequência (limit <= 0 = todos)
func (h *Host) PendingTransfers(ctx context.Context, limit int) ([]events.TransferRequested, error) {
	h.mu.Lock()
	entries, err := h.backend.Scan(ctx, []byte(OutboxNamespace))
	h.mu.Unlock()
	if err != nil {
		return nil, &ledger.StoreError{Op: "scan", Key: OutboxNamespace, Err: err}
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]events.TransferRequested, 0, len(entries))
	for _, e := range entries {
		var t events.TransferRequested
		if err := json.Unmarshal(e.Value, &t); err != nil {
			return nil, &ledger.StoreError{Op: "decode", Key: string(e.Key), Err: err}
		}
		out = append(out, t)
	}
	return out, nil
}

// AckTransfers remove do outbox as transferências já publicadas
func (h *Host) AckTransfers(ctx context.Context, seqs ...uint64) error {
	if len(seqs) == 0 {
		return nil
	}
	writes := make([]store.Write, 0, len(seqs))
	for _, s := range seqs {
		writes = append(writes, store.Write{Key: []byte(outboxKey(s)), Delete: true})
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.backend.Commit(ctx, writes); err != nil {
		return &ledger.StoreError{Op: "commit", Key: OutboxNamespace, Err: err}
	}
	return nil
}

// RecordFailure incrementa as tentativas do registro e devolve o total.
// Devolve 0 sem erro se o registro já foi removido.
func (h *Host) RecordFailure(ctx context.Context, seq uint64) (int, error) {
	key := []byte(outboxKey(seq))

	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := h.backend.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, &ledger.StoreError{Op: "get", Key: string(key), Err: err}
	}
	var t events.TransferRequested
	if err := json.Unmarshal(b, &t); err != nil {
		return 0, &ledger.StoreError{Op: "decode", Key: string(key), Err: err}
	}
	t.Attempts++
	nb, err := json.Marshal(t)
	if err != nil {
		return 0, &ledger.StoreError{Op: "encode", Key: string(key), Err: err}
	}
	if err := h.backend.Commit(ctx, []store.Write{{Key: key, Value: nb}}); err != nil {
		return 0, &ledger.StoreError{Op: "commit", Key: string(key), Err: err}
	}
	return t.Attempts, nil
}
