package host

import (
	"bytes"
	"context"
	"errors"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
)

// txKV é a sobreposição transacional de uma chamada: leituras veem as escritas
// pendentes, e nada chega ao backend até o host chamar writes() e commitar.
// Descartar o txKV equivale a um rollback.
type txKV struct {
	ctx     context.Context
	backend store.Backend
	prefix  []byte

	pending map[string][]byte
	keys    []string
}

func newTxKV(ctx context.Context, backend store.Backend, prefix []byte) *txKV {
	return &txKV{
		ctx:     ctx,
		backend: backend,
		prefix:  prefix,
		pending: make(map[string][]byte),
	}
}

func (t *txKV) physical(key []byte) []byte {
	out := make([]byte, 0, len(t.prefix)+len(key))
	return append(append(out, t.prefix...), key...)
}

func (t *txKV) Get(key []byte) ([]byte, error) {
	if v, ok := t.pending[string(key)]; ok {
		return bytes.Clone(v), nil
	}
	v, err := t.backend.Get(t.ctx, t.physical(key))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ledger.ErrNotFound
	}
	return v, err
}

func (t *txKV) Set(key, value []byte) error {
	k := string(key)
	if _, ok := t.pending[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.pending[k] = bytes.Clone(value)
	return nil
}

// writes devolve as escritas pendentes na ordem da primeira gravação de cada chave
func (t *txKV) writes() []store.Write {
	out := make([]store.Write, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, store.Write{Key: t.physical([]byte(k)), Value: t.pending[k]})
	}
	return out
}

// readKV é a visão somente leitura usada pelas consultas
type readKV struct {
	ctx     context.Context
	backend store.Backend
	prefix  []byte
}

var errReadOnly = errors.New("query attempted a write")

func (r readKV) Get(key []byte) ([]byte, error) {
	k := append(bytes.Clone(r.prefix), key...)
	v, err := r.backend.Get(r.ctx, k)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ledger.ErrNotFound
	}
	return v, err
}

func (readKV) Set([]byte, []byte) error { return errReadOnly }
