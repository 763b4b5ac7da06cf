// Package host executa o ledger sobre um store.Backend: serializa as chamadas,
// aplica cada uma de forma atômica e grava as transferências de saída num outbox
// no mesmo lote das escritas de estado.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/metrics"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

// Namespaces físicos no backend
const (
	StateNamespace  = "ledger/"
	OutboxNamespace = "outbox/"
	outboxSeqKey    = "meta/outbox_seq"
)

var errEventDropped = errors.New("event dropped")

// EventPublisher recebe os eventos do ledger depois do commit
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev events.LedgerEvent) error
}

type Options struct {
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Events      EventPublisher
	EventBuffer int
	Now         func() time.Time
}

type Host struct {
	mu      sync.Mutex
	core    *ledger.Ledger
	backend store.Backend

	log     *zap.Logger
	metrics *metrics.Metrics
	events  EventPublisher
	queue   chan events.LedgerEvent
	now     func() time.Time
}

func New(core *ledger.Ledger, backend store.Backend, opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 1024
	}
	return &Host{
		core:    core,
		backend: backend,
		log:     opts.Logger,
		metrics: opts.Metrics,
		events:  opts.Events,
		queue:   make(chan events.LedgerEvent, opts.EventBuffer),
		now:     opts.Now,
	}
}

// Instantiate inicializa o ledger com sender como admin
func (h *Host) Instantiate(ctx context.Context, sender string) (ledger.Response, error) {
	return h.run(ctx, "instantiate", "instantiate", sender, func(kv ledger.KV) (ledger.Response, error) {
		return h.core.Instantiate(kv, ledger.Info{Sender: sender}, ledger.InstantiateMsg{})
	})
}

// Execute aplica um comando; em erro nenhuma escrita chega ao backend
func (h *Host) Execute(ctx context.Context, info ledger.Info, msg ledger.ExecuteMsg) (ledger.Response, error) {
	name, _ := msg.Name() // mensagem inválida é rejeitada pelo ledger
	return h.run(ctx, "execute", name, info.Sender, func(kv ledger.KV) (ledger.Response, error) {
		return h.core.Execute(kv, info, msg)
	})
}

// Query lê o estado confirmado
func (h *Host) Query(ctx context.Context, msg ledger.QueryMsg) (out []byte, err error) {
	name, _ := msg.Name()
	started := time.Now()
	defer func() { h.metrics.ObserveCall("query", name, err, started) }()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.core.Query(readKV{ctx: ctx, backend: h.backend, prefix: []byte(StateNamespace)}, msg)
}

func (h *Host) Ping(ctx context.Context) error {
	return h.backend.Ping(ctx)
}

func (h *Host) run(ctx context.Context, kind, name, caller string, fn func(ledger.KV) (ledger.Response, error)) (res ledger.Response, err error) {
	started := time.Now()
	defer func() { h.metrics.ObserveCall(kind, name, err, started) }()

	h.mu.Lock()
	defer h.mu.Unlock()

	tx := newTxKV(ctx, h.backend, []byte(StateNamespace))
	res, err = fn(tx)
	if err != nil {
		h.log.Debug("ledger call rejected",
			zap.String("kind", kind), zap.String("msg", name),
			zap.String("caller", caller), zap.Error(err))
		return ledger.Response{}, err
	}

	writes := tx.writes()
	outbox, err := h.outboxWrites(ctx, caller, name, res.Transfers)
	if err != nil {
		return ledger.Response{}, err
	}
	writes = append(writes, outbox...)

	if err := h.backend.Commit(ctx, writes); err != nil {
		h.log.Error("ledger commit failed", zap.String("msg", name), zap.Error(err))
		return ledger.Response{}, &ledger.StoreError{Op: "commit", Err: err}
	}

	h.log.Info("ledger call committed",
		zap.String("kind", kind), zap.String("msg", name), zap.String("caller", caller),
		zap.Int("writes", len(writes)), zap.Int("transfers", len(res.Transfers)))
	h.enqueue(caller, res.Events)
	return res, nil
}

// outboxWrites gera um registro de outbox por transferência, com sequência crescente
func (h *Host) outboxWrites(ctx context.Context, caller, action string, transfers []ledger.Transfer) ([]store.Write, error) {
	if len(transfers) == 0 {
		return nil, nil
	}
	seq, err := h.loadSeq(ctx)
	if err != nil {
		return nil, err
	}
	ts := h.now().UnixMilli()
	writes := make([]store.Write, 0, len(transfers)+1)
	for _, t := range transfers {
		seq++
		rec := events.TransferRequested{
			TransferID: uuid.NewString(),
			Sequence:   seq,
			ToAddress:  t.To,
			Denom:      t.Denom,
			Amount:     t.Amount.String(),
			Action:     action,
			Caller:     caller,
			TsUnixMs:   ts,
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, &ledger.StoreError{Op: "encode", Key: outboxKey(seq), Err: err}
		}
		writes = append(writes, store.Write{Key: []byte(outboxKey(seq)), Value: b})
	}
	writes = append(writes, store.Write{Key: []byte(outboxSeqKey), Value: []byte(strconv.FormatUint(seq, 10))})
	return writes, nil
}

func (h *Host) loadSeq(ctx context.Context) (uint64, error) {
	b, err := h.backend.Get(ctx, []byte(outboxSeqKey))
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, &ledger.StoreError{Op: "get", Key: outboxSeqKey, Err: err}
	}
	seq, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, &ledger.StoreError{Op: "decode", Key: outboxSeqKey, Err: err}
	}
	return seq, nil
}

func outboxKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", OutboxNamespace, seq)
}

// enqueue converte os eventos da resposta; a fila preserva a ordem de commit.
// Com a fila cheia o evento é descartado e logado.
func (h *Host) enqueue(caller string, evs []ledger.Event) {
	if h.events == nil {
		return
	}
	ts := h.now()
	for _, e := range evs {
		ev := events.LedgerEvent{
			Type:       e.Type,
			Caller:     caller,
			Attributes: make(map[string]string, len(e.Attributes)),
			Ts:         ts,
		}
		for _, a := range e.Attributes {
			ev.Attributes[a.Key] = a.Value
		}
		select {
		case h.queue <- ev:
		default:
			h.log.Warn("event queue full, dropping event", zap.String("type", ev.Type))
			h.metrics.ObserveEvent(ev.Type, errEventDropped)
		}
	}
}

// RunEvents publica os eventos enfileirados até ctx terminar
func (h *Host) RunEvents(ctx context.Context) {
	if h.events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.queue:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := h.events.PublishEvent(pctx, ev)
			cancel()
			h.metrics.ObserveEvent(ev.Type, err)
			if err != nil {
				h.log.Warn("publish ledger event failed", zap.String("type", ev.Type), zap.Error(err))
			}
		}
	}
}
