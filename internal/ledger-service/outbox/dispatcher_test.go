package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/host"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

type fakeSink struct {
	fail  int // falha as próximas N publicações
	sent  []events.TransferRequested
	dlq   []events.TransferRequested
	cause error
}

func (s *fakeSink) PublishTransfer(_ context.Context, t events.TransferRequested) error {
	if s.fail > 0 {
		s.fail--
		return s.cause
	}
	s.sent = append(s.sent, t)
	return nil
}

func (s *fakeSink) PublishDeadLetter(_ context.Context, t events.TransferRequested, _ string) error {
	s.dlq = append(s.dlq, t)
	return nil
}

func hostWithWithdrawals(t *testing.T, amounts ...ledger.Amount) *host.Host {
	t.Helper()
	ctx := context.Background()
	h := host.New(ledger.New("uscrt"), store.NewMemory(), host.Options{})
	_, err := h.Instantiate(ctx, "secret1admin")
	require.NoError(t, err)
	_, err = h.Execute(ctx, ledger.Info{Sender: "secret1alice", Funds: []ledger.Coin{{Denom: "uscrt", Amount: 10_000}}},
		ledger.ExecuteMsg{Deposit: &ledger.Deposit{}})
	require.NoError(t, err)
	for _, a := range amounts {
		_, err = h.Execute(ctx, ledger.Info{Sender: "secret1alice"}, ledger.ExecuteMsg{Withdraw: &ledger.Withdraw{Amount: a}})
		require.NoError(t, err)
	}
	return h
}

func TestDispatchOncePublishesAndAcks(t *testing.T) {
	ctx := context.Background()
	h := hostWithWithdrawals(t, 100, 200, 300)
	sink := &fakeSink{}
	d := &Dispatcher{Source: h, Sink: sink, Batch: 2}

	n, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, sink.sent, 3)
	assert.Equal(t, []string{"100", "200", "300"},
		[]string{sink.sent[0].Amount, sink.sent[1].Amount, sink.sent[2].Amount})

	pending, err := h.PendingTransfers(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatchStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	h := hostWithWithdrawals(t, 100, 200)
	sink := &fakeSink{fail: 1, cause: errors.New("broker down")}
	d := &Dispatcher{Source: h, Sink: sink, MaxAttempts: 5}

	n, err := d.DispatchOnce(ctx)
	assert.ErrorContains(t, err, "broker down")
	assert.Zero(t, n)
	assert.Empty(t, sink.sent)

	pending, err := h.PendingTransfers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Attempts)

	n, err = d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "100", sink.sent[0].Amount, "ordem preservada após retry")
}

func TestDispatchMovesToDLQAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	h := hostWithWithdrawals(t, 100, 200)
	sink := &fakeSink{fail: 2, cause: errors.New("rejected")}
	d := &Dispatcher{Source: h, Sink: sink, MaxAttempts: 2}

	_, err := d.DispatchOnce(ctx)
	require.Error(t, err)
	_, err = d.DispatchOnce(ctx)
	require.NoError(t, err)

	require.Len(t, sink.dlq, 1)
	assert.Equal(t, "100", sink.dlq[0].Amount)
	assert.Equal(t, 2, sink.dlq[0].Attempts)

	n, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "200", sink.sent[0].Amount)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := hostWithWithdrawals(t, 50)
	sink := &fakeSink{}
	d := &Dispatcher{Source: h, Sink: sink, Interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		p, err := h.PendingTransfers(context.Background(), 0)
		return err == nil && len(p) == 0
	}, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
