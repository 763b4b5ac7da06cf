package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCall(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCall("execute", "deposit", nil, time.Now())
	m.ObserveCall("execute", "deposit", errors.New("boom"), time.Now())
	m.ObserveCall("execute", "deposit", nil, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calls.WithLabelValues("execute", "deposit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues("execute", "deposit", "error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCall("query", "config", nil, time.Now())
		m.ObserveEvent("deposit", nil)
		m.SetOutboxPending(3)
		m.TransferPublished()
		m.TransferFailed()
		m.TransferDeadLettered()
		m.WSClientDelta(1)
	})
}

func TestOutboxGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetOutboxPending(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.OutboxPending))
}
