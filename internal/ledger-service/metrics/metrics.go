// Package metrics registra as métricas prometheus do ledger-service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Calls           *prometheus.CounterVec
	CallDuration    *prometheus.HistogramVec
	OutboxPending   prometheus.Gauge
	TransfersSent   prometheus.Counter
	TransferErrors  prometheus.Counter
	TransfersDLQ    prometheus.Counter
	EventsPublished *prometheus.CounterVec
	WSClients       prometheus.Gauge
}

// New cria e registra as métricas em reg (nil = registry default)
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "calls_total",
			Help:      "Chamadas ao ledger por tipo, mensagem e resultado",
		}, []string{"kind", "msg", "result"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "call_duration_seconds",
			Help:      "Latência das chamadas ao ledger, incluindo o commit",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "msg"}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "outbox_pending",
			Help:      "Transferências aguardando publicação",
		}),
		TransfersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transfers_published_total",
			Help:      "Transferências publicadas e confirmadas no outbox",
		}),
		TransferErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transfer_publish_errors_total",
			Help:      "Falhas ao publicar transferências",
		}),
		TransfersDLQ: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transfers_dlq_total",
			Help:      "Transferências movidas para a DLQ",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "events_published_total",
			Help:      "Eventos publicados após commit por tipo e resultado",
		}, []string{"type", "result"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "ws_clients",
			Help:      "Clientes WebSocket conectados",
		}),
	}
	reg.MustRegister(m.Calls, m.CallDuration, m.OutboxPending, m.TransfersSent,
		m.TransferErrors, m.TransfersDLQ, m.EventsPublished, m.WSClients)
	return m
}

// ObserveCall é nil-safe para facilitar o uso em testes
func (m *Metrics) ObserveCall(kind, msg string, err error, started time.Time) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Calls.WithLabelValues(kind, msg, result).Inc()
	m.CallDuration.WithLabelValues(kind, msg).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveEvent(typ string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(typ, result).Inc()
}

func (m *Metrics) SetOutboxPending(n int) {
	if m == nil {
		return
	}
	m.OutboxPending.Set(float64(n))
}

func (m *Metrics) TransferPublished() {
	if m != nil {
		m.TransfersSent.Inc()
	}
}

func (m *Metrics) TransferFailed() {
	if m != nil {
		m.TransferErrors.Inc()
	}
}

func (m *Metrics) TransferDeadLettered() {
	if m != nil {
		m.TransfersDLQ.Inc()
	}
}

func (m *Metrics) WSClientDelta(d int) {
	if m != nil {
		m.WSClients.Add(float64(d))
	}
}
