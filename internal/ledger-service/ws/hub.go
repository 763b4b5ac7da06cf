package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger-service/metrics"
	"github.com/radieske/bet-ledger-poc/pkg/contracts/events"
)

const writeTimeout = 5 * time.Second

// client serializa as escritas numa conexão; gorilla não aceita writers concorrentes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *client) writeRaw(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por tipo de evento do ledger
// subs: tipo de evento -> conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	metrics  *metrics.Metrics

	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		metrics:  m,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket.
// Cada cliente pode se inscrever em vários tipos de evento.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.metrics.WSClientDelta(1)
	defer h.metrics.WSClientDelta(-1)

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			if msg.Event == "" {
				_ = c.writeJSON(map[string]string{"type": "error", "error": "event is required"})
				continue
			}
			h.subscribe(c, msg.Event)
			_ = c.writeJSON(map[string]string{"type": "subscribed", "event": msg.Event})
		case "unsubscribe":
			h.unsubscribe(c, msg.Event)
		case "ping":
			_ = c.writeJSON(map[string]string{"type": "pong"})
		}
	}

	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for typ, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, typ)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) subscribe(c *client, typ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[typ]; !ok {
		h.subs[typ] = make(map[*client]struct{})
	}
	h.subs[typ][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client, typ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[typ]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.subs, typ)
		}
	}
}

// Broadcast envia o evento aos inscritos no tipo e aos inscritos em "*"
func (h *Hub) Broadcast(ev events.LedgerEvent) {
	h.mu.RLock()
	targets := make(map[*client]struct{})
	for c := range h.subs[ev.Type] {
		targets[c] = struct{}{}
	}
	for c := range h.subs[AllEvents] {
		targets[c] = struct{}{}
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("ws: encode event failed", zap.Error(err))
		return
	}
	for c := range targets {
		if err := c.writeRaw(b); err != nil {
			h.log.Debug("ws: write failed", zap.Error(err))
		}
	}
}

// PublishEvent permite usar o hub direto como publisher do host (sem Redis)
func (h *Hub) PublishEvent(_ context.Context, ev events.LedgerEvent) error {
	h.Broadcast(ev)
	return nil
}

// Subscribers devolve quantos clientes estão inscritos no tipo
func (h *Hub) Subscribers(typ string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[typ])
}
