package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
)

const maxBodyBytes = 1 << 20

// Ledger define as operações do host usadas pelos handlers HTTP
type Ledger interface {
	Instantiate(ctx context.Context, sender string) (ledger.Response, error)
	Execute(ctx context.Context, info ledger.Info, msg ledger.ExecuteMsg) (ledger.Response, error)
	Query(ctx context.Context, msg ledger.QueryMsg) ([]byte, error)
}

// Authenticator protege as rotas de comando e injeta o chamador no contexto
type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

// API expõe o ledger via REST: comandos autenticados, consultas públicas e o WebSocket de eventos
type API struct {
	Log    *zap.Logger
	Ledger Ledger
	Auth   Authenticator
	WS     http.HandlerFunc // opcional
}

// Router retorna o roteador HTTP com todos os endpoints
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.accessLog)

	// Comandos
	r.Group(func(r chi.Router) {
		r.Use(a.Auth.Middleware)
		r.Post("/v1/instantiate", a.instantiate)
		r.Post("/v1/execute", a.execute)
		r.Post("/v1/rounds", a.openRound)
		r.Post("/v1/rounds/close", a.closeRound)
		r.Post("/v1/deposit", a.deposit)
		r.Post("/v1/bets", a.placeBet)
		r.Post("/v1/withdraw", a.withdraw)
		r.Post("/v1/fees/withdraw", a.withdrawFees)
	})

	// Consultas
	r.Post("/v1/query", a.query)
	r.Get("/v1/round", a.currentRound)
	r.Get("/v1/betting-open", a.bettingOpen)
	r.Get("/v1/balances/{address}", a.balance)
	r.Get("/v1/bets/{address}/{roundId}", a.bet)
	r.Get("/v1/fee-pool", a.feePool)
	r.Get("/v1/config", a.config)

	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

// accessLog registra método, rota, status e latência de cada requisição
func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (a *API) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw envia um corpo JSON já serializado
func writeRaw(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// decode lê o corpo JSON; corpo vazio mantém o zero value de v
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
