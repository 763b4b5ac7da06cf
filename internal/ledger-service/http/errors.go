package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
)

// ErrorResponse é o corpo de todas as respostas de erro
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type callKind int

const (
	command callKind = iota
	query
)

// statusFor traduz erros do ledger em status HTTP e código estável.
// Saldo ausente é conflito num comando e 404 numa consulta.
func statusFor(err error, kind callKind) (int, string) {
	var (
		unauthorized *ledger.UnauthorizedError
		insufficient *ledger.InsufficientBalanceError
		storeErr     *ledger.StoreError
	)
	switch {
	case errors.As(err, &unauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.As(err, &insufficient):
		return http.StatusConflict, "insufficient_balance"
	case errors.Is(err, ledger.ErrNoBalanceRecord):
		if kind == query {
			return http.StatusNotFound, "no_balance"
		}
		return http.StatusConflict, "no_balance"
	case errors.Is(err, ledger.ErrNotInitialized):
		return http.StatusPreconditionFailed, "not_initialized"
	case errors.Is(err, ledger.ErrAlreadyInitialized):
		return http.StatusConflict, "already_initialized"
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "store"
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrPayment):
		return http.StatusBadRequest, "payment"
	case errors.Is(err, ledger.ErrInvalidMsg):
		return http.StatusBadRequest, "invalid_msg"
	case errors.Is(err, ledger.ErrOverflow), errors.Is(err, ledger.ErrUnderflow):
		return http.StatusUnprocessableEntity, "overflow"
	case errors.Is(err, ledger.ErrMissingCaller):
		return http.StatusUnauthorized, "unauthenticated"
	}
	return http.StatusInternalServerError, "internal"
}

func (a *API) fail(w http.ResponseWriter, err error, kind callKind) {
	status, code := statusFor(err, kind)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log().Error("ledger call failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad json: " + err.Error(), Code: "bad_request"})
}
