package ledger

import (
	"errors"
	"fmt"
)

// Erros de negócio do ledger. Todos são terminais para a chamada corrente:
// o host descarta as mutações tentadas e devolve o erro ao chamador.
var (
	ErrNotFound           = errors.New("not found")
	ErrNoBalanceRecord    = errors.New("no balance")
	ErrNotInitialized     = errors.New("ledger not initialized")
	ErrAlreadyInitialized = errors.New("ledger already initialized")
	ErrMissingCaller      = errors.New("missing caller address")
	ErrInvalidMsg         = errors.New("message must set exactly one variant")

	ErrOverflow  = errors.New("amount overflow")
	ErrUnderflow = errors.New("amount underflow")

	// ErrPayment agrupa os erros de extração de pagamento
	ErrPayment        = errors.New("payment error")
	ErrNoFunds        = fmt.Errorf("%w: no funds sent", ErrPayment)
	ErrMultipleDenoms = fmt.Errorf("%w: sent more than one denomination", ErrPayment)
)

// UnauthorizedError indica que o chamador não é o admin do ledger
type UnauthorizedError struct {
	Caller string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s is not contract admin", e.Caller)
}

// InsufficientBalanceError carrega o valor pedido e o saldo disponível.
// Em PlaceBet, Requested é o valor da aposta (sem a taxa).
type InsufficientBalanceError struct {
	Requested Amount
	Available Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required: %d, balance: %d", e.Requested, e.Available)
}

// MissingDenomError indica que o único fundo anexado não é da denominação exigida
type MissingDenomError struct {
	Denom string
}

func (e *MissingDenomError) Error() string {
	return fmt.Sprintf("%s: must send reserve token '%s'", ErrPayment, e.Denom)
}

func (e *MissingDenomError) Unwrap() error { return ErrPayment }

// StoreError embrulha falhas do substrato de persistência (leitura, escrita ou decodificação)
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
