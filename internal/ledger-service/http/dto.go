package httpapi

import "github.com/radieske/bet-ledger-poc/internal/ledger"

// ExecuteRequest é o envelope genérico de /v1/execute
type ExecuteRequest struct {
	Msg   ledger.ExecuteMsg `json:"msg"`
	Funds []ledger.Coin     `json:"funds,omitempty"`
}

// DepositRequest carrega os fundos anexados ao depósito
type DepositRequest struct {
	Funds []ledger.Coin `json:"funds"`
}

type AmountRequest struct {
	Amount ledger.Amount `json:"amount"`
}
