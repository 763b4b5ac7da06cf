package client

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
)

// FormatAmount exibe o valor na unidade maior: 1500000 com 6 casas -> "1.5"
func FormatAmount(a ledger.Amount, decimals int32) string {
	if decimals <= 0 {
		return a.String()
	}
	d, _ := decimal.NewFromString(a.String())
	return d.Shift(-decimals).String()
}

// ParseAmount converte "1.5" com 6 casas em 1500000; rejeita frações menores que a unidade mínima
func ParseAmount(s string, decimals int32) (ledger.Amount, error) {
	if decimals <= 0 {
		return ledger.ParseAmount(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	base := d.Shift(decimals)
	if !base.IsInteger() || base.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must be a non-negative multiple of 1e-%d", s, decimals)
	}
	return ledger.ParseAmount(base.String())
}
