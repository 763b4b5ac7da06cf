package ledger

// Coin é um fundo anexado à chamada
type Coin struct {
	Denom  string `json:"denom"`
	Amount Amount `json:"amount"`
}

// MustPay exige exatamente um fundo, não nulo, da denominação exigida, e devolve o valor
func MustPay(funds []Coin, denom string) (Amount, error) {
	coin, err := oneCoin(funds)
	if err != nil {
		return 0, err
	}
	if coin.Denom != denom {
		return 0, &MissingDenomError{Denom: denom}
	}
	return coin.Amount, nil
}

func oneCoin(funds []Coin) (Coin, error) {
	switch len(funds) {
	case 0:
		return Coin{}, ErrNoFunds
	case 1:
		if funds[0].Amount == 0 {
			return Coin{}, ErrNoFunds
		}
		return funds[0], nil
	default:
		return Coin{}, ErrMultipleDenoms
	}
}
