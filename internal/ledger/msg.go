package ledger

// InstantiateMsg não tem parâmetros: quem instancia vira admin
type InstantiateMsg struct{}

// ExecuteMsg é um comando; exatamente uma variante deve estar preenchida.
// JSON: {"place_bet": {"amount": "500"}}
type ExecuteMsg struct {
	OpenRound    *OpenRound    `json:"open_round,omitempty"`
	CloseRound   *CloseRound   `json:"close_round,omitempty"`
	Deposit      *Deposit      `json:"deposit,omitempty"`
	PlaceBet     *PlaceBet     `json:"place_bet,omitempty"`
	Withdraw     *Withdraw     `json:"withdraw,omitempty"`
	WithdrawFees *WithdrawFees `json:"withdraw_fees,omitempty"`
}

type OpenRound struct {
	ID   string `json:"id"`
	Game string `json:"game"`
	Odds Amount `json:"odds"`
}

type CloseRound struct {
	Winner string `json:"winner"`
}

type Deposit struct{}

type PlaceBet struct {
	Amount Amount `json:"amount"`
}

type Withdraw struct {
	Amount Amount `json:"amount"`
}

type WithdrawFees struct{}

// Name devolve o nome snake_case da variante preenchida
func (m ExecuteMsg) Name() (string, error) {
	var names []string
	if m.OpenRound != nil {
		names = append(names, "open_round")
	}
	if m.CloseRound != nil {
		names = append(names, "close_round")
	}
	if m.Deposit != nil {
		names = append(names, "deposit")
	}
	if m.PlaceBet != nil {
		names = append(names, "place_bet")
	}
	if m.Withdraw != nil {
		names = append(names, "withdraw")
	}
	if m.WithdrawFees != nil {
		names = append(names, "withdraw_fees")
	}
	if len(names) != 1 {
		return "", ErrInvalidMsg
	}
	return names[0], nil
}

// QueryMsg é uma consulta somente leitura; exatamente uma variante deve estar preenchida
type QueryMsg struct {
	CurrentRound *CurrentRoundQuery `json:"current_round,omitempty"`
	BettingOpen  *BettingOpenQuery  `json:"betting_open,omitempty"`
	Balance      *BalanceQuery      `json:"balance,omitempty"`
	Bet          *BetQuery          `json:"bet,omitempty"`
	FeePool      *FeePoolQuery      `json:"fee_pool,omitempty"`
	Config       *ConfigQuery       `json:"config,omitempty"`
}

type CurrentRoundQuery struct{}

type BettingOpenQuery struct{}

type BalanceQuery struct {
	Address string `json:"address"`
}

type BetQuery struct {
	Address string `json:"address"`
	RoundID string `json:"round_id"`
}

type FeePoolQuery struct{}

type ConfigQuery struct{}

// Name devolve o nome snake_case da variante preenchida
func (q QueryMsg) Name() (string, error) {
	var names []string
	if q.CurrentRound != nil {
		names = append(names, "current_round")
	}
	if q.BettingOpen != nil {
		names = append(names, "betting_open")
	}
	if q.Balance != nil {
		names = append(names, "balance")
	}
	if q.Bet != nil {
		names = append(names, "bet")
	}
	if q.FeePool != nil {
		names = append(names, "fee_pool")
	}
	if q.Config != nil {
		names = append(names, "config")
	}
	if len(names) != 1 {
		return "", ErrInvalidMsg
	}
	return names[0], nil
}
