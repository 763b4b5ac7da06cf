package ledger

// Round é a rodada de apostas corrente; existe exatamente uma por vez
type Round struct {
	ID   string `json:"id"`
	Game string `json:"game"`
	Odds Amount `json:"odds"`
}

// DefaultRound é a rodada gravada na inicialização e restaurada por CloseRound
func DefaultRound() Round {
	return Round{ID: "0", Game: "N/a", Odds: 500000}
}

// Config é a projeção dos parâmetros fixados na inicialização
type Config struct {
	Admin        string `json:"admin"`
	DepositDenom string `json:"deposit_denom"`
}

// Registros persistidos. Singletons globais vivem sob chaves nomeadas;
// saldos e apostas são indexados pelo endereço do chamador.
var (
	adminRecord        = NewItem[string]("admin")
	currentRoundRecord = NewItem[Round]("current_round")
	depositDenomRecord = NewItem[string]("deposit_denom")
	feePoolRecord      = NewItem[Amount]("fee_pool_balance")
	bettingOpenRecord  = NewItem[bool]("betting_open")

	balances = NewMap[Amount]("user_balance")
	bets     = NewMap[Amount]("bets") // (endereço, id da rodada) -> valor apostado
)
