package events

// Evento publicado no tópico "ledger_transfers" para cada transferência de saída.
// TransferID é estável entre reenvios, consumidores devem deduplicar por ele.
type TransferRequested struct {
	TransferID string `json:"transfer_id"`
	Sequence   uint64 `json:"sequence"` // ordem de criação no outbox
	ToAddress  string `json:"to_address"`
	Denom      string `json:"denom"`
	Amount     string `json:"amount"` // inteiro decimal na menor unidade
	Action     string `json:"action"` // withdraw | withdraw_fees
	Caller     string `json:"caller"`
	Attempts   int    `json:"attempts"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}
