package topics

const (
	// Transferências de saída instruídas pelo ledger (executadas fora do ledger)
	LedgerTransfers = "ledger_transfers"

	// Eventos de transição do ledger (rodadas, depósitos, apostas...)
	LedgerEvents = "ledger_events"

	// DLQs
	LedgerTransfersDLQ = "ledger_transfers_dlq"

	// Canal Redis Pub/Sub consumido pelo hub WebSocket
	LedgerEventsBroadcast = "ledger_events_broadcast"
)
