package events

import "time"

// Evento publicado no tópico "ledger_events" e no canal de broadcast após cada comando confirmado
type LedgerEvent struct {
	Type       string            `json:"type"` // round_opened | round_closed | deposit | bet_placed | withdraw | fees_withdrawn | instantiated
	Caller     string            `json:"caller"`
	Attributes map[string]string `json:"attributes"`
	Ts         time.Time         `json:"ts"`
}
