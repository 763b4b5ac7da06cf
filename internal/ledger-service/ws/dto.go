package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Event: tipo de evento do ledger (round_opened, deposit, ...) ou "*" para todos
type ClientMsg struct {
	Type  string `json:"type"`
	Event string `json:"event"`
}

// AllEvents assina todos os tipos de evento
const AllEvents = "*"
