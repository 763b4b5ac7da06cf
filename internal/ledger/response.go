package ledger

// Tipos de evento emitidos pelos comandos
const (
	EventInstantiated  = "instantiated"
	EventRoundOpened   = "round_opened"
	EventRoundClosed   = "round_closed"
	EventDeposit       = "deposit"
	EventBetPlaced     = "bet_placed"
	EventWithdraw      = "withdraw"
	EventFeesWithdrawn = "fees_withdrawn"
)

// Info identifica o chamador (já autenticado pelo host) e os fundos anexados
type Info struct {
	Sender string `json:"sender"`
	Funds  []Coin `json:"funds,omitempty"`
}

// Transfer é uma instrução de saída de custódia que o host executa após o sucesso da chamada
type Transfer struct {
	To     string `json:"to_address"`
	Denom  string `json:"denom"`
	Amount Amount `json:"amount"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event descreve uma transição concluída, publicada pelo host depois do commit
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Response é o resultado de um comando bem sucedido
type Response struct {
	Transfers  []Transfer  `json:"transfers,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Events     []Event     `json:"events,omitempty"`
}

func (r *Response) addTransfer(t Transfer) *Response {
	r.Transfers = append(r.Transfers, t)
	return r
}

func (r *Response) addAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Response) addEvent(typ string, attrs ...Attribute) *Response {
	r.Events = append(r.Events, Event{Type: typ, Attributes: attrs})
	return r
}

func attr(key, value string) Attribute { return Attribute{Key: key, Value: value} }
