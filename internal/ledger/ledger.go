// Package ledger implementa a máquina de estados contábil: saldos custodiados,
// apostas por rodada, pool de taxas e operações restritas ao admin.
//
// O pacote não faz locking nem I/O próprio: cada chamada recebe um KV do host,
// que garante execução uma por vez e descarta as escritas quando a chamada falha.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Ledger agrupa os pontos de entrada; denom é a moeda fixada na inicialização
type Ledger struct {
	denom string
}

// New cria um ledger que, ao ser instanciado, aceitará depósitos em denom
func New(denom string) *Ledger {
	return &Ledger{denom: denom}
}

// Instantiate grava os singletons: admin = chamador, rodada padrão, denominação,
// pool de taxas zerado e apostas fechadas.
func (l *Ledger) Instantiate(kv KV, info Info, _ InstantiateMsg) (Response, error) {
	if info.Sender == "" {
		return Response{}, ErrMissingCaller
	}
	_, exists, err := adminRecord.MayLoad(kv)
	if err != nil {
		return Response{}, err
	}
	if exists {
		return Response{}, ErrAlreadyInitialized
	}

	if err := currentRoundRecord.Save(kv, DefaultRound()); err != nil {
		return Response{}, err
	}
	if err := adminRecord.Save(kv, info.Sender); err != nil {
		return Response{}, err
	}
	if err := depositDenomRecord.Save(kv, l.denom); err != nil {
		return Response{}, err
	}
	if err := feePoolRecord.Save(kv, 0); err != nil {
		return Response{}, err
	}
	if err := bettingOpenRecord.Save(kv, false); err != nil {
		return Response{}, err
	}

	var res Response
	res.addAttribute("action", "instantiate").
		addEvent(EventInstantiated, attr("admin", info.Sender), attr("deposit_denom", l.denom))
	return res, nil
}

// Execute despacha um comando para o Round Lifecycle Manager ou para o Accounting Engine
func (l *Ledger) Execute(kv KV, info Info, msg ExecuteMsg) (Response, error) {
	if _, err := msg.Name(); err != nil {
		return Response{}, err
	}
	if info.Sender == "" {
		return Response{}, ErrMissingCaller
	}
	if err := requireInitialized(kv); err != nil {
		return Response{}, err
	}

	switch {
	case msg.OpenRound != nil:
		return openRound(kv, info, *msg.OpenRound)
	case msg.CloseRound != nil:
		return closeRound(kv, info, *msg.CloseRound)
	case msg.Deposit != nil:
		return deposit(kv, info)
	case msg.PlaceBet != nil:
		return placeBet(kv, info, msg.PlaceBet.Amount)
	case msg.Withdraw != nil:
		return withdraw(kv, info, msg.Withdraw.Amount)
	default:
		return withdrawFees(kv, info)
	}
}

// Query executa uma consulta e devolve a projeção serializada em JSON
func (l *Ledger) Query(kv KV, msg QueryMsg) ([]byte, error) {
	if _, err := msg.Name(); err != nil {
		return nil, err
	}
	if err := requireInitialized(kv); err != nil {
		return nil, err
	}

	var (
		out any
		err error
	)
	switch {
	case msg.CurrentRound != nil:
		out, err = QueryCurrentRound(kv)
	case msg.BettingOpen != nil:
		out, err = QueryBettingOpen(kv)
	case msg.Balance != nil:
		out, err = QueryBalance(kv, msg.Balance.Address)
	case msg.Bet != nil:
		out, err = QueryBet(kv, msg.Bet.Address, msg.Bet.RoundID)
	case msg.FeePool != nil:
		out, err = QueryFeePool(kv)
	default:
		out, err = QueryConfig(kv)
	}
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode query result: %w", err)
	}
	return b, nil
}

func requireInitialized(kv KV) error {
	_, ok, err := adminRecord.MayLoad(kv)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInitialized
	}
	return nil
}

// requireAdmin falha com UnauthorizedError quando o chamador não é o admin
func requireAdmin(kv KV, caller string) (string, error) {
	admin, err := adminRecord.Load(kv)
	if err != nil {
		return "", err
	}
	if caller != admin {
		return "", &UnauthorizedError{Caller: caller}
	}
	return admin, nil
}

// loadBalance traduz a ausência do registro de saldo em ErrNoBalanceRecord
func loadBalance(kv KV, addr string) (Amount, error) {
	bal, err := balances.At(addr).Load(kv)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrNoBalanceRecord
	}
	return bal, err
}
