package ledger

import "fmt"

// QueryCurrentRound devolve a rodada corrente
func QueryCurrentRound(kv KV) (Round, error) {
	return currentRoundRecord.Load(kv)
}

// QueryBettingOpen devolve a flag de apostas abertas
func QueryBettingOpen(kv KV) (bool, error) {
	return bettingOpenRecord.Load(kv)
}

// QueryBalance devolve o saldo do endereço; ErrNoBalanceRecord se nunca depositou
func QueryBalance(kv KV, addr string) (Amount, error) {
	return loadBalance(kv, addr)
}

// QueryBet devolve o valor apostado pelo endereço na rodada; ErrNotFound se não houver aposta
func QueryBet(kv KV, addr, roundID string) (Amount, error) {
	v, ok, err := bets.At(addr, roundID).MayLoad(kv)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: bet %s@%s", ErrNotFound, addr, roundID)
	}
	return v, nil
}

// QueryFeePool devolve o saldo acumulado de taxas
func QueryFeePool(kv KV) (Amount, error) {
	return feePoolRecord.Load(kv)
}

// QueryConfig devolve admin e denominação de depósito
func QueryConfig(kv KV) (Config, error) {
	admin, err := adminRecord.Load(kv)
	if err != nil {
		return Config{}, err
	}
	denom, err := depositDenomRecord.Load(kv)
	if err != nil {
		return Config{}, err
	}
	return Config{Admin: admin, DepositDenom: denom}, nil
}
