package ledger

// feeDivisor define a taxa de 2%: fee = floor(amount / 50)
const feeDivisor = 50

// Fee calcula a taxa cobrada sobre uma aposta
func Fee(amount Amount) Amount {
	return amount / feeDivisor
}

// deposit credita no saldo do chamador o único fundo anexado da moeda configurada.
// O registro de saldo é criado com zero no primeiro depósito.
func deposit(kv KV, info Info) (Response, error) {
	denom, err := depositDenomRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	paid, err := MustPay(info.Funds, denom)
	if err != nil {
		return Response{}, err
	}

	item := balances.At(info.Sender)
	bal, _, err := item.MayLoad(kv)
	if err != nil {
		return Response{}, err
	}
	next, err := bal.Add(paid)
	if err != nil {
		return Response{}, err
	}
	if err := item.Save(kv, next); err != nil {
		return Response{}, err
	}

	var res Response
	res.addAttribute("action", "deposit").
		addAttribute("amount", paid.String()).
		addEvent(EventDeposit,
			attr("address", info.Sender),
			attr("amount", paid.String()),
			attr("balance", next.String()),
		)
	return res, nil
}

// withdraw debita exatamente amount e instrui a transferência de exatamente amount ao chamador
func withdraw(kv KV, info Info, amount Amount) (Response, error) {
	bal, err := loadBalance(kv, info.Sender)
	if err != nil {
		return Response{}, err
	}
	if bal < amount {
		return Response{}, &InsufficientBalanceError{Requested: amount, Available: bal}
	}
	denom, err := depositDenomRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	next, err := bal.Sub(amount)
	if err != nil {
		return Response{}, err
	}
	if err := balances.At(info.Sender).Save(kv, next); err != nil {
		return Response{}, err
	}

	var res Response
	if amount > 0 {
		res.addTransfer(Transfer{To: info.Sender, Denom: denom, Amount: amount})
	}
	res.addAttribute("action", "withdraw").
		addAttribute("amount", amount.String()).
		addEvent(EventWithdraw,
			attr("address", info.Sender),
			attr("amount", amount.String()),
			attr("balance", next.String()),
		)
	return res, nil
}

// placeBet debita amount + taxa, credita a taxa no pool e grava a aposta
// de (chamador, rodada corrente), sobrescrevendo aposta anterior na mesma rodada.
func placeBet(kv KV, info Info, amount Amount) (Response, error) {
	bal, err := loadBalance(kv, info.Sender)
	if err != nil {
		return Response{}, err
	}
	fee := Fee(amount)
	total, err := amount.Add(fee)
	if err != nil {
		return Response{}, err
	}
	if bal < total {
		return Response{}, &InsufficientBalanceError{Requested: amount, Available: bal}
	}
	round, err := currentRoundRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	nextBal, err := bal.Sub(total)
	if err != nil {
		return Response{}, err
	}

	// o crédito no pool é a última validação e a primeira escrita: se estourar, nada foi gravado
	if _, err := feePoolRecord.Update(kv, func(pool Amount) (Amount, error) {
		return pool.Add(fee)
	}); err != nil {
		return Response{}, err
	}
	if err := balances.At(info.Sender).Save(kv, nextBal); err != nil {
		return Response{}, err
	}
	if err := bets.At(info.Sender, round.ID).Save(kv, amount); err != nil {
		return Response{}, err
	}

	var res Response
	res.addAttribute("action", "place_bet").
		addAttribute("amount", amount.String()).
		addAttribute("fee", fee.String()).
		addEvent(EventBetPlaced,
			attr("address", info.Sender),
			attr("round_id", round.ID),
			attr("amount", amount.String()),
			attr("fee", fee.String()),
			attr("balance", nextBal.String()),
		)
	return res, nil
}

// withdrawFees zera o pool de taxas e instrui a transferência do total ao admin. Restrito ao admin.
func withdrawFees(kv KV, info Info) (Response, error) {
	admin, err := requireAdmin(kv, info.Sender)
	if err != nil {
		return Response{}, err
	}
	denom, err := depositDenomRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	pool, err := feePoolRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	if err := feePoolRecord.Save(kv, 0); err != nil {
		return Response{}, err
	}

	var res Response
	if pool > 0 {
		res.addTransfer(Transfer{To: admin, Denom: denom, Amount: pool})
	}
	res.addAttribute("action", "fee collection").
		addAttribute("amount", pool.String()).
		addEvent(EventFeesWithdrawn,
			attr("admin", admin),
			attr("amount", pool.String()),
		)
	return res, nil
}
