package ledger

// openRound substitui a rodada corrente. Restrito ao admin.
// Não toca em saldos nem na flag de apostas abertas.
func openRound(kv KV, info Info, msg OpenRound) (Response, error) {
	if _, err := requireAdmin(kv, info.Sender); err != nil {
		return Response{}, err
	}
	round := Round{ID: msg.ID, Game: msg.Game, Odds: msg.Odds}
	if err := currentRoundRecord.Save(kv, round); err != nil {
		return Response{}, err
	}

	var res Response
	res.addAttribute("action", "open_round").
		addAttribute("round_id", round.ID).
		addEvent(EventRoundOpened,
			attr("round_id", round.ID),
			attr("game", round.Game),
			attr("odds", round.Odds.String()),
		)
	return res, nil
}

// closeRound restaura a rodada padrão. Restrito ao admin.
// O vencedor segue no evento round_closed; a liquidação das apostas
// fica a cargo de quem consome o evento.
func closeRound(kv KV, info Info, msg CloseRound) (Response, error) {
	if _, err := requireAdmin(kv, info.Sender); err != nil {
		return Response{}, err
	}
	closed, err := currentRoundRecord.Load(kv)
	if err != nil {
		return Response{}, err
	}
	if err := currentRoundRecord.Save(kv, DefaultRound()); err != nil {
		return Response{}, err
	}

	var res Response
	res.addAttribute("action", "close_round").
		addAttribute("round_id", closed.ID).
		addEvent(EventRoundClosed,
			attr("round_id", closed.ID),
			attr("game", closed.Game),
			attr("odds", closed.Odds.String()),
			attr("winner", msg.Winner),
		)
	return res, nil
}
