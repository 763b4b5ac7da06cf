package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/auth"
)

func caller(r *http.Request) string {
	c, _ := auth.CallerFrom(r.Context())
	return c
}

func (a *API) instantiate(w http.ResponseWriter, r *http.Request) {
	res, err := a.Ledger.Instantiate(r.Context(), caller(r))
	if err != nil {
		a.fail(w, err, command)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// execute recebe qualquer ExecuteMsg com os fundos anexados
func (a *API) execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, req.Funds, req.Msg)
}

func (a *API) openRound(w http.ResponseWriter, r *http.Request) {
	var req ledger.OpenRound
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, nil, ledger.ExecuteMsg{OpenRound: &req})
}

func (a *API) closeRound(w http.ResponseWriter, r *http.Request) {
	var req ledger.CloseRound
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, nil, ledger.ExecuteMsg{CloseRound: &req})
}

func (a *API) deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, req.Funds, ledger.ExecuteMsg{Deposit: &ledger.Deposit{}})
}

func (a *API) placeBet(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, nil, ledger.ExecuteMsg{PlaceBet: &ledger.PlaceBet{Amount: req.Amount}})
}

func (a *API) withdraw(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a.run(w, r, nil, ledger.ExecuteMsg{Withdraw: &ledger.Withdraw{Amount: req.Amount}})
}

func (a *API) withdrawFees(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, nil, ledger.ExecuteMsg{WithdrawFees: &ledger.WithdrawFees{}})
}

func (a *API) run(w http.ResponseWriter, r *http.Request, funds []ledger.Coin, msg ledger.ExecuteMsg) {
	res, err := a.Ledger.Execute(r.Context(), ledger.Info{Sender: caller(r), Funds: funds}, msg)
	if err != nil {
		a.fail(w, err, command)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// query recebe qualquer QueryMsg
func (a *API) query(w http.ResponseWriter, r *http.Request) {
	var msg ledger.QueryMsg
	if err := decode(w, r, &msg); err != nil {
		badRequest(w, err)
		return
	}
	a.ask(w, r, msg)
}

func (a *API) currentRound(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{CurrentRound: &ledger.CurrentRoundQuery{}})
}

func (a *API) bettingOpen(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{BettingOpen: &ledger.BettingOpenQuery{}})
}

func (a *API) balance(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{Balance: &ledger.BalanceQuery{Address: chi.URLParam(r, "address")}})
}

func (a *API) bet(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{Bet: &ledger.BetQuery{
		Address: chi.URLParam(r, "address"),
		RoundID: chi.URLParam(r, "roundId"),
	}})
}

func (a *API) feePool(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{FeePool: &ledger.FeePoolQuery{}})
}

func (a *API) config(w http.ResponseWriter, r *http.Request) {
	a.ask(w, r, ledger.QueryMsg{Config: &ledger.ConfigQuery{}})
}

func (a *API) ask(w http.ResponseWriter, r *http.Request, msg ledger.QueryMsg) {
	b, err := a.Ledger.Query(r.Context(), msg)
	if err != nil {
		a.fail(w, err, query)
		return
	}
	writeRaw(w, http.StatusOK, b)
}
