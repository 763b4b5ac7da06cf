package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin = "secret1admin"
	testAlice = "secret1alice"
	testBob   = "secret1bob"
	testDenom = "uscrt"
)

// memKV é um KV em memória que também permite snapshot para conferir ausência de mutação
type memKV map[string][]byte

func (m memKV) Get(key []byte) ([]byte, error) {
	v, ok := m[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m memKV) Set(key, value []byte) error {
	m[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m memKV) snapshot() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = string(v)
	}
	return out
}

func newInstantiated(t *testing.T) (*Ledger, memKV) {
	t.Helper()
	l := New(testDenom)
	kv := memKV{}
	_, err := l.Instantiate(kv, Info{Sender: testAdmin}, InstantiateMsg{})
	require.NoError(t, err)
	return l, kv
}

func exec(l *Ledger, kv KV, sender string, msg ExecuteMsg, funds ...Coin) (Response, error) {
	return l.Execute(kv, Info{Sender: sender, Funds: funds}, msg)
}

func mustDeposit(t *testing.T, l *Ledger, kv KV, sender string, amount Amount) {
	t.Helper()
	_, err := exec(l, kv, sender, ExecuteMsg{Deposit: &Deposit{}}, Coin{Denom: testDenom, Amount: amount})
	require.NoError(t, err)
}

func TestInstantiate(t *testing.T) {
	l, kv := newInstantiated(t)

	round, err := QueryCurrentRound(kv)
	require.NoError(t, err)
	assert.Equal(t, DefaultRound(), round)

	open, err := QueryBettingOpen(kv)
	require.NoError(t, err)
	assert.False(t, open)

	pool, err := QueryFeePool(kv)
	require.NoError(t, err)
	assert.Equal(t, Amount(0), pool)

	cfg, err := QueryConfig(kv)
	require.NoError(t, err)
	assert.Equal(t, Config{Admin: testAdmin, DepositDenom: testDenom}, cfg)

	_, err = l.Instantiate(kv, Info{Sender: testAlice}, InstantiateMsg{})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInstantiateRequiresCaller(t *testing.T) {
	_, err := New(testDenom).Instantiate(memKV{}, Info{}, InstantiateMsg{})
	assert.ErrorIs(t, err, ErrMissingCaller)
}

func TestExecuteBeforeInstantiate(t *testing.T) {
	l := New(testDenom)
	kv := memKV{}
	_, err := exec(l, kv, testAlice, ExecuteMsg{Withdraw: &Withdraw{Amount: 1}})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = l.Query(kv, QueryMsg{CurrentRound: &CurrentRoundQuery{}})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestExecuteRejectsAmbiguousMsg(t *testing.T) {
	l, kv := newInstantiated(t)
	_, err := exec(l, kv, testAlice, ExecuteMsg{})
	assert.ErrorIs(t, err, ErrInvalidMsg)

	_, err = exec(l, kv, testAlice, ExecuteMsg{Deposit: &Deposit{}, WithdrawFees: &WithdrawFees{}})
	assert.ErrorIs(t, err, ErrInvalidMsg)
}

func TestDepositIsAdditive(t *testing.T) {
	l, kv := newInstantiated(t)
	var want Amount
	for _, d := range []Amount{1000, 1, 250, 999999} {
		mustDeposit(t, l, kv, testAlice, d)
		want += d
		bal, err := QueryBalance(kv, testAlice)
		require.NoError(t, err)
		assert.Equal(t, want, bal)
	}
}

func TestDepositPaymentErrors(t *testing.T) {
	l, kv := newInstantiated(t)
	before := kv.snapshot()

	cases := []struct {
		name  string
		funds []Coin
		check func(t *testing.T, err error)
	}{
		{"no funds", nil, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoFunds) }},
		{"zero amount", []Coin{{Denom: testDenom, Amount: 0}}, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoFunds) }},
		{"two coins", []Coin{{Denom: testDenom, Amount: 1}, {Denom: "uatom", Amount: 1}}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrMultipleDenoms)
		}},
		{"wrong denom", []Coin{{Denom: "uatom", Amount: 10}}, func(t *testing.T, err error) {
			var md *MissingDenomError
			require.ErrorAs(t, err, &md)
			assert.Equal(t, testDenom, md.Denom)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := exec(l, kv, testAlice, ExecuteMsg{Deposit: &Deposit{}}, tc.funds...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPayment)
			tc.check(t, err)
			assert.Equal(t, before, kv.snapshot())
		})
	}
}

func TestDepositOverflow(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, Amount(^uint64(0)))
	_, err := exec(l, kv, testAlice, ExecuteMsg{Deposit: &Deposit{}}, Coin{Denom: testDenom, Amount: 1})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestWithdraw(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 1000)

	res, err := exec(l, kv, testAlice, ExecuteMsg{Withdraw: &Withdraw{Amount: 300}})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{{To: testAlice, Denom: testDenom, Amount: 300}}, res.Transfers)
	assert.Contains(t, res.Attributes, Attribute{Key: "action", Value: "withdraw"})
	assert.Contains(t, res.Attributes, Attribute{Key: "amount", Value: "300"})

	bal, err := QueryBalance(kv, testAlice)
	require.NoError(t, err)
	assert.Equal(t, Amount(700), bal)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 100)
	before := kv.snapshot()

	_, err := exec(l, kv, testAlice, ExecuteMsg{Withdraw: &Withdraw{Amount: 101}})
	var ib *InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assert.Equal(t, Amount(101), ib.Requested)
	assert.Equal(t, Amount(100), ib.Available)
	assert.Equal(t, before, kv.snapshot())
}

func TestWithdrawWithoutBalance(t *testing.T) {
	l, kv := newInstantiated(t)
	_, err := exec(l, kv, testBob, ExecuteMsg{Withdraw: &Withdraw{Amount: 1}})
	assert.ErrorIs(t, err, ErrNoBalanceRecord)
}

func TestWithdrawZeroQueuesNothing(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 10)
	res, err := exec(l, kv, testAlice, ExecuteMsg{Withdraw: &Withdraw{Amount: 0}})
	require.NoError(t, err)
	assert.Empty(t, res.Transfers)
}

func TestPlaceBet(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 1000)
	_, err := exec(l, kv, testAdmin, ExecuteMsg{OpenRound: &OpenRound{ID: "r1", Game: "coinflip", Odds: 200}})
	require.NoError(t, err)

	res, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 500}})
	require.NoError(t, err)
	assert.Empty(t, res.Transfers)
	require.Len(t, res.Events, 1)
	assert.Equal(t, EventBetPlaced, res.Events[0].Type)

	bal, err := QueryBalance(kv, testAlice)
	require.NoError(t, err)
	assert.Equal(t, Amount(490), bal)

	pool, err := QueryFeePool(kv)
	require.NoError(t, err)
	assert.Equal(t, Amount(10), pool)

	stake, err := QueryBet(kv, testAlice, "r1")
	require.NoError(t, err)
	assert.Equal(t, Amount(500), stake)
}

func TestPlaceBetFeeFloor(t *testing.T) {
	for _, tc := range []struct {
		amount, fee Amount
	}{{0, 0}, {49, 0}, {50, 1}, {99, 1}, {100, 2}, {1234, 24}} {
		l, kv := newInstantiated(t)
		mustDeposit(t, l, kv, testAlice, 10000)

		_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: tc.amount}})
		require.NoError(t, err)

		assert.Equal(t, tc.fee, Fee(tc.amount))
		bal, _ := QueryBalance(kv, testAlice)
		assert.Equal(t, 10000-tc.amount-tc.fee, bal, "amount %d", tc.amount)
		pool, _ := QueryFeePool(kv)
		assert.Equal(t, tc.fee, pool, "amount %d", tc.amount)
	}
}

func TestPlaceBetInsufficientBalance(t *testing.T) {
	l, kv := newInstantiated(t)
	// 500 + 10 de taxa exige 510
	mustDeposit(t, l, kv, testAlice, 509)
	before := kv.snapshot()

	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 500}})
	var ib *InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assert.Equal(t, Amount(500), ib.Requested)
	assert.Equal(t, Amount(509), ib.Available)
	assert.Equal(t, before, kv.snapshot())
}

func TestPlaceBetOverflowMutatesNothing(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 10)
	before := kv.snapshot()

	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: Amount(^uint64(0))}})
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, before, kv.snapshot())
}

func TestPlaceBetFeePoolOverflowMutatesNothing(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 1000)
	require.NoError(t, feePoolRecord.Save(kv, Amount(^uint64(0))))
	before := kv.snapshot()

	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 500}})
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, before, kv.snapshot())

	_, err = QueryBet(kv, testAlice, DefaultRound().ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceBetWithoutBalance(t *testing.T) {
	l, kv := newInstantiated(t)
	_, err := exec(l, kv, testBob, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 1}})
	assert.ErrorIs(t, err, ErrNoBalanceRecord)
}

func TestPlaceBetOverwritesSameRound(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 10000)

	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 100}})
	require.NoError(t, err)
	_, err = exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 300}})
	require.NoError(t, err)

	stake, err := QueryBet(kv, testAlice, DefaultRound().ID)
	require.NoError(t, err)
	assert.Equal(t, Amount(300), stake)

	bal, _ := QueryBalance(kv, testAlice)
	assert.Equal(t, Amount(10000-102-306), bal)
}

func TestQueryBetMissing(t *testing.T) {
	_, kv := newInstantiated(t)
	_, err := QueryBet(kv, testAlice, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRoundThenCurrentRound(t *testing.T) {
	l, kv := newInstantiated(t)
	msg := OpenRound{ID: "42", Game: "roulette", Odds: 1750000}
	_, err := exec(l, kv, testAdmin, ExecuteMsg{OpenRound: &msg})
	require.NoError(t, err)

	round, err := QueryCurrentRound(kv)
	require.NoError(t, err)
	assert.Equal(t, Round{ID: "42", Game: "roulette", Odds: 1750000}, round)

	open, _ := QueryBettingOpen(kv)
	assert.False(t, open)
}

func TestOpenRoundRequiresAdmin(t *testing.T) {
	l, kv := newInstantiated(t)
	before := kv.snapshot()
	_, err := exec(l, kv, testAlice, ExecuteMsg{OpenRound: &OpenRound{ID: "1", Game: "x", Odds: 1}})
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, testAlice, ue.Caller)
	assert.Equal(t, before, kv.snapshot())
}

func TestCloseRound(t *testing.T) {
	l, kv := newInstantiated(t)
	_, err := exec(l, kv, testAdmin, ExecuteMsg{OpenRound: &OpenRound{ID: "7", Game: "dice", Odds: 3}})
	require.NoError(t, err)

	_, err = exec(l, kv, testBob, ExecuteMsg{CloseRound: &CloseRound{Winner: "home"}})
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)
	round, _ := QueryCurrentRound(kv)
	assert.Equal(t, "7", round.ID)

	res, err := exec(l, kv, testAdmin, ExecuteMsg{CloseRound: &CloseRound{Winner: "home"}})
	require.NoError(t, err)
	round, _ = QueryCurrentRound(kv)
	assert.Equal(t, DefaultRound(), round)

	require.Len(t, res.Events, 1)
	assert.Equal(t, EventRoundClosed, res.Events[0].Type)
	assert.Contains(t, res.Events[0].Attributes, Attribute{Key: "winner", Value: "home"})
	assert.Contains(t, res.Events[0].Attributes, Attribute{Key: "round_id", Value: "7"})

	// fechar de novo a rodada padrão continua válido
	_, err = exec(l, kv, testAdmin, ExecuteMsg{CloseRound: &CloseRound{}})
	require.NoError(t, err)
}

func TestWithdrawFees(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 10000)
	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 5000}})
	require.NoError(t, err)

	_, err = exec(l, kv, testAlice, ExecuteMsg{WithdrawFees: &WithdrawFees{}})
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)

	res, err := exec(l, kv, testAdmin, ExecuteMsg{WithdrawFees: &WithdrawFees{}})
	require.NoError(t, err)
	assert.Equal(t, []Transfer{{To: testAdmin, Denom: testDenom, Amount: 100}}, res.Transfers)
	assert.Contains(t, res.Attributes, Attribute{Key: "action", Value: "fee collection"})

	pool, _ := QueryFeePool(kv)
	assert.Equal(t, Amount(0), pool)

	// segunda retirada não retransfere o mesmo total
	res, err = exec(l, kv, testAdmin, ExecuteMsg{WithdrawFees: &WithdrawFees{}})
	require.NoError(t, err)
	assert.Empty(t, res.Transfers)
}

func TestQueryBalanceUnknownAddress(t *testing.T) {
	l, kv := newInstantiated(t)
	_, err := QueryBalance(kv, testBob)
	assert.ErrorIs(t, err, ErrNoBalanceRecord)

	_, err = l.Query(kv, QueryMsg{Balance: &BalanceQuery{Address: testBob}})
	assert.ErrorIs(t, err, ErrNoBalanceRecord)
}

func TestQuerySerialization(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 1000)

	b, err := l.Query(kv, QueryMsg{CurrentRound: &CurrentRoundQuery{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"0","game":"N/a","odds":"500000"}`, string(b))

	b, err = l.Query(kv, QueryMsg{BettingOpen: &BettingOpenQuery{}})
	require.NoError(t, err)
	assert.Equal(t, "false", string(b))

	b, err = l.Query(kv, QueryMsg{Balance: &BalanceQuery{Address: testAlice}})
	require.NoError(t, err)
	assert.Equal(t, `"1000"`, string(b))

	b, err = l.Query(kv, QueryMsg{Config: &ConfigQuery{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin":"secret1admin","deposit_denom":"uscrt"}`, string(b))
}

func TestEndToEnd(t *testing.T) {
	l, kv := newInstantiated(t)
	mustDeposit(t, l, kv, testAlice, 1000)

	_, err := exec(l, kv, testAlice, ExecuteMsg{PlaceBet: &PlaceBet{Amount: 500}})
	require.NoError(t, err)

	bal, _ := QueryBalance(kv, testAlice)
	assert.Equal(t, Amount(490), bal)
	pool, _ := QueryFeePool(kv)
	assert.Equal(t, Amount(10), pool)

	res, err := exec(l, kv, testAlice, ExecuteMsg{Withdraw: &Withdraw{Amount: 490}})
	require.NoError(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, Amount(490), res.Transfers[0].Amount)
	bal, _ = QueryBalance(kv, testAlice)
	assert.Equal(t, Amount(0), bal)
}

func TestExecuteMsgJSON(t *testing.T) {
	var msg ExecuteMsg
	require.NoError(t, json.Unmarshal([]byte(`{"place_bet":{"amount":"500"}}`), &msg))
	name, err := msg.Name()
	require.NoError(t, err)
	assert.Equal(t, "place_bet", name)
	assert.Equal(t, Amount(500), msg.PlaceBet.Amount)

	var wmsg ExecuteMsg
	require.NoError(t, json.Unmarshal([]byte(`{"withdraw":{"amount":42}}`), &wmsg))
	assert.Equal(t, Amount(42), wmsg.Withdraw.Amount)

	var q QueryMsg
	require.NoError(t, json.Unmarshal([]byte(`{"balance":{"address":"a"}}`), &q))
	name, err = q.Name()
	require.NoError(t, err)
	assert.Equal(t, "balance", name)
}
