package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/auth"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/host"
	httpapi "github.com/radieske/bet-ledger-poc/internal/ledger-service/http"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
)

func TestFormatParseAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatAmount(1_500_000, 6))
	assert.Equal(t, "0.000001", FormatAmount(1, 6))
	assert.Equal(t, "42", FormatAmount(42, 0))

	a, err := ParseAmount("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, ledger.Amount(1_500_000), a)

	_, err = ParseAmount("0.0000001", 6)
	assert.Error(t, err)
	_, err = ParseAmount("-1", 6)
	assert.Error(t, err)

	a, err = ParseAmount("500", 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.Amount(500), a)
}

func TestClientAgainstAPI(t *testing.T) {
	ctx := context.Background()
	j := auth.NewJWT("k", time.Hour)
	h := host.New(ledger.New("uscrt"), store.NewMemory(), host.Options{})
	srv := httptest.NewServer((&httpapi.API{Ledger: h, Auth: j}).Router())
	defer srv.Close()

	adminTok, _ := j.Issue("secret1admin")
	aliceTok, _ := j.Issue("secret1alice")
	adminC := New(srv.URL, adminTok)
	alice := New(srv.URL, aliceTok)

	_, err := adminC.Instantiate(ctx)
	require.NoError(t, err)

	_, err = alice.Execute(ctx, ledger.ExecuteMsg{Deposit: &ledger.Deposit{}}, ledger.Coin{Denom: "uscrt", Amount: 100})
	require.NoError(t, err)

	bal, err := alice.Balance(ctx, "secret1alice")
	require.NoError(t, err)
	assert.Equal(t, ledger.Amount(100), bal)

	_, err = alice.Execute(ctx, ledger.ExecuteMsg{WithdrawFees: &ledger.WithdrawFees{}})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, "unauthorized", apiErr.Code)

	round, err := alice.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultRound(), round)

	raw, err := alice.Query(ctx, ledger.QueryMsg{Config: &ledger.ConfigQuery{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin":"secret1admin","deposit_denom":"uscrt"}`, string(raw))
}
