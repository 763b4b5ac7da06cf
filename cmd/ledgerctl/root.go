package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/auth"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/client"
)

type globals struct {
	url      string
	token    string
	secret   string
	as       string
	decimals int32
	timeout  time.Duration
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "bet ledger client tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&g.url, "url", envOr("LEDGER_URL", "http://localhost:8084"), "ledger-service base url")
	f.StringVar(&g.token, "token", os.Getenv("LEDGER_TOKEN"), "bearer token")
	f.StringVar(&g.secret, "secret", os.Getenv("JWT_SECRET"), "jwt secret used to mint a token for --as")
	f.StringVar(&g.as, "as", "", "caller address (mints a token with --secret)")
	f.Int32Var(&g.decimals, "decimals", 0, "decimal places of the denomination for input and output")
	f.DurationVar(&g.timeout, "timeout", 5*time.Second, "request timeout")

	root.AddCommand(
		tokenCmd(g),
		instantiateCmd(g),
		openRoundCmd(g),
		closeRoundCmd(g),
		depositCmd(g),
		placeBetCmd(g),
		withdrawCmd(g),
		withdrawFeesCmd(g),
		roundCmd(g),
		bettingOpenCmd(g),
		balanceCmd(g),
		betCmd(g),
		feePoolCmd(g),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// client monta o cliente; com --as e --secret o token é gerado localmente
func (g *globals) client() (*client.Client, error) {
	tok := g.token
	if g.as != "" {
		if g.secret == "" {
			return nil, fmt.Errorf("--as requires --secret or JWT_SECRET")
		}
		var err error
		if tok, err = auth.NewJWT(g.secret, time.Hour).Issue(g.as); err != nil {
			return nil, err
		}
	}
	c := client.New(g.url, tok)
	c.HTTP.Timeout = g.timeout
	return c, nil
}

func (g *globals) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.timeout)
}

func (g *globals) parse(s string) (ledger.Amount, error) {
	return client.ParseAmount(s, g.decimals)
}

func (g *globals) format(a ledger.Amount) string {
	return client.FormatAmount(a, g.decimals)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type amountClient struct {
	c   *client.Client
	ctx context.Context
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
