package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/auth"
)

func tokenCmd(g *globals) *cobra.Command {
	var ttl string
	cmd := &cobra.Command{
		Use:   "token [address]",
		Short: "Mint a bearer token for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			d, err := parseDuration(ttl)
			if err != nil {
				return err
			}
			tok, err := auth.NewJWT(g.secret, d).Issue(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&ttl, "ttl", "24h", "token lifetime")
	return cmd
}

func instantiateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "instantiate",
		Short: "Initialize the ledger with the caller as admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := g.ctx()
			defer cancel()
			res, err := c.Instantiate(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// execCmd monta comandos que só enviam um ExecuteMsg
func execCmd(g *globals, use, short string, args cobra.PositionalArgs, build func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			msg, funds, err := build(a)
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := g.ctx()
			defer cancel()
			res, err := c.Execute(ctx, msg, funds...)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func openRoundCmd(g *globals) *cobra.Command {
	return execCmd(g, "open-round [id] [game] [odds]", "Replace the current round (admin)", cobra.ExactArgs(3),
		func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			odds, err := ledger.ParseAmount(args[2])
			if err != nil {
				return ledger.ExecuteMsg{}, nil, err
			}
			return ledger.ExecuteMsg{OpenRound: &ledger.OpenRound{ID: args[0], Game: args[1], Odds: odds}}, nil, nil
		})
}

func closeRoundCmd(g *globals) *cobra.Command {
	return execCmd(g, "close-round [winner]", "Close the current round (admin)", cobra.ExactArgs(1),
		func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			return ledger.ExecuteMsg{CloseRound: &ledger.CloseRound{Winner: args[0]}}, nil, nil
		})
}

func depositCmd(g *globals) *cobra.Command {
	var denom string
	cmd := execCmd(g, "deposit [amount]", "Deposit funds into the caller balance", cobra.ExactArgs(1),
		func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			amount, err := g.parse(args[0])
			if err != nil {
				return ledger.ExecuteMsg{}, nil, err
			}
			return ledger.ExecuteMsg{Deposit: &ledger.Deposit{}}, []ledger.Coin{{Denom: denom, Amount: amount}}, nil
		})
	cmd.Flags().StringVar(&denom, "denom", "uscrt", "denomination of the attached funds")
	return cmd
}

func placeBetCmd(g *globals) *cobra.Command {
	return execCmd(g, "place-bet [amount]", "Bet on the current round (2% fee)", cobra.ExactArgs(1),
		func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			amount, err := g.parse(args[0])
			if err != nil {
				return ledger.ExecuteMsg{}, nil, err
			}
			return ledger.ExecuteMsg{PlaceBet: &ledger.PlaceBet{Amount: amount}}, nil, nil
		})
}

func withdrawCmd(g *globals) *cobra.Command {
	return execCmd(g, "withdraw [amount]", "Withdraw from the caller balance", cobra.ExactArgs(1),
		func(args []string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			amount, err := g.parse(args[0])
			if err != nil {
				return ledger.ExecuteMsg{}, nil, err
			}
			return ledger.ExecuteMsg{Withdraw: &ledger.Withdraw{Amount: amount}}, nil, nil
		})
}

func withdrawFeesCmd(g *globals) *cobra.Command {
	return execCmd(g, "withdraw-fees", "Sweep the fee pool to the admin (admin)", cobra.NoArgs,
		func([]string) (ledger.ExecuteMsg, []ledger.Coin, error) {
			return ledger.ExecuteMsg{WithdrawFees: &ledger.WithdrawFees{}}, nil, nil
		})
}

func roundCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "round",
		Short: "Show the current round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := g.ctx()
			defer cancel()
			r, err := c.CurrentRound(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		},
	}
}

func bettingOpenCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "betting-open",
		Short: "Show the betting open flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := g.ctx()
			defer cancel()
			open, err := c.BettingOpen(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), open)
			return err
		},
	}
}

// amountCmd monta consultas que devolvem um valor
func amountCmd(g *globals, use, short string, args cobra.PositionalArgs, fetch func(c amountClient, args []string) (ledger.Amount, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := g.ctx()
			defer cancel()
			v, err := fetch(amountClient{c: c, ctx: ctx}, a)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), g.format(v))
			return err
		},
	}
}

func balanceCmd(g *globals) *cobra.Command {
	return amountCmd(g, "balance [address]", "Show an address balance", cobra.ExactArgs(1),
		func(c amountClient, args []string) (ledger.Amount, error) { return c.c.Balance(c.ctx, args[0]) })
}

func betCmd(g *globals) *cobra.Command {
	return amountCmd(g, "bet [address] [round-id]", "Show the amount an address bet on a round", cobra.ExactArgs(2),
		func(c amountClient, args []string) (ledger.Amount, error) { return c.c.Bet(c.ctx, args[0], args[1]) })
}

func feePoolCmd(g *globals) *cobra.Command {
	return amountCmd(g, "fee-pool", "Show the accumulated fee pool", cobra.NoArgs,
		func(c amountClient, _ []string) (ledger.Amount, error) { return c.c.FeePool(c.ctx) })
}
