// Package client é o cliente HTTP da API do ledger-service
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(base, token string) *Client {
	return &Client{
		BaseURL: base,
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// APIError é uma resposta de erro da API
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("ledger http %d", e.Status)
	}
	return fmt.Sprintf("ledger http %d (%s): %s", e.Status, e.Code, e.Message)
}

func (c *Client) Instantiate(ctx context.Context) (ledger.Response, error) {
	var out ledger.Response
	err := c.do(ctx, http.MethodPost, "/v1/instantiate", nil, &out)
	return out, err
}

// Execute envia qualquer comando com os fundos anexados
func (c *Client) Execute(ctx context.Context, msg ledger.ExecuteMsg, funds ...ledger.Coin) (ledger.Response, error) {
	body := map[string]any{"msg": msg}
	if len(funds) > 0 {
		body["funds"] = funds
	}
	var out ledger.Response
	err := c.do(ctx, http.MethodPost, "/v1/execute", body, &out)
	return out, err
}

// Query devolve o JSON cru da projeção
func (c *Client) Query(ctx context.Context, msg ledger.QueryMsg) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/v1/query", msg, &out)
	return out, err
}

func (c *Client) Balance(ctx context.Context, address string) (ledger.Amount, error) {
	var out ledger.Amount
	err := c.do(ctx, http.MethodGet, "/v1/balances/"+url.PathEscape(address), nil, &out)
	return out, err
}

func (c *Client) Bet(ctx context.Context, address, roundID string) (ledger.Amount, error) {
	var out ledger.Amount
	err := c.do(ctx, http.MethodGet, "/v1/bets/"+url.PathEscape(address)+"/"+url.PathEscape(roundID), nil, &out)
	return out, err
}

func (c *Client) FeePool(ctx context.Context) (ledger.Amount, error) {
	var out ledger.Amount
	err := c.do(ctx, http.MethodGet, "/v1/fee-pool", nil, &out)
	return out, err
}

func (c *Client) CurrentRound(ctx context.Context) (ledger.Round, error) {
	var out ledger.Round
	err := c.do(ctx, http.MethodGet, "/v1/round", nil, &out)
	return out, err
}

func (c *Client) BettingOpen(ctx context.Context) (bool, error) {
	var out bool
	err := c.do(ctx, http.MethodGet, "/v1/betting-open", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		apiErr := &APIError{Status: res.StatusCode}
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
