package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"BreadthTrader/internal/config"
)

// BridgeBroker talks to a Shioaji HTTP bridge. One authenticated session is
// used for all quote, position and order calls within a run.
type BridgeBroker struct {
	BaseURL    string
	Simulation bool
	Creds      *config.Credentials
	Client     *http.Client

	token string
}

// NewBridgeBroker creates a broker client with optional proxy support.
// Simulation selects the paper-trading environment.
func NewBridgeBroker(baseURL string, simulation bool, creds *config.Credentials, proxyURL string) *BridgeBroker {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BridgeBroker{
		BaseURL:    baseURL,
		Simulation: simulation,
		Creds:      creds,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Login authenticates against the bridge and activates the CA certificate.
func (b *BridgeBroker) Login(ctx context.Context) error {
	var loginResp struct {
		Token string `json:"token"`
	}
	err := b.postJSON(ctx, "/login", map[string]any{
		"api_key":    b.Creds.APIKey,
		"secret_key": b.Creds.SecretKey,
		"simulation": b.Simulation,
	}, &loginResp)
	if err != nil {
		return &AuthError{Err: err}
	}
	if loginResp.Token == "" {
		return &AuthError{Err: fmt.Errorf("empty session token")}
	}
	b.token = loginResp.Token

	err = b.postJSON(ctx, "/ca/activate", map[string]any{
		"ca_path":   b.Creds.CAPath,
		"ca_passwd": b.Creds.CAPassword,
		"person_id": b.Creds.PersonID,
	}, nil)
	if err != nil {
		return &AuthError{Err: fmt.Errorf("activate ca: %w", err)}
	}
	return nil
}

// Snapshot returns the current best bid/ask for the instrument.
func (b *BridgeBroker) Snapshot(ctx context.Context, code string) (Quote, error) {
	var snap struct {
		Code      string          `json:"code"`
		BuyPrice  decimal.Decimal `json:"buy_price"`
		SellPrice decimal.Decimal `json:"sell_price"`
	}
	if err := b.getJSON(ctx, "/snapshots?code="+url.QueryEscape(code), &snap); err != nil {
		return Quote{}, &QueryError{Op: "snapshot", Err: err}
	}
	return Quote{Code: snap.Code, BuyPrice: snap.BuyPrice, SellPrice: snap.SellPrice}, nil
}

// HasPosition reports whether the instrument is currently held.
func (b *BridgeBroker) HasPosition(ctx context.Context, code string) (bool, error) {
	var positions []struct {
		Code     string `json:"code"`
		Quantity int    `json:"quantity"`
	}
	if err := b.getJSON(ctx, "/positions?unit=share", &positions); err != nil {
		return false, &QueryError{Op: "positions", Err: err}
	}
	for _, p := range positions {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// PlaceOrder places a limit ROD intraday-odd order.
func (b *BridgeBroker) PlaceOrder(ctx context.Context, code string, action Action, quantity int, price decimal.Decimal) (OrderRef, error) {
	clientID := uuid.NewString()
	var placed struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	err := b.postJSON(ctx, "/orders", map[string]any{
		"code":            code,
		"action":          string(action),
		"price_type":      "LMT",
		"order_type":      "ROD",
		"order_lot":       "IntradayOdd",
		"quantity":        quantity,
		"price":           price,
		"client_order_id": clientID,
	}, &placed)
	if err != nil {
		return OrderRef{}, &OrderError{Action: action, Err: err}
	}
	return OrderRef{ID: placed.ID, ClientOrderID: clientID, Status: placed.Status}, nil
}

func (b *BridgeBroker) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, out)
}

func (b *BridgeBroker) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return b.do(req, out)
}

func (b *BridgeBroker) do(req *http.Request, out any) error {
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
