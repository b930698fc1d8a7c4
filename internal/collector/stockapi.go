package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// StockAPIFetcher implements Fetcher against the stock-api REST service.
type StockAPIFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewStockAPIFetcher creates a fetcher with optional proxy support.
func NewStockAPIFetcher(baseURL, proxyURL string) *StockAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &StockAPIFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *StockAPIFetcher) Name() string { return "stock-api" }

// stockEntry is the expected JSON shape of one catalog entry.
type stockEntry struct {
	ID string `json:"id"`
}

// historyTrade is the expected JSON shape of one daily record.
type historyTrade struct {
	Date       string  `json:"date"`
	ClosePrice float64 `json:"close_price"`
}

// ListStockIDs fetches the full instrument catalog and keeps identifiers of
// exactly 4 characters, excluding ETFs, bonds and other instrument classes.
func (f *StockAPIFetcher) ListStockIDs(ctx context.Context) ([]string, error) {
	endpoint := f.BaseURL + "/stocks"
	var entries []stockEntry
	if err := f.getJSON(ctx, endpoint, &entries); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if len(e.ID) == 4 {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// FetchHistory fetches the most recent daily closes for one identifier.
func (f *StockAPIFetcher) FetchHistory(ctx context.Context, stockID string, limit int) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/history_trades/%s?limit=%d", f.BaseURL, stockID, limit)
	var trades []historyTrade
	if err := f.getJSON(ctx, endpoint, &trades); err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(trades))
	for _, t := range trades {
		prices[t.Date] = t.ClosePrice
	}
	return prices, nil
}

func (f *StockAPIFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{URL: endpoint, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: endpoint, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{URL: endpoint, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
