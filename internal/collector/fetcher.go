package collector

import (
	"context"
	"fmt"
)

// Fetcher defines the interface for the market-data service.
type Fetcher interface {
	// ListStockIDs returns every listed 4-digit stock identifier.
	ListStockIDs(ctx context.Context) ([]string, error)
	// FetchHistory returns up to limit most recent daily closes for one
	// identifier, keyed by date. An identifier unknown to the service yields
	// an empty map.
	FetchHistory(ctx context.Context, stockID string, limit int) (map[string]float64, error)
	Name() string
}

// FetchError wraps a failed market-data call with the URL that failed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
