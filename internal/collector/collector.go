package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"BreadthTrader/internal/model"
)

// Collector fetches the price history of the whole market, merging with a
// previously cached series.
type Collector struct {
	Fetcher Fetcher
	Limit   int
	Logger  zerolog.Logger
	// Notify reports per-identifier fetch failures as they happen. May be nil.
	Notify func(msg string)
}

// NewCollector creates a new Collector. limit bounds the history fetched per
// identifier.
func NewCollector(fetcher Fetcher, limit int, logger zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Limit: limit, Logger: logger}
}

// ListStockIDs returns the tradable 4-digit identifiers.
func (c *Collector) ListStockIDs(ctx context.Context) ([]string, error) {
	return c.Fetcher.ListStockIDs(ctx)
}

// CollectHistories fetches closing prices for every identifier not already in
// existing and returns the freshly fetched series. A failed fetch is
// reported and skipped, so that identifier stays uncached and is retried on
// the next run. Returns the number of failed identifiers.
func (c *Collector) CollectHistories(ctx context.Context, ids []string, existing model.PriceSeries) (model.PriceSeries, int) {
	fresh := model.PriceSeries{}
	failed := 0
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		prices, err := c.Fetcher.FetchHistory(ctx, id, c.Limit)
		if err != nil {
			failed++
			c.Logger.Warn().Err(err).Str("stock_id", id).Msg("fetch history failed")
			c.notify(fmt.Sprintf("取得 %s 的收盤價失敗: %v", id, err))
			continue
		}
		fresh[id] = prices
	}
	return fresh, failed
}

func (c *Collector) notify(msg string) {
	if c.Notify != nil {
		c.Notify(msg)
	}
}
