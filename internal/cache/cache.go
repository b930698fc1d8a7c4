// Package cache persists closing prices between runs as a single JSON file,
// an object of objects: { stockID: { date: closePrice } }.
package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"BreadthTrader/internal/model"
)

// Store reads and writes the price-cache file.
type Store struct {
	Path string
}

// NewStore creates a Store for the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the cached price series. A missing file yields an empty series,
// not an error.
func (s *Store) Load() (model.PriceSeries, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.PriceSeries{}, nil
		}
		return nil, fmt.Errorf("read price cache: %w", err)
	}
	var series model.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("parse price cache: %w", err)
	}
	if series == nil {
		series = model.PriceSeries{}
	}
	return series, nil
}

// Save writes the full price series back to the cache file.
func (s *Store) Save(series model.PriceSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encode price cache: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write price cache: %w", err)
	}
	return nil
}

// Merge copies entries of src into dst for identifiers dst does not already
// hold. Existing entries always win; the cache is fill-if-missing, never
// refreshed.
func Merge(dst, src model.PriceSeries) model.PriceSeries {
	if dst == nil {
		dst = model.PriceSeries{}
	}
	for id, prices := range src {
		if _, ok := dst[id]; ok {
			continue
		}
		dst[id] = prices
	}
	return dst
}
