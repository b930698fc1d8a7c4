package collector

import "context"

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	IDs       []string
	Histories map[string]map[string]float64
	ListErr   error
	// FetchErrs maps identifiers to a forced per-identifier failure.
	FetchErrs map[string]error
	// Calls records every identifier FetchHistory was asked for.
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) ListStockIDs(_ context.Context) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.IDs, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, stockID string, _ int) (map[string]float64, error) {
	m.Calls = append(m.Calls, stockID)
	if err, ok := m.FetchErrs[stockID]; ok {
		return nil, err
	}
	if h, ok := m.Histories[stockID]; ok {
		return h, nil
	}
	return map[string]float64{}, nil
}
