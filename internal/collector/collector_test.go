package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"BreadthTrader/internal/model"
)

func TestCollectHistories_SkipsCachedIDs(t *testing.T) {
	mock := &MockFetcher{
		IDs: []string{"1101", "2330"},
		Histories: map[string]map[string]float64{
			"1101": {"2024-01-01": 10},
			"2330": {"2024-01-01": 600},
		},
	}
	col := NewCollector(mock, 120, zerolog.Nop())

	cached := model.PriceSeries{"2330": {"2023-12-01": 580}}
	fresh, failed := col.CollectHistories(context.Background(), mock.IDs, cached)

	if failed != 0 {
		t.Fatalf("unexpected failures: %d", failed)
	}
	for _, id := range mock.Calls {
		if id == "2330" {
			t.Error("cached identifier was re-fetched")
		}
	}
	if _, ok := fresh["2330"]; ok {
		t.Error("cached identifier must not appear in the fresh series")
	}
	if fresh["1101"]["2024-01-01"] != 10 {
		t.Error("fresh entry missing")
	}
}

func TestCollectHistories_FailedIDIsSkippedAndReported(t *testing.T) {
	mock := &MockFetcher{
		IDs: []string{"1101", "1102", "1103"},
		Histories: map[string]map[string]float64{
			"1101": {"2024-01-01": 10},
			"1103": {"2024-01-01": 30},
		},
		FetchErrs: map[string]error{"1102": errors.New("boom")},
	}
	col := NewCollector(mock, 120, zerolog.Nop())

	var notified []string
	col.Notify = func(msg string) { notified = append(notified, msg) }

	fresh, failed := col.CollectHistories(context.Background(), mock.IDs, model.PriceSeries{})

	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	if _, ok := fresh["1102"]; ok {
		t.Error("failed identifier must stay out of the series so it is retried next run")
	}
	if len(fresh) != 2 {
		t.Errorf("expected the other 2 identifiers collected, got %d", len(fresh))
	}
	if len(notified) != 1 {
		t.Fatalf("expected 1 failure notification, got %d", len(notified))
	}
}

func TestCollectHistories_NilExistingSeries(t *testing.T) {
	mock := &MockFetcher{
		IDs:       []string{"1101"},
		Histories: map[string]map[string]float64{"1101": {"2024-01-01": 10}},
	}
	col := NewCollector(mock, 120, zerolog.Nop())
	fresh, _ := col.CollectHistories(context.Background(), mock.IDs, nil)
	if fresh["1101"]["2024-01-01"] != 10 {
		t.Error("collect with nil existing series failed")
	}
}
