package cache

import (
	"path/filepath"
	"reflect"
	"testing"

	"BreadthTrader/internal/model"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))
	series, err := store.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d entries", len(series))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prices.json"))
	series := model.PriceSeries{
		"2330": {"2024-01-01": 590.5, "2024-01-02": 600},
		"2317": {"2024-01-01": 100},
	}
	if err := store.Save(series); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, series) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, series)
	}
}

func TestMerge_ExistingEntriesWin(t *testing.T) {
	dst := model.PriceSeries{
		"2330": {"2024-01-01": 590},
	}
	src := model.PriceSeries{
		"2330": {"2024-01-01": 999, "2024-01-02": 1000},
		"2317": {"2024-01-01": 100},
	}
	got := Merge(dst, src)

	if got["2330"]["2024-01-01"] != 590 {
		t.Errorf("cached entry overwritten: %v", got["2330"])
	}
	if _, ok := got["2330"]["2024-01-02"]; ok {
		t.Error("cached entry must not be extended by merge")
	}
	if got["2317"]["2024-01-01"] != 100 {
		t.Error("new entry not merged")
	}
}

func TestMerge_NilDestination(t *testing.T) {
	got := Merge(nil, model.PriceSeries{"2330": {"2024-01-01": 1}})
	if got["2330"]["2024-01-01"] != 1 {
		t.Error("merge into nil series failed")
	}
}
