package indicator

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"BreadthTrader/internal/model"
)

// dateSeq returns n consecutive ISO dates starting 2024-01-01.
func dateSeq(n int) []string {
	dates := make([]string, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}

func seriesFromCloses(closes map[string][]float64, dates []string) model.PriceSeries {
	series := model.PriceSeries{}
	for id, xs := range closes {
		prices := map[string]float64{}
		for i, x := range xs {
			prices[dates[i]] = x
		}
		series[id] = prices
	}
	return series
}

func TestBuildMatrix_SortedAndMissing(t *testing.T) {
	series := model.PriceSeries{
		"2330": {"2024-01-02": 600, "2024-01-01": 590},
		"2317": {"2024-01-01": 100},
	}
	m := BuildMatrix(series)

	if got := m.Dates; len(got) != 2 || got[0] != "2024-01-01" || got[1] != "2024-01-02" {
		t.Fatalf("dates not sorted ascending: %v", got)
	}
	// 2317 has no close on the second date
	j := -1
	for i, id := range m.Stocks {
		if id == "2317" {
			j = i
		}
	}
	if j < 0 {
		t.Fatal("2317 column missing")
	}
	if !math.IsNaN(m.Cells[1][j]) {
		t.Errorf("expected NaN for missing cell, got %v", m.Cells[1][j])
	}
}

func TestBreadthRatios_ConstantPricesAreZero(t *testing.T) {
	dates := dateSeq(10)
	series := seriesFromCloses(map[string][]float64{
		"1101": {5, 5, 5, 5, 5, 5, 5, 5, 5, 5},
		"1102": {7, 7, 7, 7, 7, 7, 7, 7, 7, 7},
	}, dates)

	ratios := BreadthRatios(BuildMatrix(series))
	if len(ratios) != 9 {
		t.Fatalf("expected 9 ratios, got %d", len(ratios))
	}
	for i, r := range ratios {
		if r != 0 {
			t.Errorf("ratio[%d] = %v, want exactly 0", i, r)
		}
	}
}

func TestBreadthRatios_CountsRisesAndFalls(t *testing.T) {
	dates := dateSeq(2)
	// 3 rise, 1 fall, 1 flat: ratio = 3/4 - 0.5 = 0.25
	series := seriesFromCloses(map[string][]float64{
		"1101": {10, 11},
		"1102": {10, 12},
		"1103": {10, 13},
		"1104": {10, 9},
		"1105": {10, 10},
	}, dates)

	ratios := BreadthRatios(BuildMatrix(series))
	if len(ratios) != 1 {
		t.Fatalf("expected 1 ratio, got %d", len(ratios))
	}
	if math.Abs(ratios[0]-0.25) > 1e-12 {
		t.Errorf("ratio = %v, want 0.25", ratios[0])
	}
}

func TestBreadthRatios_MissingCellsExcluded(t *testing.T) {
	dates := dateSeq(3)
	series := model.PriceSeries{
		// present on all three days, rising
		"1101": {dates[0]: 10, dates[1]: 11, dates[2]: 12},
		// missing the middle day: must not count on either adjacent row
		"1102": {dates[0]: 20, dates[2]: 18},
	}

	ratios := BreadthRatios(BuildMatrix(series))
	if len(ratios) != 2 {
		t.Fatalf("expected 2 ratios, got %d", len(ratios))
	}
	// Only 1101 is comparable on both rows: ratio = 1/1 - 0.5 = 0.5
	for i, r := range ratios {
		if math.Abs(r-0.5) > 1e-12 {
			t.Errorf("ratio[%d] = %v, want 0.5", i, r)
		}
	}
}

func TestBreadthRatios_ColumnPermutationInvariant(t *testing.T) {
	dates := dateSeq(6)
	a := []float64{10, 11, 10, 12, 11, 13}
	b := []float64{50, 49, 48, 50, 52, 51}
	c := []float64{7, 7, 8, 8, 7, 9}

	first := seriesFromCloses(map[string][]float64{"1101": a, "2202": b, "3303": c}, dates)
	// Same column data under identifiers that sort in a different order.
	second := seriesFromCloses(map[string][]float64{"9901": a, "5502": b, "1103": c}, dates)

	r1 := BreadthRatios(BuildMatrix(first))
	r2 := BreadthRatios(BuildMatrix(second))
	if len(r1) != len(r2) {
		t.Fatalf("ratio lengths differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("ratio[%d] differs under column permutation: %v vs %v", i, r1[i], r2[i])
		}
	}
}

func TestSMA_InsufficientData(t *testing.T) {
	if _, err := SMA([]float64{1, 2, 3}, 5); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSMA_TrailingWindow(t *testing.T) {
	got, err := SMA([]float64{100, 1, 2, 3}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("SMA = %v, want 2 (only the trailing window counts)", got)
	}
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	dates := dateSeq(50)
	closes := map[string][]float64{}
	xs := make([]float64, 50)
	for i := range xs {
		xs[i] = float64(100 + i)
	}
	closes["1101"] = xs

	_, err := Evaluate(seriesFromCloses(closes, dates), 20, 120)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData with 50 rows, got %v", err)
	}
}

func TestEvaluate_RecentStrengthIsHoldable(t *testing.T) {
	// 122 days: the market falls for 101 transitions, then rises for the
	// last 20. Short mean is +0.5, long mean is well below it.
	const days = 122
	dates := dateSeq(days)
	closes := map[string][]float64{}
	for s := 0; s < 3; s++ {
		xs := make([]float64, days)
		price := 500.0
		for i := 0; i < days; i++ {
			xs[i] = price
			if i < days-21 {
				price -= 1
			} else {
				price += 1
			}
		}
		closes[fmt.Sprintf("110%d", s)] = xs
	}

	sig, err := Evaluate(seriesFromCloses(closes, dates), 20, 120)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Short != 0.5 {
		t.Errorf("short mean = %v, want 0.5", sig.Short)
	}
	if !sig.Holdable {
		t.Errorf("expected holdable, short %v long %v", sig.Short, sig.Long)
	}
}

func TestEvaluate_ConstantMarketNotHoldable(t *testing.T) {
	const days = 130
	dates := dateSeq(days)
	xs := make([]float64, days)
	for i := range xs {
		xs[i] = 42
	}
	series := seriesFromCloses(map[string][]float64{"1101": xs, "1102": xs}, dates)

	sig, err := Evaluate(series, 20, 120)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Short != 0 || sig.Long != 0 {
		t.Errorf("expected both means 0, got short %v long %v", sig.Short, sig.Long)
	}
	if sig.Holdable {
		t.Error("constant market must not be holdable (0 > 0 is false)")
	}
}
