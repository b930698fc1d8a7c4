// Package indicator computes the market-breadth holdability signal: a
// crossover of two trailing moving averages over the daily advance/decline
// ratio of the whole market.
package indicator

import (
	"errors"
	"math"
	"sort"

	"BreadthTrader/internal/model"
)

// ErrInsufficientData is returned when there are not enough rows of breadth
// history to fill the long moving-average window.
var ErrInsufficientData = errors.New("not enough price history for indicator")

// BuildMatrix reshapes a per-stock price series into a date × stock matrix.
// Rows are the sorted union of all dates; a stock without data on a date gets
// NaN.
func BuildMatrix(series model.PriceSeries) *model.PriceMatrix {
	dateSet := map[string]struct{}{}
	stocks := make([]string, 0, len(series))
	for id, prices := range series {
		stocks = append(stocks, id)
		for date := range prices {
			dateSet[date] = struct{}{}
		}
	}
	sort.Strings(stocks)

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	cells := make([][]float64, len(dates))
	for i, date := range dates {
		row := make([]float64, len(stocks))
		for j, id := range stocks {
			if price, ok := series[id][date]; ok {
				row[j] = price
			} else {
				row[j] = math.NaN()
			}
		}
		cells[i] = row
	}
	return &model.PriceMatrix{Dates: dates, Stocks: stocks, Cells: cells}
}

// BreadthRatios computes, for each row after the first,
//
//	rise / (rise + fall) - 0.5
//
// where rise and fall count the columns whose price strictly increased or
// decreased versus the previous row. Columns with zero change, or missing a
// value on either row, count toward neither. A row where nothing rose or fell
// has ratio 0.
func BreadthRatios(m *model.PriceMatrix) []float64 {
	if m.Rows() < 2 {
		return nil
	}
	ratios := make([]float64, 0, m.Rows()-1)
	for i := 1; i < m.Rows(); i++ {
		prev, cur := m.Cells[i-1], m.Cells[i]
		rise, fall := 0, 0
		for j := range cur {
			if math.IsNaN(prev[j]) || math.IsNaN(cur[j]) {
				continue
			}
			switch {
			case cur[j] > prev[j]:
				rise++
			case cur[j] < prev[j]:
				fall++
			}
		}
		if rise+fall == 0 {
			ratios = append(ratios, 0)
			continue
		}
		ratios = append(ratios, float64(rise)/float64(rise+fall)-0.5)
	}
	return ratios
}

// SMA computes the trailing simple moving average over the last period values.
func SMA(xs []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(xs) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(xs) - period; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(period), nil
}

// Signal is the holdability evaluation at the most recent row.
type Signal struct {
	Short    float64 // trailing short-window mean of the breadth ratio
	Long     float64 // trailing long-window mean of the breadth ratio
	Holdable bool
}

// Evaluate computes the holdability signal from a price series. It fails with
// ErrInsufficientData when fewer than longWindow rows of breadth-ratio
// history exist; the comparison is undefined there and must not drive a
// trade.
func Evaluate(series model.PriceSeries, shortWindow, longWindow int) (*Signal, error) {
	ratios := BreadthRatios(BuildMatrix(series))
	long, err := SMA(ratios, longWindow)
	if err != nil {
		return nil, err
	}
	short, err := SMA(ratios, shortWindow)
	if err != nil {
		return nil, err
	}
	return &Signal{Short: short, Long: long, Holdable: short > long}, nil
}
