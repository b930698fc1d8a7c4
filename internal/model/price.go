package model

// PriceSeries maps a stock identifier to its daily closing prices keyed by
// ISO date string ("2024-01-31"). This is the shape of the cache file and of
// everything the collector produces.
type PriceSeries map[string]map[string]float64

// PriceMatrix is a date × stock table of closing prices. Rows are sorted
// chronologically ascending; missing cells are NaN. Column order carries no
// meaning, only per-row aggregate counts do.
type PriceMatrix struct {
	Dates  []string
	Stocks []string
	// Cells[i][j] is the close of Stocks[j] on Dates[i], or NaN.
	Cells [][]float64
}

// Rows returns the number of dates in the matrix.
func (m *PriceMatrix) Rows() int { return len(m.Dates) }
