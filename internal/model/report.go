package model

import "time"

// RunReport aggregates the outcome of one pipeline run. The runner always
// returns one, even on early abort; the process relies on notifications, not
// exit codes, to surface failures.
type RunReport struct {
	Skipped       bool // weekend or market-not-closed skip
	StockCount    int
	FetchFailures int
	IndShort      float64
	IndLong       float64
	Holdable      bool
	OnHand        bool
	Intent        Intent
	OrderPrice    float64
	OrderQty      int
	OrderPlaced   bool
	Err           error // first fatal phase error, nil on clean runs
	Elapsed       time.Duration
}
