package recorder

import "BreadthTrader/internal/model"

// RunRecord holds everything persisted about one pipeline run.
type RunRecord struct {
	StockCount    int
	FetchFailures int
	IndShort      float64
	IndLong       float64
	Holdable      bool
	OnHand        bool
	Intent        model.Intent
	OrderPrice    float64
	OrderQty      int
	OrderPlaced   bool
	Note          string
	ElapsedMs     int64
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
