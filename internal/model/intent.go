package model

// Intent is the trade decision for a single run.
type Intent int

const (
	// IntentHold means do nothing this run.
	IntentHold Intent = iota
	IntentBuy
	IntentSell
)

func (i Intent) String() string {
	switch i {
	case IntentBuy:
		return "BUY"
	case IntentSell:
		return "SELL"
	default:
		return "HOLD"
	}
}
