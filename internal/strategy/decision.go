// Package strategy maps the holdability signal and the live position state to
// a trade intent.
package strategy

import "BreadthTrader/internal/model"

// Decide returns the trade intent and a human-readable reason for the
// (holdable, onHand) combination:
//
//	holdable && onHand   → hold, already in position
//	holdable && !onHand  → buy
//	!holdable && onHand  → sell
//	!holdable && !onHand → hold, nothing to sell
func Decide(holdable, onHand bool) (model.Intent, string) {
	switch {
	case holdable && onHand:
		return model.IntentHold, "庫存有, 不買"
	case holdable && !onHand:
		return model.IntentBuy, "庫存沒有, 買進"
	case !holdable && onHand:
		return model.IntentSell, "庫存有, 賣出"
	default:
		return model.IntentHold, "庫存沒有, 沒得賣"
	}
}
