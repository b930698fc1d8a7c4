package strategy

import (
	"testing"

	"BreadthTrader/internal/model"
)

func TestDecide_AllCombinations(t *testing.T) {
	tests := []struct {
		holdable bool
		onHand   bool
		intent   model.Intent
	}{
		{true, true, model.IntentHold},
		{true, false, model.IntentBuy},
		{false, true, model.IntentSell},
		{false, false, model.IntentHold},
	}
	for _, tt := range tests {
		intent, reason := Decide(tt.holdable, tt.onHand)
		if intent != tt.intent {
			t.Errorf("Decide(%v, %v) = %v, want %v", tt.holdable, tt.onHand, intent, tt.intent)
		}
		if reason == "" {
			t.Errorf("Decide(%v, %v) returned empty reason", tt.holdable, tt.onHand)
		}
	}
}
