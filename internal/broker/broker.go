// Package broker wraps the brokerage bridge: session login with CA
// activation, quote snapshots, position listing and odd-lot limit orders for
// a single fixed instrument.
package broker

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Action is the order side.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
)

// Quote is a best bid/ask snapshot. BuyPrice is the best standing bid,
// SellPrice the best standing ask.
type Quote struct {
	Code      string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// OrderRef identifies a placed order.
type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
}

// Broker is the brokerage capability the pipeline consumes.
type Broker interface {
	// Login authenticates the session and activates the CA certificate.
	Login(ctx context.Context) error
	// Snapshot returns the current best bid/ask for one instrument.
	Snapshot(ctx context.Context, code string) (Quote, error)
	// HasPosition reports whether the instrument is currently held, in share
	// units.
	HasPosition(ctx context.Context, code string) (bool, error)
	// PlaceOrder places a day-only odd-lot limit order.
	PlaceOrder(ctx context.Context, code string, action Action, quantity int, price decimal.Decimal) (OrderRef, error)
}

// AuthError reports a failed login or CA activation.
type AuthError struct{ Err error }

func (e *AuthError) Error() string { return fmt.Sprintf("broker auth: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// QueryError reports a failed snapshot or position query.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("broker %s: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

// OrderError reports a failed order placement.
type OrderError struct {
	Action Action
	Err    error
}

func (e *OrderError) Error() string { return fmt.Sprintf("broker %s order: %v", e.Action, e.Err) }
func (e *OrderError) Unwrap() error { return e.Err }
