package broker

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlacedOrder records one PlaceOrder call on the mock.
type PlacedOrder struct {
	Code     string
	Action   Action
	Quantity int
	Price    decimal.Decimal
}

// MockBroker is a controllable Broker for tests.
type MockBroker struct {
	LoginErr    error
	Quote       Quote
	SnapshotErr error
	OnHand      bool
	PositionErr error
	OrderErr    error

	LoggedIn bool
	Orders   []PlacedOrder
}

func (m *MockBroker) Login(_ context.Context) error {
	if m.LoginErr != nil {
		return m.LoginErr
	}
	m.LoggedIn = true
	return nil
}

func (m *MockBroker) Snapshot(_ context.Context, _ string) (Quote, error) {
	if m.SnapshotErr != nil {
		return Quote{}, m.SnapshotErr
	}
	return m.Quote, nil
}

func (m *MockBroker) HasPosition(_ context.Context, _ string) (bool, error) {
	if m.PositionErr != nil {
		return false, m.PositionErr
	}
	return m.OnHand, nil
}

func (m *MockBroker) PlaceOrder(_ context.Context, code string, action Action, quantity int, price decimal.Decimal) (OrderRef, error) {
	if m.OrderErr != nil {
		return OrderRef{}, m.OrderErr
	}
	m.Orders = append(m.Orders, PlacedOrder{Code: code, Action: action, Quantity: quantity, Price: price})
	return OrderRef{ID: "mock-1", Status: "Submitted"}, nil
}
