// Package execution handles the order model and the lifecycle of outstanding
// limit orders.
package execution

import "time"

// Side enumerates order directions sent to the brokerage.
type Side string

const (
	// Buy indicates a long order.
	Buy Side = "buy"
	// Sell indicates a closing order.
	Sell Side = "sell"
)

// OrderType selects immediate execution or a resting priced order.
type OrderType string

const (
	// Market executes at the prevailing price.
	Market OrderType = "market"
	// Limit rests at LimitPrice or better and may go unfilled.
	Limit OrderType = "limit"
)

// Order represents a placement request for the brokerage collaborator.
type Order struct {
	Symbol     string
	Side       Side
	Qty        int
	Type       OrderType
	LimitPrice float64 // meaningful only when Type is Limit
	ClientID   string
}

// Ack is the brokerage acknowledgement of an accepted order.
type Ack struct {
	OrderID string
}

// PendingOrder tracks one outstanding limit order awaiting a fill.
type PendingOrder struct {
	ID       string
	Symbol   string
	Side     Side
	Qty      int
	PlacedAt time.Time
}

// Age returns how long the order has been resting.
func (p PendingOrder) Age(now time.Time) time.Duration {
	return now.Sub(p.PlacedAt)
}
