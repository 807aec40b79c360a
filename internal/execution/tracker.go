package execution

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/metrics"
)

// Venue is the slice of the brokerage contract the tracker needs to resolve a
// stale order.
type Venue interface {
	SubmitOrder(ctx context.Context, order Order) (*Ack, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// ErrAlreadyPending rejects a second registration while an order is resting.
var ErrAlreadyPending = errors.New("a pending limit order is already outstanding")

// Tracker owns the lifecycle of the strategy's single outstanding limit order:
// Idle → Pending on registration, back to Idle on fill, cancellation, or stale
// resolution. At most one order is ever Pending.
type Tracker struct {
	log               zerolog.Logger
	staleAfter        time.Duration
	replaceWithMarket bool
	pending           *PendingOrder
}

// NewTracker builds a tracker with the configured stale lifetime. When
// replaceWithMarket is set, a cancelled stale order is immediately re-sent as
// a market order for the same side and quantity.
func NewTracker(log zerolog.Logger, staleAfter time.Duration, replaceWithMarket bool) *Tracker {
	return &Tracker{log: log, staleAfter: staleAfter, replaceWithMarket: replaceWithMarket}
}

// Pending returns a copy of the outstanding order, if any.
func (t *Tracker) Pending() (PendingOrder, bool) {
	if t.pending == nil {
		return PendingOrder{}, false
	}
	return *t.pending, true
}

// Register records a freshly placed limit order. Registering while another
// order is still outstanding violates the single-pending invariant.
func (t *Tracker) Register(order PendingOrder) error {
	if t.pending != nil {
		return ErrAlreadyPending
	}
	registered := order
	t.pending = &registered
	return nil
}

// Clear returns the tracker to Idle, e.g. after an observed fill.
func (t *Tracker) Clear() {
	t.pending = nil
}

// ResolveStale cancels the outstanding order once its age exceeds the stale
// lifetime, optionally escalating to a market replacement. It reports whether
// a resolution happened; callers must then reset their last-acted signal so
// the next matching signal can re-trigger evaluation. Cancel failure is
// logged, not fatal: capital must never stay locked behind a dead order.
func (t *Tracker) ResolveStale(ctx context.Context, now time.Time, venue Venue) bool {
	if t.pending == nil || t.pending.Age(now) <= t.staleAfter {
		return false
	}

	stale := *t.pending
	t.pending = nil
	metrics.StaleCancellationsTotal.Inc()
	t.log.Warn().
		Str("order_id", stale.ID).
		Dur("age", stale.Age(now)).
		Msg("cancelling stale limit order")

	if err := venue.CancelOrder(ctx, stale.ID); err != nil {
		t.log.Error().Err(err).Str("order_id", stale.ID).Msg("cancel failed")
	}

	if t.replaceWithMarket {
		replacement := Order{
			Symbol: stale.Symbol,
			Side:   stale.Side,
			Qty:    stale.Qty,
			Type:   Market,
		}
		if _, err := venue.SubmitOrder(ctx, replacement); err != nil {
			t.log.Error().Err(err).Str("symbol", stale.Symbol).Msg("market replacement failed")
		} else {
			t.log.Info().Str("symbol", stale.Symbol).Int("qty", stale.Qty).Msg("stale limit replaced with market order")
		}
	}
	return true
}
