package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeVenue struct {
	cancelled []string
	submitted []Order
	cancelErr error
}

func (v *fakeVenue) SubmitOrder(_ context.Context, order Order) (*Ack, error) {
	v.submitted = append(v.submitted, order)
	return &Ack{OrderID: "replacement-1"}, nil
}

func (v *fakeVenue) CancelOrder(_ context.Context, orderID string) error {
	v.cancelled = append(v.cancelled, orderID)
	return v.cancelErr
}

func pendingAt(placed time.Time) PendingOrder {
	return PendingOrder{ID: "ord-1", Symbol: "ACME", Side: Buy, Qty: 12, PlacedAt: placed}
}

func TestRegisterEnforcesSinglePending(t *testing.T) {
	tracker := NewTracker(zerolog.Nop(), 180*time.Second, false)
	if err := tracker.Register(pendingAt(time.Now())); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if err := tracker.Register(pendingAt(time.Now())); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("expected ErrAlreadyPending, got %v", err)
	}
	if _, ok := tracker.Pending(); !ok {
		t.Fatalf("expected order still pending")
	}
}

func TestResolveStaleCancelsAndClears(t *testing.T) {
	tracker := NewTracker(zerolog.Nop(), 180*time.Second, false)
	placed := time.Now()
	if err := tracker.Register(pendingAt(placed)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	venue := &fakeVenue{}
	// 200s later the 180s lifetime is exceeded
	if !tracker.ResolveStale(context.Background(), placed.Add(200*time.Second), venue) {
		t.Fatalf("expected stale resolution")
	}
	if len(venue.cancelled) != 1 || venue.cancelled[0] != "ord-1" {
		t.Fatalf("expected cancel of ord-1, got %+v", venue.cancelled)
	}
	if _, ok := tracker.Pending(); ok {
		t.Fatalf("tracker must return to idle after resolution")
	}
	if len(venue.submitted) != 0 {
		t.Fatalf("no replacement expected, got %+v", venue.submitted)
	}
}

func TestResolveStaleLeavesFreshOrders(t *testing.T) {
	tracker := NewTracker(zerolog.Nop(), 180*time.Second, false)
	placed := time.Now()
	if err := tracker.Register(pendingAt(placed)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	venue := &fakeVenue{}
	if tracker.ResolveStale(context.Background(), placed.Add(60*time.Second), venue) {
		t.Fatalf("fresh order must not be resolved")
	}
	if _, ok := tracker.Pending(); !ok {
		t.Fatalf("fresh order must stay pending")
	}
}

func TestResolveStaleEscalatesToMarket(t *testing.T) {
	tracker := NewTracker(zerolog.Nop(), 180*time.Second, true)
	placed := time.Now()
	if err := tracker.Register(pendingAt(placed)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	venue := &fakeVenue{}
	if !tracker.ResolveStale(context.Background(), placed.Add(181*time.Second), venue) {
		t.Fatalf("expected stale resolution")
	}
	if len(venue.submitted) != 1 {
		t.Fatalf("expected one market replacement, got %d", len(venue.submitted))
	}
	replacement := venue.submitted[0]
	if replacement.Type != Market || replacement.Side != Buy || replacement.Qty != 12 {
		t.Fatalf("unexpected replacement order: %+v", replacement)
	}
}

func TestResolveStaleSurvivesCancelFailure(t *testing.T) {
	tracker := NewTracker(zerolog.Nop(), 180*time.Second, false)
	placed := time.Now()
	if err := tracker.Register(pendingAt(placed)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	venue := &fakeVenue{cancelErr: errors.New("venue down")}
	if !tracker.ResolveStale(context.Background(), placed.Add(400*time.Second), venue) {
		t.Fatalf("expected resolution despite cancel failure")
	}
	if _, ok := tracker.Pending(); ok {
		t.Fatalf("tracker must not stay pending behind a dead order")
	}
}
