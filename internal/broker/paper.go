package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
)

const epsilon = 1e-9

// Paper is an in-memory brokerage used by dry runs and tests. Histories and
// snapshots are scripted; market orders fill immediately against the virtual
// account, limit orders rest until cancelled.
type Paper struct {
	mu        sync.Mutex
	log       zerolog.Logger
	cash      float64
	positions map[string]float64
	histories map[string]market.PriceSeries
	snapshot  market.Snapshot
	open      map[string]execution.Order
	nextID    int
}

// NewPaper creates a paper brokerage seeded with starting cash.
func NewPaper(startingCash float64, log zerolog.Logger) *Paper {
	return &Paper{
		log:       log,
		cash:      startingCash,
		positions: make(map[string]float64),
		histories: make(map[string]market.PriceSeries),
		open:      make(map[string]execution.Order),
	}
}

// SetHistory scripts the series returned for an interval.
func (p *Paper) SetHistory(interval string, prices ...float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	series := make(market.PriceSeries, 0, len(prices))
	for _, price := range prices {
		series = append(series, market.PricePoint{Price: price})
	}
	p.histories[interval] = series
}

// SetSnapshot scripts the instantaneous market state.
func (p *Paper) SetSnapshot(snap market.Snapshot) {
	p.mu.Lock()
	p.snapshot = snap
	p.mu.Unlock()
}

// SetPosition seeds a held quantity, for scenarios that start in a position.
func (p *Paper) SetPosition(symbol string, qty float64) {
	p.mu.Lock()
	p.positions[symbol] = qty
	p.mu.Unlock()
}

// PriceHistory returns the scripted series for the interval.
func (p *Paper) PriceHistory(_ context.Context, _ string, interval string, _ int) (market.PriceSeries, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.histories[interval], nil
}

// Account reports the virtual balances marked at the scripted price.
func (p *Paper) Account(_ context.Context) (*market.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	positions := make(map[string]float64, len(p.positions))
	netWorth := p.cash
	for sym, qty := range p.positions {
		positions[sym] = qty
		netWorth += qty * p.snapshot.Price
	}
	return &market.Account{Cash: p.cash, Positions: positions, NetWorth: netWorth}, nil
}

// Snapshot returns the scripted market state.
func (p *Paper) Snapshot(_ context.Context, symbol string) (*market.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snapshot
	snap.Symbol = symbol
	return &snap, nil
}

// SubmitOrder fills market orders against the virtual account immediately and
// rests limit orders until cancellation.
func (p *Paper) SubmitOrder(_ context.Context, order execution.Order) (*execution.Ack, error) {
	if order.Qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := fmt.Sprintf("paper-%d", p.nextID)

	if order.Type == execution.Limit {
		p.open[id] = order
		p.log.Debug().Str("order_id", id).Float64("limit", order.LimitPrice).Msg("paper limit order resting")
		return &execution.Ack{OrderID: id}, nil
	}

	price := p.snapshot.Price
	if price <= 0 {
		return nil, fmt.Errorf("no market price available")
	}
	notional := float64(order.Qty) * price
	switch order.Side {
	case execution.Buy:
		if notional > p.cash+epsilon {
			return nil, fmt.Errorf("insufficient cash for buy")
		}
		p.cash -= notional
		p.positions[order.Symbol] += float64(order.Qty)
	case execution.Sell:
		held := p.positions[order.Symbol]
		if held+epsilon < float64(order.Qty) {
			return nil, fmt.Errorf("insufficient position to sell")
		}
		p.cash += notional
		remaining := held - float64(order.Qty)
		if remaining <= epsilon {
			delete(p.positions, order.Symbol)
		} else {
			p.positions[order.Symbol] = remaining
		}
	default:
		return nil, fmt.Errorf("unknown order side %q", order.Side)
	}

	p.log.Debug().Str("order_id", id).Str("side", string(order.Side)).Int("qty", order.Qty).Msg("paper market fill")
	return &execution.Ack{OrderID: id}, nil
}

// CancelOrder removes a resting limit order.
func (p *Paper) CancelOrder(_ context.Context, orderID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.open[orderID]; !ok {
		return fmt.Errorf("unknown order %s", orderID)
	}
	delete(p.open, orderID)
	return nil
}

// OpenOrders reports the resting limit orders, for assertions in tests.
func (p *Paper) OpenOrders() []execution.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]execution.Order, 0, len(p.open))
	for _, order := range p.open {
		out = append(out, order)
	}
	return out
}
