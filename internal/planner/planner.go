// Package planner turns a confirmed strategy signal into a concrete,
// risk-bounded order action, or an explicit reason not to act.
package planner

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/filter"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/metrics"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/risk"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
)

// Kind classifies the planner's verdict for one cycle.
type Kind int

const (
	// Skipped means no action was warranted (hold, repeat signal, cooldown,
	// filter veto). Benign and expected.
	Skipped Kind = iota
	// Rejected means the candidate order was invalid and never left the
	// process (oversell, zero quantity, notional cap).
	Rejected
	// Submitted means an order went to the brokerage.
	Submitted
	// Failed means the brokerage refused or the transport broke.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Rejected:
		return "rejected"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome reports what the planner did and why.
type Outcome struct {
	Kind   Kind
	Reason string
	Order  *execution.Order
	Ack    *execution.Ack
	Err    error
}

// Inputs carries everything one planning pass needs. The controller assembles
// it fresh each cycle; the planner itself holds no cycle state.
type Inputs struct {
	Symbol     string
	Signal     strategy.Signal
	LastActed  strategy.Signal
	HasActed   bool
	Now        time.Time
	LastTrade  time.Time
	Price      float64
	PrevPrice  float64
	Volatility float64
	Reference  float64
	Book       market.OrderBook
	Cash       float64
	Position   float64
	EntryPrice float64
	HasPending bool
}

// Tunables are the planner thresholds. The loosen thresholds are deliberately
// configuration, not constants: they are strategy tuning, not behavior.
type Tunables struct {
	Cooldown           time.Duration
	LoosenVolThreshold float64
	PriceDeltaPct      float64
	HeldLossFactor     float64
	MarketVolThreshold float64
	LimitOffsetPct     float64
}

// Submitter is the slice of the brokerage contract the planner needs.
type Submitter interface {
	SubmitOrder(ctx context.Context, order execution.Order) (*execution.Ack, error)
}

// Planner runs the per-cycle order decision sequence.
type Planner struct {
	log      zerolog.Logger
	band     filter.VolatilityBand
	pressure filter.BookPressure
	sizer    risk.Sizer
	limits   risk.Limits
	tunables Tunables
}

// New assembles a planner from its collaborating checks.
func New(log zerolog.Logger, band filter.VolatilityBand, pressure filter.BookPressure, sizer risk.Sizer, limits risk.Limits, tunables Tunables) *Planner {
	return &Planner{log: log, band: band, pressure: pressure, sizer: sizer, limits: limits, tunables: tunables}
}

func skip(reason string) Outcome { return Outcome{Kind: Skipped, Reason: reason} }

func (p *Planner) reject(reason string) Outcome {
	metrics.RejectionsTotal.WithLabelValues(reason).Inc()
	return Outcome{Kind: Rejected, Reason: reason}
}

// Decide walks the decision sequence for one cycle and, when everything
// clears, submits the order. It never mutates session state; the caller
// records last-acted signal and trade time from a Submitted outcome.
func (p *Planner) Decide(ctx context.Context, venue Submitter, in Inputs) Outcome {
	if in.Signal == strategy.Hold {
		return skip("hold signal")
	}
	if in.HasActed && in.Signal == in.LastActed {
		return skip("signal unchanged since last trade")
	}
	if in.HasPending {
		return skip("pending limit order outstanding")
	}
	if !in.LastTrade.IsZero() && in.Now.Sub(in.LastTrade) < p.tunables.Cooldown {
		return skip("cooldown in effect")
	}

	if !p.overrideActive(in) {
		if !p.band.Confirm(in.Signal, in.Price, in.Reference, in.Volatility) {
			return skip("vetoed by volatility band")
		}
		if !p.pressure.Confirm(in.Signal, in.Book) {
			return skip("vetoed by order book pressure")
		}
	} else {
		p.log.Debug().Msg("confirmation filters loosened")
	}

	if in.Signal == strategy.Sell && in.Position <= 0 {
		return p.reject("insufficient holdings")
	}

	qty := p.sizer.Quantity(in.Cash, in.Price, in.Volatility)
	if qty <= 0 {
		return p.reject("zero quantity")
	}
	if in.Signal == strategy.Sell && in.Position < float64(qty) {
		qty = int(math.Floor(in.Position))
		if qty <= 0 {
			return p.reject("insufficient holdings")
		}
	}
	if !p.limits.Allow(float64(qty) * in.Price) {
		return p.reject("notional cap exceeded")
	}

	order := p.buildOrder(in, qty)
	ack, err := venue.SubmitOrder(ctx, order)
	if err != nil {
		p.log.Error().Err(err).Str("side", string(order.Side)).Msg("order submission failed")
		return Outcome{Kind: Failed, Reason: "submission failed", Order: &order, Err: err}
	}

	metrics.OrdersTotal.WithLabelValues(order.Symbol, string(order.Side), string(order.Type)).Inc()
	p.log.Info().
		Str("side", string(order.Side)).
		Str("type", string(order.Type)).
		Int("qty", order.Qty).
		Float64("price", in.Price).
		Float64("limit", order.LimitPrice).
		Msg("order submitted")
	return Outcome{Kind: Submitted, Order: &order, Ack: ack}
}

// overrideActive is the escape valve: strong volatility, a losing hold, or a
// sharp one-cycle price move lets a trend signal through without secondary
// confirmation, so the strategy cannot stall indefinitely.
func (p *Planner) overrideActive(in Inputs) bool {
	if in.Volatility > p.tunables.LoosenVolThreshold {
		return true
	}
	if in.Position > 0 && in.EntryPrice > 0 && in.Price < in.EntryPrice*p.tunables.HeldLossFactor {
		return true
	}
	if in.PrevPrice > 0 {
		delta := math.Abs(in.Price-in.PrevPrice) / in.PrevPrice
		if delta > p.tunables.PriceDeltaPct {
			return true
		}
	}
	return false
}

// buildOrder chooses market execution in fast tapes and a resting limit order
// otherwise, offset to front-run small ticks while bounding slippage.
func (p *Planner) buildOrder(in Inputs, qty int) execution.Order {
	order := execution.Order{
		Symbol:   in.Symbol,
		Side:     sideFor(in.Signal),
		Qty:      qty,
		Type:     execution.Market,
		ClientID: uuid.NewString(),
	}
	if in.Volatility <= p.tunables.MarketVolThreshold {
		order.Type = execution.Limit
		if in.Signal == strategy.Buy {
			order.LimitPrice = in.Price * (1 - p.tunables.LimitOffsetPct)
		} else {
			order.LimitPrice = in.Price * (1 + p.tunables.LimitOffsetPct)
		}
	}
	return order
}

func sideFor(sig strategy.Signal) execution.Side {
	if sig == strategy.Sell {
		return execution.Sell
	}
	return execution.Buy
}
