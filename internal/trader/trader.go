// Package trader runs the polling loop that orchestrates one trading cycle:
// fetch state, generate a signal, resolve stale orders, plan, submit, record.
package trader

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/broker"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/metrics"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/planner"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/session"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
)

// Options wires a Controller together.
type Options struct {
	Log          zerolog.Logger
	Broker       broker.Broker
	Strategy     strategy.Strategy
	Planner      *planner.Planner
	Tracker      *execution.Tracker
	Stats        *session.Stats
	Recorder     session.TradeRecorder // optional
	Symbol       string
	RefInterval  string
	BandWindow   int
	PollInterval time.Duration
	DryRun       bool
}

// Controller owns all mutable session state and drives the cycle. It is
// single-threaded by design: one cycle runs to completion before the next.
type Controller struct {
	opts Options
	log  zerolog.Logger

	lastActed   strategy.Signal
	hasActed    bool
	lastTradeAt time.Time
	prevPrice   float64
	entryPrice  float64
}

// CycleReport summarizes what one cycle did, for logging and dry-run output.
type CycleReport struct {
	Skipped  string
	Verdict  strategy.Verdict
	Outcome  planner.Outcome
	Planned  bool
	NetWorth float64
	Price    float64
}

// New builds a Controller.
func New(opts Options) *Controller {
	return &Controller{opts: opts, log: opts.Log}
}

// cachedSource memoizes history fetches so the strategy and the band
// reference share one request per interval per cycle.
type cachedSource struct {
	broker broker.Broker
	series map[string]market.PriceSeries
}

func (c *cachedSource) PriceHistory(ctx context.Context, symbol, interval string, points int) (market.PriceSeries, error) {
	if cached, ok := c.series[interval]; ok {
		return cached, nil
	}
	series, err := c.broker.PriceHistory(ctx, symbol, interval, points)
	if err != nil {
		return nil, err
	}
	c.series[interval] = series
	return series, nil
}

// Step runs exactly one trading cycle. Collaborator failures degrade to a
// skipped cycle; nothing here is fatal.
func (c *Controller) Step(ctx context.Context, now time.Time) CycleReport {
	account, err := c.opts.Broker.Account(ctx)
	if err != nil || account == nil {
		metrics.CycleErrorsTotal.WithLabelValues("account").Inc()
		c.log.Warn().Err(err).Msg("account fetch failed, skipping cycle")
		return CycleReport{Skipped: "account unavailable"}
	}

	snap, err := c.opts.Broker.Snapshot(ctx, c.opts.Symbol)
	if err != nil || snap == nil {
		metrics.CycleErrorsTotal.WithLabelValues("snapshot").Inc()
		c.log.Warn().Err(err).Msg("snapshot fetch failed, skipping cycle")
		return CycleReport{Skipped: "snapshot unavailable"}
	}
	if !snap.Valid() {
		c.log.Warn().Str("symbol", c.opts.Symbol).Msg("snapshot has no usable price data, skipping cycle")
		return CycleReport{Skipped: "no price data"}
	}

	src := &cachedSource{broker: c.opts.Broker, series: make(map[string]market.PriceSeries)}
	verdict, err := c.opts.Strategy.Evaluate(ctx, src)
	if err != nil {
		// transport failure on history; the verdict already degraded to hold
		metrics.CycleErrorsTotal.WithLabelValues("history").Inc()
		c.log.Warn().Err(err).Msg("history fetch failed")
	}
	metrics.SignalsTotal.WithLabelValues(verdict.Signal.String()).Inc()
	c.opts.Stats.RecordSignal(verdict.Signal)
	c.log.Info().
		Str("signal", verdict.Signal.String()).
		Str("reason", verdict.Reason).
		Float64("price", snap.Price).
		Msg("cycle signal")

	// stale limit orders are resolved before any new order evaluation
	if c.opts.Tracker.ResolveStale(ctx, now, c.opts.Broker) {
		c.opts.Stats.RecordUnfilledLimit()
		c.lastActed = strategy.Hold
		c.hasActed = false
	}

	position := account.Position(c.opts.Symbol)
	_, hasPending := c.opts.Tracker.Pending()
	in := planner.Inputs{
		Symbol:     c.opts.Symbol,
		Signal:     verdict.Signal,
		LastActed:  c.lastActed,
		HasActed:   c.hasActed,
		Now:        now,
		LastTrade:  c.lastTradeAt,
		Price:      snap.Price,
		PrevPrice:  c.prevPrice,
		Volatility: snap.Volatility,
		Reference:  c.reference(src, snap.Price),
		Book:       snap.Book,
		Cash:       account.Cash,
		Position:   position,
		EntryPrice: c.entryPrice,
		HasPending: hasPending,
	}

	report := CycleReport{Verdict: verdict, Planned: true, Price: snap.Price}

	if c.opts.DryRun {
		preview := &previewSubmitter{}
		report.Outcome = c.opts.Planner.Decide(ctx, preview, in)
		report.NetWorth = c.finishCycle(account, snap, position, now)
		return report
	}

	outcome := c.opts.Planner.Decide(ctx, c.opts.Broker, in)
	report.Outcome = outcome
	if outcome.Kind == planner.Submitted {
		c.afterSubmit(outcome, snap, account, now)
	} else if outcome.Reason != "" {
		c.log.Info().Str("kind", outcome.Kind.String()).Str("reason", outcome.Reason).Msg("no trade this cycle")
	}

	report.NetWorth = c.finishCycle(account, snap, position, now)
	return report
}

func (c *Controller) afterSubmit(outcome planner.Outcome, snap *market.Snapshot, account *market.Account, now time.Time) {
	order := *outcome.Order
	if order.Type == execution.Limit {
		pending := execution.PendingOrder{
			ID:       outcome.Ack.OrderID,
			Symbol:   order.Symbol,
			Side:     order.Side,
			Qty:      order.Qty,
			PlacedAt: now,
		}
		if err := c.opts.Tracker.Register(pending); err != nil {
			c.log.Error().Err(err).Msg("pending registration failed")
		}
	}

	c.opts.Stats.RecordOrder(order.Type)
	if c.opts.Recorder != nil {
		c.opts.Recorder.Record(session.Trade{
			Ts:         now,
			Symbol:     order.Symbol,
			Side:       string(order.Side),
			Qty:        order.Qty,
			Price:      snap.Price,
			Volatility: snap.Volatility,
			OrderType:  string(order.Type),
			Cash:       account.Cash,
			NetWorth:   account.NetWorthOr(order.Symbol, snap.Price),
		})
	}

	sig := strategy.Buy
	if order.Side == execution.Sell {
		sig = strategy.Sell
	}
	c.lastActed = sig
	c.hasActed = true
	c.lastTradeAt = now
	if order.Side == execution.Buy {
		c.entryPrice = snap.Price
	}
}

func (c *Controller) finishCycle(account *market.Account, snap *market.Snapshot, position float64, now time.Time) float64 {
	c.opts.Stats.UpdatePosition(position > 0, now)
	netWorth := account.NetWorthOr(c.opts.Symbol, snap.Price)
	drawdown := c.opts.Stats.UpdateNetWorth(netWorth)
	metrics.NetWorth.Set(netWorth)
	metrics.MaxDrawdown.Set(drawdown)
	c.prevPrice = snap.Price
	return netWorth
}

// reference is the band filter's anchor: the mean of the most recent window
// of the primary-interval series, falling back to the spot price when no
// history was fetched this cycle.
func (c *Controller) reference(src *cachedSource, spot float64) float64 {
	series, ok := src.series[c.opts.RefInterval]
	if !ok {
		return spot
	}
	prices := series.Clean().Prices()
	window := c.opts.BandWindow
	if window <= 0 || window > len(prices) {
		window = len(prices)
	}
	if window == 0 {
		return spot
	}
	var sum float64
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window)
}

// previewSubmitter stands in for the brokerage during dry runs; the planned
// order is surfaced but never sent anywhere.
type previewSubmitter struct{}

func (previewSubmitter) SubmitOrder(_ context.Context, _ execution.Order) (*execution.Ack, error) {
	return &execution.Ack{OrderID: "dry-run"}, nil
}

// Run loops Step until the context is cancelled. The sleep between cycles is
// the only suspension point and exits promptly on shutdown.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	c.log.Info().
		Str("symbol", c.opts.Symbol).
		Dur("interval", c.opts.PollInterval).
		Msg("trading loop started")

	for {
		c.Step(ctx, time.Now())
		select {
		case <-ctx.Done():
			c.log.Info().Fields(c.opts.Stats.Summary(time.Now())).Msg("trading loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
