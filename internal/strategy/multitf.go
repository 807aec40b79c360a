package strategy

import (
	"context"
	"fmt"
)

// MultiTimeframe requires a crossover transition on a fast interval and an
// agreeing SMA trend direction on a slow interval before emitting a signal.
// Disagreement between the two timeframes always resolves to hold.
type MultiTimeframe struct {
	symbol        string
	short         int
	long          int
	fastInterval  string
	slowInterval  string
	points        int
	gateWindow    int
	gateThreshold float64
}

// NewMultiTimeframe builds the two-timeframe crossover strategy.
func NewMultiTimeframe(symbol string, p Params) *MultiTimeframe {
	return &MultiTimeframe{
		symbol:        symbol,
		short:         p.Short,
		long:          p.Long,
		fastInterval:  p.FastInterval,
		slowInterval:  p.SlowInterval,
		points:        p.Points,
		gateWindow:    p.GateWindow,
		gateThreshold: p.GateThreshold,
	}
}

// Name returns the configured identifier for logging.
func (s *MultiTimeframe) Name() string { return "multi_sma" }

// Evaluate checks the fast-interval transition and the slow-interval trend and
// only fires when both point the same way.
func (s *MultiTimeframe) Evaluate(ctx context.Context, src HistorySource) (Verdict, error) {
	fast, err := src.PriceHistory(ctx, s.symbol, s.fastInterval, s.points)
	if err != nil {
		return hold("fast history unavailable"), err
	}
	slow, err := src.PriceHistory(ctx, s.symbol, s.slowInterval, s.points)
	if err != nil {
		return hold("slow history unavailable"), err
	}

	fastPrices := fast.Clean().Prices()
	slowPrices := slow.Clean().Prices()
	if len(fastPrices) < s.long || len(slowPrices) < s.long {
		return hold("insufficient history"), nil
	}
	if vol := recentVolatility(fastPrices, s.gateWindow); vol < s.gateThreshold {
		return hold(fmt.Sprintf("flat market (vol=%.4f)", vol)), nil
	}

	transition := crossoverTransition(fastPrices, s.short, s.long)
	trend := trendDirection(slowPrices, s.short, s.long)
	switch {
	case transition == 1 && trend == 1:
		return Verdict{Signal: Buy, Reason: "fast crossover up, slow trend up"}, nil
	case transition == -1 && trend == -1:
		return Verdict{Signal: Sell, Reason: "fast crossover down, slow trend down"}, nil
	case transition != 0:
		return hold("timeframes disagree"), nil
	default:
		return hold("no crossover"), nil
	}
}
