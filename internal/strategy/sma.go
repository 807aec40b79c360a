package strategy

import (
	"context"
	"fmt"
)

// SMACrossover emits signals on transitions of the short-window vs long-window
// moving average indicator over a single timeframe, gated by a volatility
// sufficiency check that suppresses crossovers on flat tapes.
type SMACrossover struct {
	symbol        string
	short         int
	long          int
	interval      string
	points        int
	gateWindow    int
	gateThreshold float64
}

// NewSMACrossover builds a single-timeframe crossover strategy.
func NewSMACrossover(symbol string, p Params) *SMACrossover {
	return &SMACrossover{
		symbol:        symbol,
		short:         p.Short,
		long:          p.Long,
		interval:      p.Interval,
		points:        p.Points,
		gateWindow:    p.GateWindow,
		gateThreshold: p.GateThreshold,
	}
}

// Name returns the configured identifier for logging.
func (s *SMACrossover) Name() string { return "simple_sma" }

// Evaluate fetches recent history and reports the crossover verdict for the
// window ending at the latest point.
func (s *SMACrossover) Evaluate(ctx context.Context, src HistorySource) (Verdict, error) {
	series, err := src.PriceHistory(ctx, s.symbol, s.interval, s.points)
	if err != nil {
		return hold("history unavailable"), err
	}

	prices := series.Clean().Prices()
	if len(prices) < s.long {
		return hold("insufficient history"), nil
	}
	if vol := recentVolatility(prices, s.gateWindow); vol < s.gateThreshold {
		return hold(fmt.Sprintf("flat market (vol=%.4f)", vol)), nil
	}

	switch crossoverTransition(prices, s.short, s.long) {
	case 1:
		return Verdict{Signal: Buy, Reason: "short SMA crossed above long"}, nil
	case -1:
		return Verdict{Signal: Sell, Reason: "short SMA crossed below long"}, nil
	default:
		return hold("no crossover"), nil
	}
}
