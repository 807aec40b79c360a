// Package strategy contains the signal generation logic that turns fetched
// price history into a directional trading intent.
package strategy

import (
	"context"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
)

// Signal is the high-level trading intent for one cycle.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

// String implements fmt.Stringer for pretty logging.
func (s Signal) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Verdict pairs a signal with the reason it fired or stayed flat, so data
// quality holds are distinguishable from genuine no-crossover holds.
type Verdict struct {
	Signal Signal
	Reason string
}

// HistorySource supplies price series to strategies. The broker client
// satisfies it in production; tests use scripted fixtures.
type HistorySource interface {
	PriceHistory(ctx context.Context, symbol, interval string, points int) (market.PriceSeries, error)
}

// Strategy defines behaviour shared by signal generator implementations.
type Strategy interface {
	Evaluate(ctx context.Context, src HistorySource) (Verdict, error)
	Name() string
}

func hold(reason string) Verdict { return Verdict{Signal: Hold, Reason: reason} }
