// Package filter holds the secondary confirmation checks that can veto a raw
// strategy signal before any order is planned.
package filter

import (
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
)

// VolatilityBand confirms a signal against a dynamic band around a reference
// price. Width scales with both the reference and current volatility.
type VolatilityBand struct {
	Multiplier float64
}

// Opinion reports the band's own directional view: buy below the band, sell
// above it, hold inside.
func (b VolatilityBand) Opinion(price, reference, volatility float64) strategy.Signal {
	width := b.Multiplier * reference * volatility
	switch {
	case price < reference-width:
		return strategy.Buy
	case price > reference+width:
		return strategy.Sell
	default:
		return strategy.Hold
	}
}

// Confirm accepts the candidate signal only when the band's opinion matches it
// exactly.
func (b VolatilityBand) Confirm(sig strategy.Signal, price, reference, volatility float64) bool {
	return b.Opinion(price, reference, volatility) == sig
}

// BookPressure confirms a signal against the buy/sell volume imbalance over
// the best Levels book levels per side.
type BookPressure struct {
	Levels    int
	Threshold float64
}

// Confirm passes a buy when buy-side volume dominates by more than Threshold,
// a sell when sell-side volume dominates by the inverse. An empty side means
// no measurable pressure and never blocks.
func (p BookPressure) Confirm(sig strategy.Signal, book market.OrderBook) bool {
	buyVol := sideVolume(book.Bids, p.Levels)
	sellVol := sideVolume(book.Asks, p.Levels)
	if buyVol == 0 || sellVol == 0 {
		return true
	}

	ratio := buyVol / sellVol
	switch sig {
	case strategy.Buy:
		return ratio > p.Threshold
	case strategy.Sell:
		return ratio < 1/p.Threshold
	default:
		return true
	}
}

func sideVolume(levels []market.BookLevel, depth int) float64 {
	if depth <= 0 || depth > len(levels) {
		depth = len(levels)
	}
	var total float64
	for _, level := range levels[:depth] {
		total += level.Volume
	}
	return total
}
