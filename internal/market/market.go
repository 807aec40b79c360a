// Package market standardizes the payloads shared between the broker boundary and strategy layers.
package market

import (
	"math"
	"time"
)

// PricePoint is a single observation in a fetched history series.
type PricePoint struct {
	Price float64 `json:"price"`
	Ts    time.Time
}

// PriceSeries is an ordered run of price points for one symbol and interval.
// A series is fetched once per cycle and never mutated afterwards.
type PriceSeries []PricePoint

// Prices flattens the series into raw price values.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, 0, len(s))
	for _, p := range s {
		out = append(out, p.Price)
	}
	return out
}

// Clean drops points with missing or nonsensical prices so rolling windows
// only ever see usable data.
func (s PriceSeries) Clean() PriceSeries {
	out := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// BookLevel is one resting price level on a side of the order book.
type BookLevel struct {
	Price  float64
	Volume float64
}

// OrderBook holds the canonical two-sided book after boundary normalization.
type OrderBook struct {
	Bids []BookLevel
	Asks []BookLevel
}

// Snapshot captures one symbol's market state at a single instant.
type Snapshot struct {
	Symbol     string
	Price      float64
	Volatility float64
	Book       OrderBook
}

// Valid reports whether the snapshot carries usable price data.
func (s Snapshot) Valid() bool {
	return s.Price > 0 && !math.IsNaN(s.Price) && s.Volatility >= 0
}

// Account is the brokerage account view for one user.
type Account struct {
	Cash      float64
	Positions map[string]float64
	NetWorth  float64
}

// Position returns the held quantity for a symbol, zero when absent.
func (a Account) Position(symbol string) float64 {
	return a.Positions[symbol]
}

// NetWorthOr derives net worth from cash plus marked position value when the
// upstream response omitted it.
func (a Account) NetWorthOr(symbol string, price float64) float64 {
	if a.NetWorth > 0 {
		return a.NetWorth
	}
	return a.Cash + a.Position(symbol)*price
}
