// Package risk bounds how much size the planner may put behind a signal.
package risk

import "math"

// Sizer converts available cash and current volatility into an order quantity.
// It is a fixed-fraction budget control, deliberately simpler than a Kelly or
// variance-scaled allocator.
type Sizer struct {
	CashPct          float64
	MaxTradeCap      float64
	MinQty           int
	HighVolThreshold float64
	DerateFactor     float64
}

// Quantity returns the whole-share size for a trade. The budget is the lesser
// of cash×CashPct and MaxTradeCap; the result is derated when volatility runs
// above HighVolThreshold and floored at MinQty. A non-positive price is an
// invalid quote and sizes to zero.
func (s Sizer) Quantity(cash, price, volatility float64) int {
	if price <= 0 {
		return 0
	}

	budget := math.Min(cash*s.CashPct, s.MaxTradeCap)
	if budget < 0 {
		budget = 0
	}
	qty := int(math.Floor(budget / price))
	if volatility > s.HighVolThreshold {
		qty = int(math.Floor(float64(qty) * s.DerateFactor))
	}
	if qty < s.MinQty {
		qty = s.MinQty
	}
	return qty
}
