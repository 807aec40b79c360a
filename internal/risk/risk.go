package risk

// Limits is the final notional guard consulted after sizing; it exists so a
// mis-tuned cash percentage can never push an oversized order to the broker.
type Limits struct {
	MaxNotionalPerTrade float64
}

// Allow reports whether a trade of the given notional stays inside the cap.
// A zero cap means the guard is disabled.
func (l Limits) Allow(notional float64) bool {
	if l.MaxNotionalPerTrade <= 0 {
		return true
	}
	return notional <= l.MaxNotionalPerTrade
}
