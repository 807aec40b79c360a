package strategy

import "math"

// sma returns the simple moving average of the window ending at index i, or
// NaN when the window does not fit.
func sma(prices []float64, window, i int) float64 {
	if window <= 0 || i+1 < window || i >= len(prices) {
		return math.NaN()
	}
	var sum float64
	for j := i - window + 1; j <= i; j++ {
		sum += prices[j]
	}
	return sum / float64(window)
}

// crossoverTransition reports the last-row transition of the short>long
// indicator: +1 when the short average just crossed above the long one, -1
// when it just crossed below, 0 otherwise.
func crossoverTransition(prices []float64, short, long int) int {
	i := len(prices) - 1
	if i < long {
		return 0
	}
	cur := indicatorAt(prices, short, long, i)
	prev := indicatorAt(prices, short, long, i-1)
	return cur - prev
}

func indicatorAt(prices []float64, short, long, i int) int {
	shortAvg := sma(prices, short, i)
	longAvg := sma(prices, long, i)
	if math.IsNaN(shortAvg) || math.IsNaN(longAvg) {
		return 0
	}
	if shortAvg > longAvg {
		return 1
	}
	return 0
}

// trendDirection is the sign of short SMA minus long SMA at the last index,
// used by the slow-timeframe agreement check.
func trendDirection(prices []float64, short, long int) int {
	i := len(prices) - 1
	shortAvg := sma(prices, short, i)
	longAvg := sma(prices, long, i)
	if math.IsNaN(shortAvg) || math.IsNaN(longAvg) {
		return 0
	}
	switch {
	case shortAvg > longAvg:
		return 1
	case shortAvg < longAvg:
		return -1
	default:
		return 0
	}
}

// recentVolatility is the standard deviation of percent change over the last
// window observations. Flat tapes produce values near zero.
func recentVolatility(prices []float64, window int) float64 {
	if window < 2 || len(prices) < window+1 {
		return 0
	}
	changes := make([]float64, 0, window)
	for i := len(prices) - window; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		changes = append(changes, (prices[i]-prev)/prev)
	}
	return stddev(changes)
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs) - 1)
	return math.Sqrt(variance)
}
