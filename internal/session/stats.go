// Package session tracks per-process trading statistics and the append-only
// trade record. Everything here resets only on process restart.
package session

import (
	"sync"
	"time"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
)

// Stats accumulates counters over the lifetime of one running process.
type Stats struct {
	mu sync.Mutex

	startTime      time.Time
	totalSignals   int
	ordersPlaced   int
	marketOrders   int
	limitOrders    int
	unfilledLimits int
	flips          int

	hasPrevSignal bool
	prevSignal    strategy.Signal

	peakNetWorth float64
	maxDrawdown  float64

	lastEntry time.Time
}

// NewStats starts a fresh session clock.
func NewStats(now time.Time) *Stats {
	return &Stats{startTime: now}
}

// RecordSignal counts a generated signal and tracks direction flips. A flip is
// any buy or sell that differs from the immediately preceding signal.
func (s *Stats) RecordSignal(sig strategy.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalSignals++
	if s.hasPrevSignal && sig != s.prevSignal && sig != strategy.Hold {
		s.flips++
	}
	s.prevSignal = sig
	s.hasPrevSignal = true
}

// RecordOrder counts a submitted order by type.
func (s *Stats) RecordOrder(orderType execution.OrderType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordersPlaced++
	switch orderType {
	case execution.Limit:
		s.limitOrders++
	case execution.Market:
		s.marketOrders++
	}
}

// RecordUnfilledLimit counts a limit order that went stale without filling.
func (s *Stats) RecordUnfilledLimit() {
	s.mu.Lock()
	s.unfilledLimits++
	s.mu.Unlock()
}

// UpdateNetWorth feeds the drawdown tracker and returns the current maximum
// peak-to-trough decline as a fraction.
func (s *Stats) UpdateNetWorth(netWorth float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if netWorth > s.peakNetWorth {
		s.peakNetWorth = netWorth
	}
	if s.peakNetWorth > 0 {
		dd := (s.peakNetWorth - netWorth) / s.peakNetWorth
		if dd > s.maxDrawdown {
			s.maxDrawdown = dd
		}
	}
	return s.maxDrawdown
}

// UpdatePosition records entry/exit timestamps for exposure reporting.
func (s *Stats) UpdatePosition(holding bool, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case holding && s.lastEntry.IsZero():
		s.lastEntry = now
	case !holding:
		s.lastEntry = time.Time{}
	}
}

// ExposureDuration reports how long the current position has been held.
func (s *Stats) ExposureDuration(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastEntry.IsZero() {
		return 0
	}
	return now.Sub(s.lastEntry)
}

// Summary snapshots the counters for logging.
func (s *Stats) Summary(now time.Time) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	exposure := time.Duration(0)
	if !s.lastEntry.IsZero() {
		exposure = now.Sub(s.lastEntry)
	}
	return map[string]any{
		"uptime":               now.Sub(s.startTime).Round(time.Second).String(),
		"total_signals":        s.totalSignals,
		"orders_placed":        s.ordersPlaced,
		"market_orders":        s.marketOrders,
		"limit_orders":         s.limitOrders,
		"unfilled_limits":      s.unfilledLimits,
		"signal_flips":         s.flips,
		"max_drawdown_pct":     s.maxDrawdown * 100,
		"exposure_duration_ms": exposure.Milliseconds(),
	}
}
