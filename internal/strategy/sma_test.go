package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
)

type fixtureSource struct {
	byInterval map[string][]float64
	err        error
}

func (f fixtureSource) PriceHistory(_ context.Context, _ string, interval string, _ int) (market.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	series := make(market.PriceSeries, 0, len(f.byInterval[interval]))
	for _, p := range f.byInterval[interval] {
		series = append(series, market.PricePoint{Price: p})
	}
	return series, nil
}

func fixture(prices ...float64) fixtureSource {
	return fixtureSource{byInterval: map[string][]float64{"5m": prices}}
}

// Short 2 vs long 3 over this tape flips the short>long indicator exactly once,
// at index 4.
var upCross = []float64{10, 9, 8, 7, 10, 12}

func testParams() Params {
	return Params{Short: 2, Long: 3, Interval: "5m", Points: 50, GateWindow: 3, GateThreshold: 0}
}

func TestSMACrossoverShortHistoryHolds(t *testing.T) {
	strat := NewSMACrossover("ACME", testParams())
	verdict, err := strat.Evaluate(context.Background(), fixture(10, 11))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Hold {
		t.Fatalf("expected hold on short history, got %s", verdict.Signal)
	}
}

func TestSMACrossoverFiresOnlyAtTransition(t *testing.T) {
	strat := NewSMACrossover("ACME", testParams())

	for end := 3; end <= len(upCross); end++ {
		verdict, err := strat.Evaluate(context.Background(), fixture(upCross[:end]...))
		if err != nil {
			t.Fatalf("Evaluate returned error at end=%d: %v", end, err)
		}
		if end == 5 {
			if verdict.Signal != Buy {
				t.Fatalf("expected buy at crossover window, got %s (%s)", verdict.Signal, verdict.Reason)
			}
			continue
		}
		if verdict.Signal != Hold {
			t.Fatalf("expected hold at end=%d, got %s", end, verdict.Signal)
		}
	}
}

func TestSMACrossoverEmitsSell(t *testing.T) {
	strat := NewSMACrossover("ACME", testParams())
	verdict, err := strat.Evaluate(context.Background(), fixture(10, 12, 14, 13, 10))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Sell {
		t.Fatalf("expected sell, got %s (%s)", verdict.Signal, verdict.Reason)
	}
}

func TestSMACrossoverVolatilityGateForcesHold(t *testing.T) {
	params := testParams()
	params.GateThreshold = 10 // nothing clears this
	strat := NewSMACrossover("ACME", params)
	verdict, err := strat.Evaluate(context.Background(), fixture(upCross[:5]...))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Hold {
		t.Fatalf("expected gated hold, got %s", verdict.Signal)
	}
}

func TestSMACrossoverMalformedHistoryHolds(t *testing.T) {
	strat := NewSMACrossover("ACME", testParams())
	verdict, err := strat.Evaluate(context.Background(), fixture(0, -1, 0, 0, 0))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Hold {
		t.Fatalf("expected hold on malformed history, got %s", verdict.Signal)
	}
}

func TestSMACrossoverFetchErrorHolds(t *testing.T) {
	strat := NewSMACrossover("ACME", testParams())
	verdict, err := strat.Evaluate(context.Background(), fixtureSource{err: errors.New("boom")})
	if err == nil {
		t.Fatalf("expected fetch error to propagate")
	}
	if verdict.Signal != Hold {
		t.Fatalf("expected hold on fetch error, got %s", verdict.Signal)
	}
}

func TestMultiTimeframeRequiresAgreement(t *testing.T) {
	params := testParams()
	params.FastInterval = "1m"
	params.SlowInterval = "5m"

	agree := fixtureSource{byInterval: map[string][]float64{
		"1m": upCross[:5],
		"5m": {1, 2, 3, 4, 5, 6},
	}}
	strat := NewMultiTimeframe("ACME", params)
	verdict, err := strat.Evaluate(context.Background(), agree)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Buy {
		t.Fatalf("expected buy on agreement, got %s (%s)", verdict.Signal, verdict.Reason)
	}

	disagree := fixtureSource{byInterval: map[string][]float64{
		"1m": upCross[:5],
		"5m": {6, 5, 4, 3, 2, 1},
	}}
	verdict, err = strat.Evaluate(context.Background(), disagree)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if verdict.Signal != Hold {
		t.Fatalf("expected hold on disagreement, got %s", verdict.Signal)
	}
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	if _, err := Build("martingale", "ACME", testParams()); err == nil {
		t.Fatalf("expected unknown strategy error")
	}
	if _, err := Build("simple_sma", "ACME", Params{Short: 10, Long: 5}); err == nil {
		t.Fatalf("expected invalid window error")
	}
	strat, err := Build("Multi_SMA", "ACME", testParams())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if strat.Name() != "multi_sma" {
		t.Fatalf("unexpected strategy: %s", strat.Name())
	}
}
