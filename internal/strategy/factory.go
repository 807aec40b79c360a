package strategy

import (
	"fmt"
	"sort"
	"strings"
)

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	Short         int
	Long          int
	Interval      string
	FastInterval  string
	SlowInterval  string
	Points        int
	GateWindow    int
	GateThreshold float64
}

type constructor func(symbol string, p Params) Strategy

// The registry is a closed set; an unrecognized mode is a configuration error
// surfaced at startup, not a silent fallback.
var registry = map[string]constructor{
	"simple_sma": func(symbol string, p Params) Strategy { return NewSMACrossover(symbol, p) },
	"multi_sma":  func(symbol string, p Params) Strategy { return NewMultiTimeframe(symbol, p) },
}

// Known reports whether mode names a registered strategy.
func Known(mode string) bool {
	_, ok := registry[normalize(mode)]
	return ok
}

// Build returns the strategy implementation matching the configured mode.
func Build(mode, symbol string, params Params) (Strategy, error) {
	build, ok := registry[normalize(mode)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %s)", mode, strings.Join(names(), ", "))
	}
	if params.Short <= 0 || params.Long <= 0 || params.Short >= params.Long {
		return nil, fmt.Errorf("strategy windows invalid: short=%d long=%d", params.Short, params.Long)
	}
	return build(symbol, params), nil
}

func normalize(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
