// Package broker hosts the clients for the brokerage API the bot trades
// against. All responses are normalized into the canonical market shapes at
// this boundary.
package broker

import (
	"context"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
)

// Broker is the full collaborator contract the trading core depends on.
type Broker interface {
	PriceHistory(ctx context.Context, symbol, interval string, points int) (market.PriceSeries, error)
	Account(ctx context.Context) (*market.Account, error)
	Snapshot(ctx context.Context, symbol string) (*market.Snapshot, error)
	SubmitOrder(ctx context.Context, order execution.Order) (*execution.Ack, error)
	CancelOrder(ctx context.Context, orderID string) error
}
