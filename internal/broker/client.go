package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/market"
)

// Options configures the HTTP client connection to the brokerage.
type Options struct {
	BaseURL    string
	UserID     string
	Password   string
	Timeout    time.Duration
	RetryCount int
}

// Client talks to the brokerage REST API with basic auth and bounded
// retry/backoff for transient failures.
type Client struct {
	http   *resty.Client
	userID string
	log    zerolog.Logger
}

// NewClient builds a Client from connection options.
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	http := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetBasicAuth(opts.UserID, opts.Password)
	return &Client{http: http, userID: opts.UserID, log: log}
}

type historyPoint struct {
	Price float64 `json:"price"`
}

// PriceHistory fetches the recent price series for one symbol and interval.
// Errors yield an empty series; callers treat that as a data-quality hold.
func (c *Client) PriceHistory(ctx context.Context, symbol, interval string, points int) (market.PriceSeries, error) {
	var raw []historyPoint
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("interval", interval).
		SetQueryParam("points", fmt.Sprint(points)).
		SetResult(&raw).
		Get(fmt.Sprintf("/stocks/%s/history", symbol))
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch history: %s", resp.Status())
	}

	series := make(market.PriceSeries, 0, len(raw))
	for _, p := range raw {
		series = append(series, market.PricePoint{Price: p.Price})
	}
	return series, nil
}

type accountResponse struct {
	Cash      float64            `json:"cash"`
	Positions map[string]float64 `json:"open_positions"`
	NetWorth  float64            `json:"networth"`
}

// Account fetches the current account state.
func (c *Client) Account(ctx context.Context) (*market.Account, error) {
	var raw accountResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("/account")
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch account: %s", resp.Status())
	}

	positions := raw.Positions
	if positions == nil {
		positions = map[string]float64{}
	}
	return &market.Account{Cash: raw.Cash, Positions: positions, NetWorth: raw.NetWorth}, nil
}

type snapshotResponse struct {
	Stock struct {
		Symbol     string  `json:"symbol"`
		Price      float64 `json:"price"`
		Volatility float64 `json:"volatility"`
	} `json:"stock"`
	OrderBook market.OrderBook `json:"orderbook"`
}

// Snapshot fetches the instantaneous market state for one symbol.
func (c *Client) Snapshot(ctx context.Context, symbol string) (*market.Snapshot, error) {
	var raw snapshotResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(fmt.Sprintf("/stocks/%s", symbol))
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch snapshot: %s", resp.Status())
	}

	return &market.Snapshot{
		Symbol:     symbol,
		Price:      raw.Stock.Price,
		Volatility: raw.Stock.Volatility,
		Book:       raw.OrderBook,
	}, nil
}

type orderRequest struct {
	UserID     string  `json:"user_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Quantity   int     `json:"quantity"`
	OrderType  string  `json:"order_type"`
	LimitPrice float64 `json:"limit_price,omitempty"`
	ClientID   string  `json:"client_order_id,omitempty"`
}

type orderResponse struct {
	OrderID any `json:"order_id"`
}

// SubmitOrder places an order and returns the brokerage acknowledgement. The
// order id is opaque and may arrive as a string or a number; it is carried as
// a string internally.
func (c *Client) SubmitOrder(ctx context.Context, order execution.Order) (*execution.Ack, error) {
	body := orderRequest{
		UserID:    c.userID,
		Symbol:    order.Symbol,
		Side:      string(order.Side),
		Quantity:  order.Qty,
		OrderType: string(order.Type),
		ClientID:  order.ClientID,
	}
	if order.Type == execution.Limit {
		body.LimitPrice = order.LimitPrice
	}

	var raw orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&raw).
		Post("/orders/")
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("submit order rejected: %s", resp.Status())
	}
	if raw.OrderID == nil {
		return nil, fmt.Errorf("submit order: response missing order_id")
	}
	return &execution.Ack{OrderID: normalizeID(raw.OrderID)}, nil
}

// CancelOrder asks the brokerage to cancel an outstanding order. Failure is
// reported to the caller, who logs it and moves on.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/orders/%s", orderID))
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("cancel order %s: %s", orderID, resp.Status())
	}
	return nil
}

func normalizeID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; order ids are integral
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
