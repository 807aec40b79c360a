package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Options{
		BaseURL:  server.URL,
		UserID:   "42",
		Password: "hunter2",
		Timeout:  2 * time.Second,
	}, zerolog.Nop())
	return client, server
}

func TestPriceHistoryDecodes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/ACME/history", r.URL.Path)
		assert.Equal(t, "5m", r.URL.Query().Get("interval"))
		assert.Equal(t, "50", r.URL.Query().Get("points"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "42", user)
		assert.Equal(t, "hunter2", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"price":10},{"price":11.5},{}]`))
	}))

	series, err := client.PriceHistory(context.Background(), "ACME", "5m", 50)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 11.5, series[1].Price)
	// missing price field decodes to zero; Clean() drops it downstream
	assert.Len(t, series.Clean(), 2)
}

func TestPriceHistoryErrorYieldsEmptySeries(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	series, err := client.PriceHistory(context.Background(), "ACME", "5m", 50)
	require.Error(t, err)
	assert.Empty(t, series)
}

func TestAccountDecodes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cash":10000,"open_positions":{"ACME":12},"networth":10600}`))
	}))

	acct, err := client.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10000.0, acct.Cash)
	assert.Equal(t, 12.0, acct.Position("ACME"))
	assert.Equal(t, 10600.0, acct.NetWorth)
}

func TestSnapshotNormalizesBookKeys(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocks/ACME", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"stock": {"symbol":"ACME","price":50.5,"volatility":0.03},
			"orderbook": {
				"buy_orders": [{"price":50,"quantity":7}],
				"sell": [{"price":51,"volume":9}]
			}
		}`))
	}))

	snap, err := client.Snapshot(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, 50.5, snap.Price)
	assert.Equal(t, 0.03, snap.Volatility)
	require.Len(t, snap.Book.Bids, 1)
	require.Len(t, snap.Book.Asks, 1)
	assert.Equal(t, 7.0, snap.Book.Bids[0].Volume)
	assert.Equal(t, 9.0, snap.Book.Asks[0].Volume)
}

func TestSubmitOrderCarriesLimitPrice(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id": 789}`))
	}))

	ack, err := client.SubmitOrder(context.Background(), execution.Order{
		Symbol:     "ACME",
		Side:       execution.Buy,
		Qty:        12,
		Type:       execution.Limit,
		LimitPrice: 49.9,
		ClientID:   "cid-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "789", ack.OrderID)

	assert.Equal(t, "42", received["user_id"])
	assert.Equal(t, "buy", received["side"])
	assert.Equal(t, "limit", received["order_type"])
	assert.Equal(t, 49.9, received["limit_price"])
	assert.Equal(t, 12.0, received["quantity"])
}

func TestSubmitOrderStringID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id": "abc-123"}`))
	}))

	ack, err := client.SubmitOrder(context.Background(), execution.Order{
		Symbol: "ACME", Side: execution.Sell, Qty: 3, Type: execution.Market,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", ack.OrderID)
}

func TestSubmitOrderRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	ack, err := client.SubmitOrder(context.Background(), execution.Order{
		Symbol: "ACME", Side: execution.Buy, Qty: 1, Type: execution.Market,
	})
	require.Error(t, err)
	assert.Nil(t, ack)
}

func TestCancelOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/ord-9", r.URL.Path)
	}))

	require.NoError(t, client.CancelOrder(context.Background(), "ord-9"))
}

func TestCancelOrderFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	require.Error(t, client.CancelOrder(context.Background(), "ord-9"))
}
