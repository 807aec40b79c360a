package market

import "encoding/json"

// The brokerage API has drifted across deployments: book levels report size as
// either "volume" or "quantity", and the book sides appear as "buy_orders"/
// "sell_orders" or plain "buy"/"sell". Normalization happens here so nothing
// past the boundary branches on key spellings.

type bookLevelJSON struct {
	Price    float64  `json:"price"`
	Volume   *float64 `json:"volume"`
	Quantity *float64 `json:"quantity"`
}

// UnmarshalJSON accepts both level spellings and keeps the canonical Volume.
func (l *BookLevel) UnmarshalJSON(data []byte) error {
	var raw bookLevelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Price = raw.Price
	switch {
	case raw.Volume != nil:
		l.Volume = *raw.Volume
	case raw.Quantity != nil:
		l.Volume = *raw.Quantity
	default:
		l.Volume = 0
	}
	return nil
}

type orderBookJSON struct {
	BuyOrders  []BookLevel `json:"buy_orders"`
	SellOrders []BookLevel `json:"sell_orders"`
	Buy        []BookLevel `json:"buy"`
	Sell       []BookLevel `json:"sell"`
}

// UnmarshalJSON folds the alternate side keys into Bids/Asks.
func (b *OrderBook) UnmarshalJSON(data []byte) error {
	var raw orderBookJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Bids = raw.BuyOrders
	if len(b.Bids) == 0 {
		b.Bids = raw.Buy
	}
	b.Asks = raw.SellOrders
	if len(b.Asks) == 0 {
		b.Asks = raw.Sell
	}
	return nil
}
