package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Market selects an exchange product line.
type Market string

const (
	MarketSpot    Market = "spot"
	MarketFutures Market = "futures"
)

// Operation names a provider capability.
type Operation string

const (
	OpKlines        Operation = "klines"
	OpOrderBook     Operation = "orderbook"
	OpTrades        Operation = "trades"
	OpQuotes        Operation = "quotes"
	OpGlobalMetrics Operation = "global-metrics"
	OpFeedFetch     Operation = "feed-fetch"
)

// MarketQuery is the input of one exchange operation.
// StartTime and EndTime are epoch milliseconds; zero means unset.
type MarketQuery struct {
	Market    Market
	Symbol    string
	Interval  string
	Limit     int
	StartTime int64
	EndTime   int64
}

// Candle is one OHLCV bar.
type Candle struct {
	OpenTime    time.Time       `json:"openTime"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
	QuoteVolume decimal.Decimal `json:"quoteVolume"`
	CloseTime   *time.Time      `json:"closeTime,omitempty"`
	Trades      int64           `json:"trades,omitempty"`
}

// PriceLevel is one order book row.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// UnmarshalJSON accepts the exchange wire form ["price","size"] as well as an object.
func (p *PriceLevel) UnmarshalJSON(b []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) < 2 {
			return fmt.Errorf("price level: expected 2 elements, got %d", len(pair))
		}
		p.Price, p.Size = pair[0], pair[1]
		return nil
	}
	type plain PriceLevel
	var obj plain
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("price level: %w", err)
	}
	*p = PriceLevel(obj)
	return nil
}

// OrderBook is a depth snapshot. Bids and Asks are never nil.
type OrderBook struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	UpdateID  int64        `json:"updateId"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

// EmptyOrderBook returns a book with empty sides.
func EmptyOrderBook(symbol string) *OrderBook {
	return &OrderBook{Symbol: symbol, Bids: []PriceLevel{}, Asks: []PriceLevel{}}
}

// Side is the taker side of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one public execution.
type Trade struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
	Side  Side            `json:"side"`
	Time  time.Time       `json:"time"`
}
