package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the aggregator's latest listing for one asset.
type Quote struct {
	ID                int64                 `json:"id"`
	Name              string                `json:"name"`
	Symbol            string                `json:"symbol"`
	Slug              string                `json:"slug"`
	Rank              int                   `json:"rank"`
	CirculatingSupply decimal.Decimal       `json:"circulatingSupply"`
	TotalSupply       decimal.Decimal       `json:"totalSupply"`
	MaxSupply         decimal.NullDecimal   `json:"maxSupply"`
	LastUpdated       time.Time             `json:"lastUpdated"`
	Quote             map[string]QuotePrice `json:"quote"`
}

// QuotePrice is a quote expressed in one convert currency.
type QuotePrice struct {
	Price            decimal.Decimal `json:"price"`
	Volume24h        decimal.Decimal `json:"volume24h"`
	PercentChange1h  decimal.Decimal `json:"percentChange1h"`
	PercentChange24h decimal.Decimal `json:"percentChange24h"`
	PercentChange7d  decimal.Decimal `json:"percentChange7d"`
	MarketCap        decimal.Decimal `json:"marketCap"`
	LastUpdated      time.Time       `json:"lastUpdated"`
}

// GlobalMetrics is the market-wide aggregate.
type GlobalMetrics struct {
	ActiveCryptocurrencies int                    `json:"activeCryptocurrencies"`
	ActiveExchanges        int                    `json:"activeExchanges"`
	ActiveMarketPairs      int                    `json:"activeMarketPairs"`
	BTCDominance           decimal.Decimal        `json:"btcDominance"`
	ETHDominance           decimal.Decimal        `json:"ethDominance"`
	LastUpdated            time.Time              `json:"lastUpdated"`
	Quote                  map[string]GlobalQuote `json:"quote"`
}

// GlobalQuote is the global aggregate in one convert currency.
type GlobalQuote struct {
	TotalMarketCap   decimal.Decimal `json:"totalMarketCap"`
	TotalVolume24h   decimal.Decimal `json:"totalVolume24h"`
	AltcoinMarketCap decimal.Decimal `json:"altcoinMarketCap"`
	LastUpdated      time.Time       `json:"lastUpdated"`
}
