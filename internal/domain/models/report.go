package models

// Status of an aggregate.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
)

// SourceError names one failed source of an aggregate.
type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// NewStatus is partial iff errs is non-empty.
func NewStatus(errs []SourceError) Status {
	if len(errs) > 0 {
		return StatusPartial
	}
	return StatusOK
}

// ExchangeSnapshot holds one exchange's slots. A failed slot is nil and renders as null.
type ExchangeSnapshot struct {
	Klines    []Candle   `json:"klines"`
	OrderBook *OrderBook `json:"orderbook"`
	Trades    []Trade    `json:"trades"`
}

// MarketSnapshot is the cross-exchange payload.
type MarketSnapshot struct {
	Symbol        string           `json:"symbol"`
	Interval      string           `json:"interval"`
	Convert       string           `json:"convert"`
	Bybit         ExchangeSnapshot `json:"bybit"`
	Binance       ExchangeSnapshot `json:"binance"`
	CoinMarketCap map[string]Quote `json:"coinmarketcap"`
}

// MarketReport is the market snapshot aggregate.
type MarketReport struct {
	Status Status         `json:"status"`
	Errors []SourceError  `json:"errors"`
	Data   MarketSnapshot `json:"data"`
}

// Partial reports whether any source failed.
func (r *MarketReport) Partial() bool { return r.Status == StatusPartial }

// NewsReport is the multi-source news aggregate.
type NewsReport struct {
	Status           Status              `json:"status"`
	RequestedSources []string            `json:"requestedSources"`
	AvailableSources []NewsSource        `json:"availableSources"`
	Total            int                 `json:"total"`
	Items            []NormalizedArticle `json:"items"`
	Errors           []SourceError       `json:"errors"`
}

// Partial reports whether any source failed.
func (r *NewsReport) Partial() bool { return r.Status == StatusPartial }

// SourceNews is the single-source result.
type SourceNews struct {
	Status Status              `json:"status"`
	Source NewsSource          `json:"source"`
	Total  int                 `json:"total"`
	Items  []NormalizedArticle `json:"items"`
}
