package models

// ExchangeRequest is the query of /api/binance and /api/bybit.
type ExchangeRequest struct {
	Symbol    string `query:"symbol" validate:"required,alphanum,max=32"`
	Market    string `query:"market" default:"futures" validate:"oneof=spot futures"`
	Metric    string `query:"metric" default:"klines"`
	Interval  string `query:"interval"`
	Limit     int    `query:"limit" validate:"gte=0,lte=1500"`
	StartTime int64  `query:"startTime" validate:"gte=0"`
	EndTime   int64  `query:"endTime" validate:"gte=0"`
}

// Query converts the request into an adapter query.
func (r *ExchangeRequest) Query() MarketQuery {
	return MarketQuery{
		Market:    Market(r.Market),
		Symbol:    r.Symbol,
		Interval:  r.Interval,
		Limit:     r.Limit,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// AggregatorRequest is the query of /api/cmc.
type AggregatorRequest struct {
	Metric  string `query:"metric" default:"quotes"`
	Symbols string `query:"symbols"`
	Convert string `query:"convert" default:"USD" validate:"max=16"`
}

// MarketSnapshotRequest is the query of /api/market.
type MarketSnapshotRequest struct {
	Symbol   string `query:"symbol" validate:"required,alphanum,max=32"`
	Interval string `query:"interval" default:"1h"`
	Limit    int    `query:"limit" default:"200" validate:"gte=1,lte=1000"`
	Convert  string `query:"convert" default:"USD" validate:"max=16"`
}

// NewsRequest is the query of /api/news.
type NewsRequest struct {
	Source         string `query:"source"`
	Mode           string `query:"mode" default:"aggregate" validate:"oneof=aggregate single"`
	LimitPerSource int    `query:"limitPerSource" validate:"gte=0,lte=200"`
	MaxItems       int    `query:"maxItems" validate:"gte=0,lte=1000"`
}

// ExchangeResult is the single-operation exchange response.
type ExchangeResult struct {
	Source string      `json:"source"`
	Market Market      `json:"market,omitempty"`
	Metric Operation   `json:"metric"`
	Symbol string      `json:"symbol"`
	Data   interface{} `json:"data"`
}

// AggregatorResult is the single-operation aggregator response.
type AggregatorResult struct {
	Source  string      `json:"source"`
	Metric  Operation   `json:"metric"`
	Convert string      `json:"convert"`
	Data    interface{} `json:"data"`
}
