package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/domain/repository"
	"MarketAtlas/internal/service/upstream"
	xhttp "MarketAtlas/pkg/http"
	xutil "MarketAtlas/pkg/util"

	"github.com/shopspring/decimal"
)

// Name is the provider id used in source labels.
const Name = "bybit"

const (
	DefaultKlinesLimit = 200
	DefaultDepthLimit  = 50
	DefaultTradesLimit = 200
)

var intervals = repository.NewIntervalMapper(map[repository.Interval]string{
	repository.Interval1m:  "1",
	repository.Interval3m:  "3",
	repository.Interval5m:  "5",
	repository.Interval15m: "15",
	repository.Interval30m: "30",
	repository.Interval1h:  "60",
	repository.Interval2h:  "120",
	repository.Interval4h:  "240",
	repository.Interval6h:  "360",
	repository.Interval12h: "720",
	repository.Interval1d:  "D",
	repository.Interval1w:  "W",
	repository.Interval1M:  "M",
}, "60")

var categories = map[models.Market]string{
	models.MarketFutures: "linear",
	models.MarketSpot:    "spot",
}

// Client is the Bybit v5 market adapter.
type Client struct {
	http  upstream.Getter
	hosts *upstream.HostSet
}

// NewClient wires the adapter.
func NewClient(http upstream.Getter, hosts *upstream.HostSet) *Client {
	return &Client{http: http, hosts: hosts}
}

// Name implements repository.MarketDataProvider.
func (c *Client) Name() string { return Name }

// envelope is the v5 response wrapper.
type envelope struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) resolve(q models.MarketQuery, op models.Operation) (string, string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(q.Symbol))
	if symbol == "" {
		return "", "", xhttp.InvalidParameterError("symbol", "symbol is required")
	}
	mk := q.Market
	if mk == "" {
		mk = models.MarketFutures
	}
	category, ok := categories[mk]
	if !ok {
		return "", "", xhttp.UnsupportedOperationErrorf("%s: %s is not supported for market %q", Name, op, mk)
	}
	return category, symbol, nil
}

// get unwraps the envelope. A missing result yields ok=false.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) (bool, error) {
	resp, err := c.hosts.Get(ctx, c.http, path, query, nil)
	if err != nil {
		return false, err
	}

	var env envelope
	if err := resp.DecodeJSON(&env); err != nil {
		return false, err
	}
	if env.RetCode != 0 {
		return false, xhttp.UpstreamRejectedErrorf("%s: %s (retCode %d)", Name, env.RetMsg, env.RetCode).
			WithParam("retCode", env.RetCode)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(env.Result, dest); err != nil {
		return false, xhttp.UnexpectedPayloadErrorf("%s: decode result: %v", Name, err)
	}
	return true, nil
}

// Klines returns candles oldest first.
func (c *Client) Klines(ctx context.Context, q models.MarketQuery) ([]models.Candle, error) {
	category, symbol, err := c.resolve(q, models.OpKlines)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("category", category)
	query.Set("symbol", symbol)
	query.Set("interval", intervals.Normalize(q.Interval))
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultKlinesLimit)))
	if q.StartTime > 0 {
		query.Set("start", strconv.FormatInt(q.StartTime, 10))
	}
	if q.EndTime > 0 {
		query.Set("end", strconv.FormatInt(q.EndTime, 10))
	}

	var result struct {
		List [][]json.RawMessage `json:"list"`
	}
	if _, err := c.get(ctx, "/v5/market/kline", query, &result); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(result.List))
	for i, row := range result.List {
		candle, err := decodeKline(row)
		if err != nil {
			return nil, xhttp.UnexpectedPayloadErrorf("%s: kline %d: %v", Name, i, err)
		}
		candles = append(candles, candle)
	}
	// Bybit lists newest first.
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	return candles, nil
}

// OrderBook returns a depth snapshot.
func (c *Client) OrderBook(ctx context.Context, q models.MarketQuery) (*models.OrderBook, error) {
	category, symbol, err := c.resolve(q, models.OpOrderBook)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("category", category)
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultDepthLimit)))

	var result struct {
		Symbol   string              `json:"s"`
		Bids     []models.PriceLevel `json:"b"`
		Asks     []models.PriceLevel `json:"a"`
		TS       int64               `json:"ts"`
		UpdateID int64               `json:"u"`
	}
	book := models.EmptyOrderBook(symbol)
	found, err := c.get(ctx, "/v5/market/orderbook", query, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return book, nil
	}

	book.UpdateID = result.UpdateID
	if result.Bids != nil {
		book.Bids = result.Bids
	}
	if result.Asks != nil {
		book.Asks = result.Asks
	}
	if result.TS > 0 {
		ts := xutil.UnixMilli(result.TS)
		book.Timestamp = &ts
	}
	return book, nil
}

// Trades returns recent public trades.
func (c *Client) Trades(ctx context.Context, q models.MarketQuery) ([]models.Trade, error) {
	category, symbol, err := c.resolve(q, models.OpTrades)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("category", category)
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultTradesLimit)))

	var result struct {
		List []struct {
			ExecID string          `json:"execId"`
			Price  decimal.Decimal `json:"price"`
			Size   decimal.Decimal `json:"size"`
			Side   string          `json:"side"`
			Time   json.RawMessage `json:"time"`
		} `json:"list"`
	}
	if _, err := c.get(ctx, "/v5/market/recent-trade", query, &result); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(result.List))
	for _, t := range result.List {
		ts, err := upstream.Millis(t.Time)
		if err != nil {
			return nil, xhttp.UnexpectedPayloadErrorf("%s: trade %s: %v", Name, t.ExecID, err)
		}
		trades = append(trades, models.Trade{
			ID:    t.ExecID,
			Price: t.Price,
			Size:  t.Size,
			Side:  models.Side(strings.ToLower(t.Side)),
			Time:  ts,
		})
	}
	return trades, nil
}

// decodeKline reads [startTime, open, high, low, close, volume, turnover].
func decodeKline(row []json.RawMessage) (models.Candle, error) {
	if len(row) < 7 {
		return models.Candle{}, fmt.Errorf("expected 7 fields, got %d", len(row))
	}

	var (
		c   models.Candle
		err error
	)
	if c.OpenTime, err = upstream.Millis(row[0]); err != nil {
		return c, err
	}
	fields := []*decimal.Decimal{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.QuoteVolume}
	for i, f := range fields {
		if *f, err = upstream.Decimal(row[i+1]); err != nil {
			return c, err
		}
	}
	return c, nil
}
