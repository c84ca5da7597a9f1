package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
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
const Name = "binance"

const (
	DefaultKlinesLimit = 200
	DefaultDepthLimit  = 100
	DefaultTradesLimit = 200
)

// Binance uses the unified interval vocabulary natively.
var intervals = repository.NewIntervalMapper(nil, string(repository.Interval1h))

type market struct {
	hosts  *upstream.HostSet
	prefix string
}

// Client is the Binance spot and USD-M futures adapter.
type Client struct {
	http    upstream.Getter
	markets map[models.Market]market
}

// NewClient wires the adapter. A nil host set disables that market.
func NewClient(http upstream.Getter, spot, futures *upstream.HostSet) *Client {
	c := &Client{http: http, markets: make(map[models.Market]market, 2)}
	if spot != nil {
		c.markets[models.MarketSpot] = market{hosts: spot, prefix: "/api/v3"}
	}
	if futures != nil {
		c.markets[models.MarketFutures] = market{hosts: futures, prefix: "/fapi/v1"}
	}
	return c
}

// Name implements repository.MarketDataProvider.
func (c *Client) Name() string { return Name }

func (c *Client) resolve(q models.MarketQuery, op models.Operation) (market, string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(q.Symbol))
	if symbol == "" {
		return market{}, "", xhttp.InvalidParameterError("symbol", "symbol is required")
	}
	mk := q.Market
	if mk == "" {
		mk = models.MarketFutures
	}
	m, ok := c.markets[mk]
	if !ok {
		return market{}, "", xhttp.UnsupportedOperationErrorf("%s: %s is not supported for market %q", Name, op, mk)
	}
	return m, symbol, nil
}

func (c *Client) get(ctx context.Context, m market, path string, query url.Values, dest interface{}) error {
	resp, err := m.hosts.Get(ctx, c.http, m.prefix+path, query, nil)
	if err != nil {
		return err
	}
	return resp.DecodeJSON(dest)
}

// Klines returns candles oldest first.
func (c *Client) Klines(ctx context.Context, q models.MarketQuery) ([]models.Candle, error) {
	m, symbol, err := c.resolve(q, models.OpKlines)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("interval", intervals.Normalize(q.Interval))
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultKlinesLimit)))
	if q.StartTime > 0 {
		query.Set("startTime", strconv.FormatInt(q.StartTime, 10))
	}
	if q.EndTime > 0 {
		query.Set("endTime", strconv.FormatInt(q.EndTime, 10))
	}

	var rows [][]json.RawMessage
	if err := c.get(ctx, m, "/klines", query, &rows); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := decodeKline(row)
		if err != nil {
			return nil, xhttp.UnexpectedPayloadErrorf("%s: kline %d: %v", Name, i, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// OrderBook returns a depth snapshot.
func (c *Client) OrderBook(ctx context.Context, q models.MarketQuery) (*models.OrderBook, error) {
	m, symbol, err := c.resolve(q, models.OpOrderBook)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultDepthLimit)))

	var raw depthResponse
	if err := c.get(ctx, m, "/depth", query, &raw); err != nil {
		return nil, err
	}

	book := models.EmptyOrderBook(symbol)
	book.UpdateID = raw.LastUpdateID
	if raw.Bids != nil {
		book.Bids = raw.Bids
	}
	if raw.Asks != nil {
		book.Asks = raw.Asks
	}
	if raw.EventTime > 0 {
		ts := xutil.UnixMilli(raw.EventTime)
		book.Timestamp = &ts
	}
	return book, nil
}

// Trades returns recent public trades.
func (c *Client) Trades(ctx context.Context, q models.MarketQuery) ([]models.Trade, error) {
	m, symbol, err := c.resolve(q, models.OpTrades)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(upstream.LimitOr(q.Limit, DefaultTradesLimit)))

	var raw []tradeResponse
	if err := c.get(ctx, m, "/trades", query, &raw); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(raw))
	for _, t := range raw {
		side := models.SideBuy
		if t.IsBuyerMaker {
			side = models.SideSell
		}
		trades = append(trades, models.Trade{
			ID:    strconv.FormatInt(t.ID, 10),
			Price: t.Price,
			Size:  t.Qty,
			Side:  side,
			Time:  xutil.UnixMilli(t.Time),
		})
	}
	return trades, nil
}

type depthResponse struct {
	LastUpdateID int64               `json:"lastUpdateId"`
	EventTime    int64               `json:"E"`
	Bids         []models.PriceLevel `json:"bids"`
	Asks         []models.PriceLevel `json:"asks"`
}

type tradeResponse struct {
	ID           int64           `json:"id"`
	Price        decimal.Decimal `json:"price"`
	Qty          decimal.Decimal `json:"qty"`
	Time         int64           `json:"time"`
	IsBuyerMaker bool            `json:"isBuyerMaker"`
}

// decodeKline reads [openTime, open, high, low, close, volume, closeTime, quoteVolume, trades, ...].
func decodeKline(row []json.RawMessage) (models.Candle, error) {
	if len(row) < 9 {
		return models.Candle{}, fmt.Errorf("expected at least 9 fields, got %d", len(row))
	}

	var (
		c   models.Candle
		err error
	)
	if c.OpenTime, err = upstream.Millis(row[0]); err != nil {
		return c, err
	}
	prices := []*decimal.Decimal{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
	for i, p := range prices {
		if *p, err = upstream.Decimal(row[i+1]); err != nil {
			return c, err
		}
	}
	closeTime, err := upstream.Millis(row[6])
	if err != nil {
		return c, err
	}
	c.CloseTime = &closeTime
	if c.QuoteVolume, err = upstream.Decimal(row[7]); err != nil {
		return c, err
	}
	if c.Trades, err = upstream.Int64(row[8]); err != nil {
		return c, err
	}
	return c, nil
}
