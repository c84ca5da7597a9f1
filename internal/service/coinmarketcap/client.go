package coinmarketcap

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/service/upstream"
	xhttp "MarketAtlas/pkg/http"

	"github.com/shopspring/decimal"
)

// Name is the provider id used in source labels.
const Name = "coinmarketcap"

// DefaultConvert is used when no convert currency is given.
const DefaultConvert = "USD"

// CredentialName is the setting that carries the API key.
const CredentialName = "CMC_API_KEY"

const apiKeyHeader = "X-CMC_PRO_API_KEY"

// Client is the aggregator API adapter.
type Client struct {
	http   upstream.Getter
	hosts  *upstream.HostSet
	apiKey string
}

// NewClient wires the adapter. An empty apiKey is only reported when a call is made.
func NewClient(http upstream.Getter, hosts *upstream.HostSet, apiKey string) *Client {
	return &Client{http: http, hosts: hosts, apiKey: strings.TrimSpace(apiKey)}
}

type status struct {
	ErrorCode    int     `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type envelope struct {
	Status status          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) headers() (map[string]string, error) {
	if c.apiKey == "" {
		return nil, xhttp.MissingCredentialError(CredentialName)
	}
	return map[string]string{apiKeyHeader: c.apiKey}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	headers, err := c.headers()
	if err != nil {
		return err
	}

	resp, err := c.hosts.Get(ctx, c.http, path, query, headers)
	if err != nil {
		return err
	}

	var env envelope
	if err := resp.DecodeJSON(&env); err != nil {
		return err
	}
	if env.Status.ErrorCode != 0 {
		msg := "unknown error"
		if env.Status.ErrorMessage != nil {
			msg = *env.Status.ErrorMessage
		}
		return xhttp.UpstreamRejectedErrorf("%s: %s (error_code %d)", Name, msg, env.Status.ErrorCode).
			WithParam("errorCode", env.Status.ErrorCode)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return xhttp.UnexpectedPayloadErrorf("%s: response has no data", Name)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return xhttp.UnexpectedPayloadErrorf("%s: decode data: %v", Name, err)
	}
	return nil
}

// Quotes returns the latest quotes keyed by symbol.
func (c *Client) Quotes(ctx context.Context, symbols []string, convert string) (map[string]models.Quote, error) {
	clean := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return nil, xhttp.InvalidParameterError("symbols", "at least one symbol is required")
	}

	query := url.Values{}
	query.Set("symbol", strings.Join(clean, ","))
	query.Set("convert", normalizeConvert(convert))

	var data map[string]quoteWire
	if err := c.get(ctx, "/v1/cryptocurrency/quotes/latest", query, &data); err != nil {
		return nil, err
	}

	out := make(map[string]models.Quote, len(data))
	for sym, q := range data {
		out[sym] = q.toModel()
	}
	return out, nil
}

// GlobalMetrics returns market-wide metrics.
func (c *Client) GlobalMetrics(ctx context.Context, convert string) (*models.GlobalMetrics, error) {
	query := url.Values{}
	query.Set("convert", normalizeConvert(convert))

	var data globalWire
	if err := c.get(ctx, "/v1/global-metrics/quotes/latest", query, &data); err != nil {
		return nil, err
	}
	gm := data.toModel()
	return &gm, nil
}

func normalizeConvert(convert string) string {
	convert = strings.ToUpper(strings.TrimSpace(convert))
	if convert == "" {
		return DefaultConvert
	}
	return convert
}

type quoteWire struct {
	ID                int64                     `json:"id"`
	Name              string                    `json:"name"`
	Symbol            string                    `json:"symbol"`
	Slug              string                    `json:"slug"`
	CMCRank           int                       `json:"cmc_rank"`
	CirculatingSupply decimal.Decimal           `json:"circulating_supply"`
	TotalSupply       decimal.Decimal           `json:"total_supply"`
	MaxSupply         decimal.NullDecimal       `json:"max_supply"`
	LastUpdated       time.Time                 `json:"last_updated"`
	Quote             map[string]quotePriceWire `json:"quote"`
}

type quotePriceWire struct {
	Price            decimal.Decimal `json:"price"`
	Volume24h        decimal.Decimal `json:"volume_24h"`
	PercentChange1h  decimal.Decimal `json:"percent_change_1h"`
	PercentChange24h decimal.Decimal `json:"percent_change_24h"`
	PercentChange7d  decimal.Decimal `json:"percent_change_7d"`
	MarketCap        decimal.Decimal `json:"market_cap"`
	LastUpdated      time.Time       `json:"last_updated"`
}

func (w quoteWire) toModel() models.Quote {
	q := models.Quote{
		ID:                w.ID,
		Name:              w.Name,
		Symbol:            w.Symbol,
		Slug:              w.Slug,
		Rank:              w.CMCRank,
		CirculatingSupply: w.CirculatingSupply,
		TotalSupply:       w.TotalSupply,
		MaxSupply:         w.MaxSupply,
		LastUpdated:       w.LastUpdated,
		Quote:             make(map[string]models.QuotePrice, len(w.Quote)),
	}
	for cur, p := range w.Quote {
		q.Quote[cur] = models.QuotePrice(p)
	}
	return q
}

type globalWire struct {
	ActiveCryptocurrencies int                        `json:"active_cryptocurrencies"`
	ActiveExchanges        int                        `json:"active_exchanges"`
	ActiveMarketPairs      int                        `json:"active_market_pairs"`
	BTCDominance           decimal.Decimal            `json:"btc_dominance"`
	ETHDominance           decimal.Decimal            `json:"eth_dominance"`
	LastUpdated            time.Time                  `json:"last_updated"`
	Quote                  map[string]globalQuoteWire `json:"quote"`
}

type globalQuoteWire struct {
	TotalMarketCap   decimal.Decimal `json:"total_market_cap"`
	TotalVolume24h   decimal.Decimal `json:"total_volume_24h"`
	AltcoinMarketCap decimal.Decimal `json:"altcoin_market_cap"`
	LastUpdated      time.Time       `json:"last_updated"`
}

func (w globalWire) toModel() models.GlobalMetrics {
	gm := models.GlobalMetrics{
		ActiveCryptocurrencies: w.ActiveCryptocurrencies,
		ActiveExchanges:        w.ActiveExchanges,
		ActiveMarketPairs:      w.ActiveMarketPairs,
		BTCDominance:           w.BTCDominance,
		ETHDominance:           w.ETHDominance,
		LastUpdated:            w.LastUpdated,
		Quote:                  make(map[string]models.GlobalQuote, len(w.Quote)),
	}
	for cur, q := range w.Quote {
		gm.Quote[cur] = models.GlobalQuote(q)
	}
	return gm
}
