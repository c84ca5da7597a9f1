package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/service/upstream"
	xhttp "MarketAtlas/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, body string, check func(r *http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	hs, err := upstream.NewHostSet(Name, []string{srv.URL}, nil)
	require.NoError(t, err)
	return NewClient(xhttp.NewClient(), hs)
}

func TestClient_KlinesUnwrapsAndOrders(t *testing.T) {
	c := newTestClient(t, `{"retCode":0,"retMsg":"OK","result":{"category":"linear","symbol":"BTCUSDT","list":[
		["1700003600000","37050","37200","37000","37150","10.5","389000"],
		["1700000000000","37000","37100","36900","37050","12","444000"]
	]}}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v5/market/kline", r.URL.Path)
		assert.Equal(t, "linear", q.Get("category"))
		assert.Equal(t, "D", q.Get("interval"))
		assert.Equal(t, "200", q.Get("limit"))
	})

	candles, err := c.Klines(context.Background(), models.MarketQuery{Symbol: "BTCUSDT", Interval: "1d"})

	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000000), candles[0].OpenTime.UnixMilli())
	assert.Equal(t, "444000", candles[0].QuoteVolume.String())
	assert.Nil(t, candles[0].CloseTime)
	assert.Equal(t, int64(1700003600000), candles[1].OpenTime.UnixMilli())
}

func TestClient_IntervalMapping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1h", "60"},
		{"4h", "240"},
		{"1w", "W"},
		{"1M", "M"},
		{"15", "15"},
		{"", "60"},
		{"banana", "60"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := newTestClient(t, `{"retCode":0,"result":{"list":[]}}`, func(r *http.Request) {
				assert.Equal(t, tt.want, r.URL.Query().Get("interval"))
			})
			_, err := c.Klines(context.Background(), models.MarketQuery{Symbol: "BTCUSDT", Interval: tt.in})
			require.NoError(t, err)
		})
	}
}

func TestClient_MissingResultIsEmpty(t *testing.T) {
	c := newTestClient(t, `{"retCode":0,"retMsg":"OK"}`, nil)

	candles, err := c.Klines(context.Background(), models.MarketQuery{Symbol: "BTCUSDT"})
	require.NoError(t, err)
	assert.NotNil(t, candles)
	assert.Empty(t, candles)

	trades, err := c.Trades(context.Background(), models.MarketQuery{Symbol: "BTCUSDT"})
	require.NoError(t, err)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)

	book, err := c.OrderBook(context.Background(), models.MarketQuery{Symbol: "BTCUSDT"})
	require.NoError(t, err)
	assert.NotNil(t, book.Bids)
	assert.NotNil(t, book.Asks)
	assert.Equal(t, "BTCUSDT", book.Symbol)
}

func TestClient_RetCodeRejected(t *testing.T) {
	c := newTestClient(t, `{"retCode":10001,"retMsg":"params error: symbol invalid","result":{}}`, nil)

	_, err := c.Trades(context.Background(), models.MarketQuery{Symbol: "NOPE"})

	require.Error(t, err)
	assert.ErrorIs(t, err, xhttp.ErrUpstreamRejected)
	assert.Contains(t, err.Error(), "symbol invalid")
}

func TestClient_OrderBook(t *testing.T) {
	c := newTestClient(t, `{"retCode":0,"result":{"s":"BTCUSDT","b":[["65485.47","47.081829"]],"a":[["65557.7","16.606555"],["65558","1"]],"ts":1716863719031,"u":230704,"seq":1432604333}}`,
		func(r *http.Request) {
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
		})

	book, err := c.OrderBook(context.Background(), models.MarketQuery{Symbol: "BTCUSDT"})

	require.NoError(t, err)
	require.Len(t, book.Bids, 1)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, "65485.47", book.Bids[0].Price.String())
	assert.Equal(t, int64(230704), book.UpdateID)
	require.NotNil(t, book.Timestamp)
	assert.Equal(t, int64(1716863719031), book.Timestamp.UnixMilli())
}

func TestClient_Trades(t *testing.T) {
	c := newTestClient(t, `{"retCode":0,"result":{"category":"spot","list":[
		{"execId":"2100000000007764263","symbol":"BTCUSDT","price":"16618.49","size":"0.00012","side":"Buy","time":"1672052955758","isBlockTrade":false}
	]}}`, func(r *http.Request) {
		assert.Equal(t, "spot", r.URL.Query().Get("category"))
	})

	trades, err := c.Trades(context.Background(), models.MarketQuery{Market: models.MarketSpot, Symbol: "BTCUSDT", Limit: 5})

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, models.SideBuy, trades[0].Side)
	assert.Equal(t, "0.00012", trades[0].Size.String())
	assert.Equal(t, int64(1672052955758), trades[0].Time.UnixMilli())
}

func TestClient_UnsupportedMarket(t *testing.T) {
	c := newTestClient(t, `{}`, nil)

	_, err := c.Klines(context.Background(), models.MarketQuery{Market: "options", Symbol: "BTCUSDT"})
	assert.ErrorIs(t, err, xhttp.ErrUnsupportedOperation)
}
