package usecase

import (
	"context"
	"testing"

	"MarketAtlas/internal/domain/models"
	xhttp "MarketAtlas/pkg/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMarketData(t *testing.T) (*MarketDataUseCase, *snapshotDeps) {
	d, _ := newSnapshotDeps(t)
	return NewMarketDataUseCase(d.quotes, nil, d.bybit, d.binance), d
}

func TestMarketData_ExchangeDispatch(t *testing.T) {
	uc, d := newMarketData(t)
	ctx := context.Background()

	q := models.MarketQuery{Market: models.MarketSpot, Symbol: "btcusdt", Interval: "15m", Limit: 10}
	d.binance.EXPECT().Klines(gomock.Any(), q).Return(sampleCandles(), nil)
	res, err := uc.Exchange(ctx, "Binance", "klines", q)
	require.NoError(t, err)
	assert.Equal(t, "binance", res.Source)
	assert.Equal(t, models.MarketSpot, res.Market)
	assert.Equal(t, models.OpKlines, res.Metric)
	assert.Equal(t, "BTCUSDT", res.Symbol)

	fq := models.MarketQuery{Market: models.MarketFutures, Symbol: "ETHUSDT"}
	d.bybit.EXPECT().OrderBook(gomock.Any(), fq).Return(sampleBook("ETHUSDT"), nil)
	res, err = uc.Exchange(ctx, "bybit", "orderbook", models.MarketQuery{Symbol: "ETHUSDT"})
	require.NoError(t, err)
	assert.IsType(t, &models.OrderBook{}, res.Data)

	d.bybit.EXPECT().Trades(gomock.Any(), fq).Return(nil, xhttp.UpstreamRejectedErrorf("bybit: 10001 params error"))
	_, err = uc.Exchange(ctx, "bybit", "trades", fq)
	assert.ErrorIs(t, err, xhttp.ErrUpstreamRejected)
}

func TestMarketData_ExchangeErrors(t *testing.T) {
	uc, _ := newMarketData(t)
	ctx := context.Background()
	q := models.MarketQuery{Symbol: "BTCUSDT"}

	_, err := uc.Exchange(ctx, "kraken", "klines", q)
	assert.ErrorIs(t, err, xhttp.ErrNotFound)

	_, err = uc.Exchange(ctx, "binance", "funding", q)
	assert.ErrorIs(t, err, xhttp.ErrUnsupportedOperation)

	_, err = uc.Exchange(ctx, "binance", "klines", models.MarketQuery{})
	assert.ErrorIs(t, err, xhttp.ErrInvalidParameter)
}

func TestMarketData_Aggregator(t *testing.T) {
	uc, d := newMarketData(t)
	ctx := context.Background()

	d.quotes.EXPECT().Quotes(gomock.Any(), []string{"BTC", "eth"}, "EUR").
		Return(map[string]models.Quote{"BTC": {Symbol: "BTC"}}, nil)
	res, err := uc.Aggregator(ctx, "quotes", " BTC, ,eth ", "eur")
	require.NoError(t, err)
	assert.Equal(t, "coinmarketcap", res.Source)
	assert.Equal(t, models.OpQuotes, res.Metric)
	assert.Equal(t, "EUR", res.Convert)

	d.quotes.EXPECT().GlobalMetrics(gomock.Any(), "USD").
		Return(&models.GlobalMetrics{BTCDominance: decimal.RequireFromString("52.1")}, nil)
	res, err = uc.Aggregator(ctx, "global-metrics", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.OpGlobalMetrics, res.Metric)

	_, err = uc.Aggregator(ctx, "listings", "", "USD")
	assert.ErrorIs(t, err, xhttp.ErrUnsupportedOperation)
}

func TestMarketData_AggregatorEmptySymbolsPropagate(t *testing.T) {
	uc, d := newMarketData(t)

	d.quotes.EXPECT().Quotes(gomock.Any(), []string{}, "USD").
		Return(nil, xhttp.InvalidParameterError("symbols", "at least one symbol is required"))
	_, err := uc.Aggregator(context.Background(), "", " , ", "usd")
	assert.ErrorIs(t, err, xhttp.ErrInvalidParameter)
}
