package usecase

import (
	"context"
	"strings"

	"MarketAtlas/internal/domain/models"
	domrepo "MarketAtlas/internal/domain/repository"
	xhttp "MarketAtlas/pkg/http"
	"MarketAtlas/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	defaultSnapshotLimit    = 200
	defaultSnapshotInterval = "1h"
	defaultConvert          = "USD"

	bybitDepth       = 50
	bybitMaxTrades   = 200
	binanceDepth     = 100
	binanceMaxTrades = 1000
)

// MarketSnapshotUseCase fans one symbol out across both exchanges and the quotes provider.
type MarketSnapshotUseCase struct {
	bybit   domrepo.MarketDataProvider
	binance domrepo.MarketDataProvider
	quotes  domrepo.QuotesProvider
	metrics domrepo.Metrics
	pub     domrepo.ReportPublisher
	log     *logger.Logger
}

func NewMarketSnapshotUseCase(
	bybit domrepo.MarketDataProvider,
	binance domrepo.MarketDataProvider,
	quotes domrepo.QuotesProvider,
	metrics domrepo.Metrics,
	pub domrepo.ReportPublisher,
	log *logger.Logger,
) *MarketSnapshotUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MarketSnapshotUseCase{
		bybit:   bybit,
		binance: binance,
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		pub:     pub,
		log:     log,
	}
}

type SnapshotParams struct {
	Symbol   string
	Interval string
	Limit    int
	Convert  string
}

// Snapshot never fails because of an upstream: failed slots are nil and named in Errors.
func (uc *MarketSnapshotUseCase) Snapshot(ctx context.Context, p SnapshotParams) (*models.MarketReport, error) {
	p.Symbol = strings.TrimSpace(p.Symbol)
	if p.Symbol == "" {
		return nil, xhttp.InvalidParameterError("symbol", "symbol is required")
	}
	if p.Interval == "" {
		p.Interval = defaultSnapshotInterval
	}
	if p.Limit <= 0 {
		p.Limit = defaultSnapshotLimit
	}
	if p.Convert == "" {
		p.Convert = defaultConvert
	}

	query := func(limit int) models.MarketQuery {
		return models.MarketQuery{
			Market:   models.MarketFutures,
			Symbol:   p.Symbol,
			Interval: p.Interval,
			Limit:    limit,
		}
	}

	var (
		bybitKlines   Outcome[[]models.Candle]
		bybitBook     Outcome[*models.OrderBook]
		bybitTrades   Outcome[[]models.Trade]
		binanceKlines Outcome[[]models.Candle]
		binanceBook   Outcome[*models.OrderBook]
		binanceTrades Outcome[[]models.Trade]
		quotes        Outcome[map[string]models.Quote]
		g             errgroup.Group
	)
	quoteSymbols := []string{quoteSymbol(p.Symbol)}

	g.Go(func() error {
		bybitKlines = settle(ctx, uc.metrics, fmtSource(uc.bybit.Name(), models.OpKlines), func(ctx context.Context) ([]models.Candle, error) {
			return uc.bybit.Klines(ctx, query(p.Limit))
		})
		return nil
	})
	g.Go(func() error {
		bybitBook = settle(ctx, uc.metrics, fmtSource(uc.bybit.Name(), models.OpOrderBook), func(ctx context.Context) (*models.OrderBook, error) {
			return uc.bybit.OrderBook(ctx, query(bybitDepth))
		})
		return nil
	})
	g.Go(func() error {
		bybitTrades = settle(ctx, uc.metrics, fmtSource(uc.bybit.Name(), models.OpTrades), func(ctx context.Context) ([]models.Trade, error) {
			return uc.bybit.Trades(ctx, query(min(p.Limit, bybitMaxTrades)))
		})
		return nil
	})
	g.Go(func() error {
		binanceKlines = settle(ctx, uc.metrics, fmtSource(uc.binance.Name(), models.OpKlines), func(ctx context.Context) ([]models.Candle, error) {
			return uc.binance.Klines(ctx, query(p.Limit))
		})
		return nil
	})
	g.Go(func() error {
		binanceBook = settle(ctx, uc.metrics, fmtSource(uc.binance.Name(), models.OpOrderBook), func(ctx context.Context) (*models.OrderBook, error) {
			return uc.binance.OrderBook(ctx, query(binanceDepth))
		})
		return nil
	})
	g.Go(func() error {
		binanceTrades = settle(ctx, uc.metrics, fmtSource(uc.binance.Name(), models.OpTrades), func(ctx context.Context) ([]models.Trade, error) {
			return uc.binance.Trades(ctx, query(min(p.Limit, binanceMaxTrades)))
		})
		return nil
	})
	g.Go(func() error {
		quotes = settle(ctx, uc.metrics, fmtSource(quotesSource, models.OpQuotes), func(ctx context.Context) (map[string]models.Quote, error) {
			return uc.quotes.Quotes(ctx, quoteSymbols, p.Convert)
		})
		return nil
	})
	_ = g.Wait()

	errs := sourceErrors(
		failureOf(bybitKlines),
		failureOf(bybitBook),
		failureOf(bybitTrades),
		failureOf(binanceKlines),
		failureOf(binanceBook),
		failureOf(binanceTrades),
		failureOf(quotes),
	)
	publishErrors(ctx, uc.pub, uc.log, "market", errs)

	return &models.MarketReport{
		Status: models.NewStatus(errs),
		Errors: errs,
		Data: models.MarketSnapshot{
			Symbol:   p.Symbol,
			Interval: p.Interval,
			Convert:  p.Convert,
			Bybit: models.ExchangeSnapshot{
				Klines:    bybitKlines.Data,
				OrderBook: bybitBook.Data,
				Trades:    bybitTrades.Data,
			},
			Binance: models.ExchangeSnapshot{
				Klines:    binanceKlines.Data,
				OrderBook: binanceBook.Data,
				Trades:    binanceTrades.Data,
			},
			CoinMarketCap: quotes.Data,
		},
	}, nil
}

// quotesSource labels the quotes slot of a snapshot.
const quotesSource = "coinmarketcap"

// quoteSymbol strips a trailing USDT, case-insensitively.
func quoteSymbol(symbol string) string {
	const suffix = "USDT"
	if len(symbol) >= len(suffix) && strings.EqualFold(symbol[len(symbol)-len(suffix):], suffix) {
		return symbol[:len(symbol)-len(suffix)]
	}
	return symbol
}
