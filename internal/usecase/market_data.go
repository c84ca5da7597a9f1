package usecase

import (
	"context"
	"strings"
	"time"

	"MarketAtlas/internal/domain/models"
	domrepo "MarketAtlas/internal/domain/repository"
	xhttp "MarketAtlas/pkg/http"
	xutil "MarketAtlas/pkg/util"
)

// MarketDataUseCase dispatches single operations to one provider. Upstream errors propagate.
type MarketDataUseCase struct {
	exchanges map[string]domrepo.MarketDataProvider
	quotes    domrepo.QuotesProvider
	metrics   domrepo.Metrics
}

func NewMarketDataUseCase(quotes domrepo.QuotesProvider, metrics domrepo.Metrics, exchanges ...domrepo.MarketDataProvider) *MarketDataUseCase {
	m := make(map[string]domrepo.MarketDataProvider, len(exchanges))
	for _, ex := range exchanges {
		m[ex.Name()] = ex
	}
	return &MarketDataUseCase{exchanges: m, quotes: quotes, metrics: metricsOrNop(metrics)}
}

// Exchange runs metric against the named exchange.
func (uc *MarketDataUseCase) Exchange(ctx context.Context, exchange, metric string, q models.MarketQuery) (*models.ExchangeResult, error) {
	exchange = strings.ToLower(strings.TrimSpace(exchange))
	provider, ok := uc.exchanges[exchange]
	if !ok {
		return nil, xhttp.NotFoundErrorf("unknown exchange %q", exchange)
	}
	if strings.TrimSpace(q.Symbol) == "" {
		return nil, xhttp.InvalidParameterError("symbol", "symbol is required")
	}
	if q.Market == "" {
		q.Market = models.MarketFutures
	}

	op := models.Operation(strings.ToLower(strings.TrimSpace(metric)))
	if op == "" {
		op = models.OpKlines
	}

	var (
		data interface{}
		err  error
	)
	start := time.Now()
	switch op {
	case models.OpKlines:
		data, err = provider.Klines(ctx, q)
	case models.OpOrderBook:
		data, err = provider.OrderBook(ctx, q)
	case models.OpTrades:
		data, err = provider.Trades(ctx, q)
	default:
		return nil, xhttp.UnsupportedOperationErrorf("unsupported %s metric %q", exchange, metric)
	}
	record(uc.metrics, fmtSource(exchange, op), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &models.ExchangeResult{
		Source: exchange,
		Market: q.Market,
		Metric: op,
		Symbol: strings.ToUpper(q.Symbol),
		Data:   data,
	}, nil
}

// Aggregator runs metric against the quotes provider. symbols is a comma separated list.
func (uc *MarketDataUseCase) Aggregator(ctx context.Context, metric, symbols, convert string) (*models.AggregatorResult, error) {
	op := models.Operation(strings.ToLower(strings.TrimSpace(metric)))
	if op == "" {
		op = models.OpQuotes
	}
	convert = strings.ToUpper(strings.TrimSpace(convert))
	if convert == "" {
		convert = defaultConvert
	}

	var (
		data interface{}
		err  error
	)
	start := time.Now()
	switch op {
	case models.OpQuotes:
		data, err = uc.quotes.Quotes(ctx, xutil.SplitList(symbols), convert)
	case models.OpGlobalMetrics:
		data, err = uc.quotes.GlobalMetrics(ctx, convert)
	default:
		return nil, xhttp.UnsupportedOperationErrorf("unsupported %s metric %q", quotesSource, metric)
	}
	record(uc.metrics, fmtSource(quotesSource, op), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &models.AggregatorResult{
		Source:  quotesSource,
		Metric:  op,
		Convert: convert,
		Data:    data,
	}, nil
}
