package di

import (
	"context"
	"fmt"
	"time"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/domain/repository"
	"MarketAtlas/internal/handler/api"
	internalrepo "MarketAtlas/internal/repository"
	"MarketAtlas/internal/service/binance"
	"MarketAtlas/internal/service/bybit"
	"MarketAtlas/internal/service/cache"
	"MarketAtlas/internal/service/coinmarketcap"
	"MarketAtlas/internal/service/news"
	"MarketAtlas/internal/service/ratelimit"
	"MarketAtlas/internal/service/upstream"
	"MarketAtlas/internal/usecase"
	"MarketAtlas/pkg/config"
	xhttp "MarketAtlas/pkg/http"
	pkgkafka "MarketAtlas/pkg/kafka"
	"MarketAtlas/pkg/logger"
	"MarketAtlas/pkg/metrics"
	"MarketAtlas/pkg/server"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideHTTPClient creates the shared upstream transport.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Upstream.Timeout),
		xhttp.WithUserAgent(cfg.Upstream.UserAgent),
	)
}

// ProvideBinanceClient creates the Binance adapter over its spot and futures host sets.
func ProvideBinanceClient(cfg *config.Config, client *xhttp.Client, log *logger.Logger) (*binance.Client, error) {
	spot, err := upstream.NewHostSet(binance.Name+".spot", cfg.Binance.SpotHosts, log)
	if err != nil {
		return nil, err
	}
	futures, err := upstream.NewHostSet(binance.Name+".futures", cfg.Binance.FuturesHosts, log)
	if err != nil {
		return nil, err
	}
	return binance.NewClient(client, spot, futures), nil
}

// ProvideBybitClient creates the Bybit adapter.
func ProvideBybitClient(cfg *config.Config, client *xhttp.Client, log *logger.Logger) (*bybit.Client, error) {
	hosts, err := upstream.NewHostSet(bybit.Name, cfg.Bybit.Hosts, log)
	if err != nil {
		return nil, err
	}
	return bybit.NewClient(client, hosts), nil
}

// ProvideCoinMarketCapClient creates the aggregator adapter. A missing key fails at call time.
func ProvideCoinMarketCapClient(cfg *config.Config, client *xhttp.Client, log *logger.Logger) (*coinmarketcap.Client, error) {
	hosts, err := upstream.NewHostSet(coinmarketcap.Name, []string{cfg.CoinMarketCap.BaseURL}, log)
	if err != nil {
		return nil, err
	}
	if cfg.CoinMarketCap.APIKey == "" {
		log.Warn("coinmarketcap api key not configured", logger.String("env", coinmarketcap.CredentialName))
	}
	return coinmarketcap.NewClient(client, hosts, cfg.CoinMarketCap.APIKey), nil
}

// ProvideNewsRegistry builds the source registry from config.
func ProvideNewsRegistry(cfg *config.Config) (*news.Registry, error) {
	sources := make([]models.NewsSource, 0, len(cfg.News.Sources))
	for _, s := range cfg.News.Sources {
		sources = append(sources, models.NewsSource{
			ID:     s.ID,
			Label:  s.Label,
			Weight: s.Weight,
			Focus:  s.Focus,
			Feed:   s.Feed,
		})
	}
	r, err := news.NewRegistry(sources)
	if err != nil {
		return nil, fmt.Errorf("news registry: %w", err)
	}
	return r, nil
}

// ProvideFeedFetcher creates the news feed fetcher.
func ProvideFeedFetcher(client *xhttp.Client) *news.Fetcher {
	return news.NewFetcher(client)
}

// ProvideReportPublisher creates the Kafka failure-event publisher, or a no-op when Kafka is disabled.
func ProvideReportPublisher(cfg *config.Config, log *logger.Logger) (repository.ReportPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithKeyOrdering(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	log.Info("kafka publisher ready", logger.Strings("brokers", cfg.Kafka.Brokers), logger.String("topic", cfg.Kafka.Topic))
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("kafka publisher close error", logger.Error(err))
		}
	}, nil
}

// ProvideBytesCache creates the response store selected by cache.backend. "none" yields nil.
func ProvideBytesCache(cfg *config.Config, log *logger.Logger) (cache.BytesCache, func(), error) {
	switch cfg.Cache.Backend {
	case "none":
		return nil, func() {}, nil
	case "redis":
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis cache unreachable at startup", logger.String("addr", cfg.Cache.Redis.Addr), logger.Error(err))
		}
		var store cache.BytesCache = rc
		if cfg.Cache.L1TTL > 0 {
			store = cache.NewLayeredCache(rc, cfg.Cache.L1TTL)
		}
		return store, func() {
			if err := rc.Close(); err != nil {
				log.Warn("redis close error", logger.Error(err))
			}
		}, nil
	default:
		return cache.NewTTLCache(), func() {}, nil
	}
}

// ProvideResponseCache wraps the store with load collapsing.
func ProvideResponseCache(store cache.BytesCache, log *logger.Logger) *cache.ResponseCache {
	return cache.NewResponseCache(store, log)
}

// ProvideMarketDataUseCase creates the single-operation dispatcher.
func ProvideMarketDataUseCase(
	quotes *coinmarketcap.Client,
	m repository.Metrics,
	bn *binance.Client,
	bb *bybit.Client,
) *usecase.MarketDataUseCase {
	return usecase.NewMarketDataUseCase(quotes, m, bn, bb)
}

// ProvideMarketSnapshotUseCase creates the cross-exchange snapshot use case.
func ProvideMarketSnapshotUseCase(
	bb *bybit.Client,
	bn *binance.Client,
	quotes *coinmarketcap.Client,
	m repository.Metrics,
	pub repository.ReportPublisher,
	log *logger.Logger,
) *usecase.MarketSnapshotUseCase {
	return usecase.NewMarketSnapshotUseCase(bb, bn, quotes, m, pub, log)
}

// ProvideNewsUseCase creates the news aggregate use case.
func ProvideNewsUseCase(
	cfg *config.Config,
	registry *news.Registry,
	fetcher *news.Fetcher,
	m repository.Metrics,
	pub repository.ReportPublisher,
	log *logger.Logger,
) *usecase.NewsUseCase {
	return usecase.NewNewsUseCase(registry, fetcher, m, pub, log,
		usecase.WithNewsLimits(cfg.News.LimitPerSource, cfg.News.MaxItems),
	)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	log *logger.Logger,
	market *usecase.MarketDataUseCase,
	snapshot *usecase.MarketSnapshotUseCase,
	newsUC *usecase.NewsUseCase,
	rc *cache.ResponseCache,
) *api.Handler {
	return api.NewHandler(log, market, snapshot, newsUC, rc, api.CacheTTLs{
		Market: cfg.Cache.MarketTTL,
		News:   cfg.Cache.NewsTTL,
		Quotes: cfg.Cache.QuotesTTL,
	})
}

// ProvideHTTPServer creates the echo server with the configured middleware.
func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, h *api.Handler) *xhttp.Server {
	var extra []echo.MiddlewareFunc
	if cfg.RateLimit.Enabled {
		extra = append(extra, ratelimit.Middleware(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}
	return xhttp.NewServer(log, h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithMiddleware(extra...),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *logger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, log, srv)
}
