package repository

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mock.go -package=mocks

import (
	"context"

	"MarketAtlas/internal/domain/models"
)

// MarketDataProvider is an exchange adapter.
type MarketDataProvider interface {
	Name() string
	Klines(ctx context.Context, q models.MarketQuery) ([]models.Candle, error)
	OrderBook(ctx context.Context, q models.MarketQuery) (*models.OrderBook, error)
	Trades(ctx context.Context, q models.MarketQuery) ([]models.Trade, error)
}

// QuotesProvider is the market-data aggregator adapter.
type QuotesProvider interface {
	Quotes(ctx context.Context, symbols []string, convert string) (map[string]models.Quote, error)
	GlobalMetrics(ctx context.Context, convert string) (*models.GlobalMetrics, error)
}

// FeedFetcher fetches and normalizes one news source.
type FeedFetcher interface {
	FetchSource(ctx context.Context, src models.NewsSource, limit int) ([]models.NormalizedArticle, error)
}

// SourceRegistry is the read-only news source lookup.
type SourceRegistry interface {
	Lookup(id string) (models.NewsSource, bool)
	All() []models.NewsSource
	IDs() []string
}

// ReportPublisher ships per-source failures out of band.
type ReportPublisher interface {
	PublishSourceErrors(ctx context.Context, kind string, errs []models.SourceError) error
	Close() error
}

// Metrics records upstream outcomes.
type Metrics interface {
	RecordUpstream(source, result string)
	RecordError(kind string)
	RecordItems(source string, n int)
	RecordLatency(op string, seconds float64)
}
