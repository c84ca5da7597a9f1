package usecase

import (
	"context"
	"sort"
	"strings"

	"MarketAtlas/internal/domain/models"
	domrepo "MarketAtlas/internal/domain/repository"
	xhttp "MarketAtlas/pkg/http"
	"MarketAtlas/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimitPerSource = 20
	DefaultMaxItems       = 100
)

// NewsUseCase aggregates normalized articles across the source registry.
type NewsUseCase struct {
	registry       domrepo.SourceRegistry
	fetcher        domrepo.FeedFetcher
	metrics        domrepo.Metrics
	pub            domrepo.ReportPublisher
	log            *logger.Logger
	limitPerSource int
	maxItems       int
}

// NewsOption configures NewsUseCase.
type NewsOption func(*NewsUseCase)

// WithNewsLimits overrides the default caps. Non-positive values are ignored.
func WithNewsLimits(limitPerSource, maxItems int) NewsOption {
	return func(uc *NewsUseCase) {
		if limitPerSource > 0 {
			uc.limitPerSource = limitPerSource
		}
		if maxItems > 0 {
			uc.maxItems = maxItems
		}
	}
}

func NewNewsUseCase(
	registry domrepo.SourceRegistry,
	fetcher domrepo.FeedFetcher,
	metrics domrepo.Metrics,
	pub domrepo.ReportPublisher,
	log *logger.Logger,
	opts ...NewsOption,
) *NewsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &NewsUseCase{
		registry:       registry,
		fetcher:        fetcher,
		metrics:        metricsOrNop(metrics),
		pub:            pub,
		log:            log,
		limitPerSource: DefaultLimitPerSource,
		maxItems:       DefaultMaxItems,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type NewsParams struct {
	Sources        []string
	LimitPerSource int
	MaxItems       int
}

func (uc *NewsUseCase) limits(p NewsParams) (int, int) {
	limit, maxItems := p.LimitPerSource, p.MaxItems
	if limit <= 0 {
		limit = uc.limitPerSource
	}
	if maxItems <= 0 {
		maxItems = uc.maxItems
	}
	return limit, maxItems
}

// Aggregate fetches every requested source, or the whole registry when none is given.
// Unknown ids and fetch failures are reported in Errors without failing the call.
func (uc *NewsUseCase) Aggregate(ctx context.Context, p NewsParams) (*models.NewsReport, error) {
	ids := normalizeIDs(p.Sources)
	if len(ids) == 0 {
		ids = uc.registry.IDs()
	}
	limit, maxItems := uc.limits(p)

	outcomes := make([]Outcome[[]models.NormalizedArticle], len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = uc.fetch(ctx, id, limit)
			return nil
		})
	}
	_ = g.Wait()

	items := make([]models.NormalizedArticle, 0)
	failures := make([]sourceFailure, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Failed() {
			failures = append(failures, failureOf(o))
			continue
		}
		items = append(items, o.Data...)
	}
	SortByPublished(items)
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	errs := sourceErrors(failures...)
	publishErrors(ctx, uc.pub, uc.log, "news", errs)

	return &models.NewsReport{
		Status:           models.NewStatus(errs),
		RequestedSources: ids,
		AvailableSources: uc.registry.All(),
		Total:            len(items),
		Items:            items,
		Errors:           errs,
	}, nil
}

// Single fetches exactly one source. Its failure is the call's failure.
func (uc *NewsUseCase) Single(ctx context.Context, p NewsParams) (*models.SourceNews, error) {
	ids := normalizeIDs(p.Sources)
	if len(ids) != 1 {
		return nil, xhttp.InvalidParameterError("source", "mode=single requires exactly one source, e.g. source=coindesk")
	}
	src, ok := uc.registry.Lookup(ids[0])
	if !ok {
		return nil, xhttp.NotFoundErrorf("unsupported news source: %s", ids[0])
	}
	limit, _ := uc.limits(p)

	o := settle(ctx, uc.metrics, src.ID, func(ctx context.Context) ([]models.NormalizedArticle, error) {
		return uc.fetcher.FetchSource(ctx, src, limit)
	})
	if o.Failed() {
		return nil, o.Err
	}
	uc.metrics.RecordItems(src.ID, len(o.Data))

	items := o.Data
	if items == nil {
		items = make([]models.NormalizedArticle, 0)
	}
	return &models.SourceNews{
		Status: models.StatusOK,
		Source: src,
		Total:  len(items),
		Items:  items,
	}, nil
}

func (uc *NewsUseCase) fetch(ctx context.Context, id string, limit int) Outcome[[]models.NormalizedArticle] {
	src, ok := uc.registry.Lookup(id)
	if !ok {
		return Outcome[[]models.NormalizedArticle]{
			Source: id,
			Err:    xhttp.NotFoundErrorf("unsupported news source: %s", id),
		}
	}
	o := settle(ctx, uc.metrics, src.ID, func(ctx context.Context) ([]models.NormalizedArticle, error) {
		return uc.fetcher.FetchSource(ctx, src, limit)
	})
	o.Source = id
	if !o.Failed() {
		if len(o.Data) > limit {
			o.Data = o.Data[:limit]
		}
		uc.metrics.RecordItems(src.ID, len(o.Data))
	}
	return o
}

// SortByPublished orders items newest first. Items without a date sort last; ties keep input order.
func SortByPublished(items []models.NormalizedArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// normalizeIDs trims, lowercases and dedups ids. First occurrence wins.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
