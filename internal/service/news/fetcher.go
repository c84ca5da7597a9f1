package news

import (
	"context"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/service/upstream"
	xhttp "MarketAtlas/pkg/http"
)

// FeedAccept is sent with every feed request.
const FeedAccept = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.7"

// DefaultLimit caps a source when the caller passes no limit.
const DefaultLimit = 20

// Fetcher downloads and normalizes one feed.
type Fetcher struct {
	http upstream.Getter
}

// NewFetcher creates a feed fetcher over the shared transport.
func NewFetcher(http upstream.Getter) *Fetcher {
	return &Fetcher{http: http}
}

// FetchSource returns at most limit linked articles from src, in feed order.
func (f *Fetcher) FetchSource(ctx context.Context, src models.NewsSource, limit int) ([]models.NormalizedArticle, error) {
	resp, err := f.http.Get(ctx, src.Feed, nil, map[string]string{"Accept": FeedAccept})
	if err != nil {
		return nil, err
	}
	if resp.IsJSON() {
		return nil, xhttp.UnexpectedPayloadErrorf("%s: expected an xml feed, got json", src.ID)
	}

	items, err := Normalize(resp.Body, src)
	if err != nil {
		return nil, xhttp.UnexpectedPayloadErrorf("%s: %v", src.ID, err)
	}

	limit = upstream.LimitOr(limit, DefaultLimit)
	out := make([]models.NormalizedArticle, 0, min(len(items), limit))
	for _, it := range items {
		if it.Link == "" {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
