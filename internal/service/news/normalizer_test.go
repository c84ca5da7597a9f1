package news

import (
	"testing"
	"time"

	"MarketAtlas/internal/domain/models"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSource = models.NewsSource{ID: "example", Label: "Example", Weight: 0.5, Focus: "markets", Feed: "https://example.com/rss"}

func TestNormalize_RSS(t *testing.T) {
	items, err := Normalize([]byte(rssDoc), testSource)
	require.NoError(t, err)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "example", first.Source)
	assert.Equal(t, "Example", first.Label)
	assert.Equal(t, 0.5, first.Weight)
	assert.Equal(t, "markets", first.Focus)
	assert.Equal(t, "Bitcoin breaks out", first.Title)
	assert.Equal(t, "https://example.com/a", first.Link)
	assert.Equal(t, "Jane Doe", first.Author)
	assert.Equal(t, "Price moves higher.", first.Summary)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC), *first.PublishedAt)
	assert.IsType(t, &rss.Item{}, first.Raw)

	assert.Empty(t, items[1].Link)
	assert.Nil(t, items[2].PublishedAt)
	assert.Equal(t, "https://example.com/c", items[2].Link)

	require.NotNil(t, items[3].PublishedAt)
	assert.Equal(t, time.Date(2024, 10, 2, 8, 30, 0, 0, time.UTC), *items[3].PublishedAt)
}

func TestNormalize_Atom(t *testing.T) {
	items, err := Normalize([]byte(atomDoc), testSource)
	require.NoError(t, err)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "https://example.com/a", first.Link)
	assert.Equal(t, "Jane Doe", first.Author)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC), *first.PublishedAt)
	assert.IsType(t, &atom.Entry{}, first.Raw)

	second := items[1]
	assert.Equal(t, "https://example.com/b", second.Link)
	assert.Equal(t, "Body text.", second.Summary)
	require.NotNil(t, second.PublishedAt)
	assert.Equal(t, time.Date(2024, 9, 29, 10, 0, 0, 0, time.UTC), *second.PublishedAt)

	assert.Empty(t, items[2].Link)
}

func TestNormalize_AtomFallbacks(t *testing.T) {
	items, err := Normalize([]byte(atomFallbackDoc), testSource)
	require.NoError(t, err)
	require.Len(t, items, 3)

	created := items[0]
	assert.Equal(t, "https://example.com/d", created.Link)
	require.NotNil(t, created.PublishedAt)
	assert.Equal(t, time.Date(2024, 9, 28, 7, 15, 0, 0, time.UTC), *created.PublishedAt)

	textLink := items[1]
	assert.Equal(t, "https://example.com/e", textLink.Link)
	require.NotNil(t, textLink.PublishedAt)
	assert.Equal(t, time.Date(2024, 9, 27, 7, 15, 0, 0, time.UTC), *textLink.PublishedAt)

	assert.Equal(t, "https://example.com/f.atom", items[2].Link)
	assert.Nil(t, items[2].PublishedAt)
}

func TestNormalize_FormatTransparency(t *testing.T) {
	fromRSS, err := Normalize([]byte(rssDoc), testSource)
	require.NoError(t, err)
	fromAtom, err := Normalize([]byte(atomDoc), testSource)
	require.NoError(t, err)

	r, a := fromRSS[0], fromAtom[0]
	assert.Equal(t, r.Title, a.Title)
	assert.Equal(t, r.Link, a.Link)
	assert.Equal(t, r.Summary, a.Summary)
}

func TestNormalize_UnknownShapeIsEmpty(t *testing.T) {
	for _, doc := range []string{
		`{"version":"https://jsonfeed.org/version/1","items":[]}`,
		`<html><body>not a feed</body></html>`,
		``,
	} {
		items, err := Normalize([]byte(doc), testSource)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
}

func TestNormalize_EmptyChannel(t *testing.T) {
	items, err := Normalize([]byte(`<rss version="2.0"><channel><title>x</title></channel></rss>`), testSource)
	require.NoError(t, err)
	assert.Empty(t, items)
}
