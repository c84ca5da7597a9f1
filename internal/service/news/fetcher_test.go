package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	xhttp "MarketAtlas/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, FeedAccept, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_DropsLinklessAndLimits(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "application/rss+xml; charset=utf-8", rssDoc)
	f := NewFetcher(xhttp.NewClient())
	src := testSource
	src.Feed = srv.URL

	items, err := f.FetchSource(context.Background(), src, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotEmpty(t, it.Link)
	}

	items, err = f.FetchSource(context.Background(), src, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://example.com/a", items[0].Link)
	assert.Equal(t, "https://example.com/c", items[1].Link)
}

func TestFetcher_KeepsAtomTextLinks(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "application/atom+xml", atomFallbackDoc)
	f := NewFetcher(xhttp.NewClient())
	src := testSource
	src.Feed = srv.URL

	items, err := f.FetchSource(context.Background(), src, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "https://example.com/e", items[1].Link)
}

func TestFetcher_JSONResponseIsUnexpected(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "application/json", `{"items":[]}`)
	f := NewFetcher(xhttp.NewClient())
	src := testSource
	src.Feed = srv.URL

	_, err := f.FetchSource(context.Background(), src, 10)
	assert.ErrorIs(t, err, xhttp.ErrUnexpectedPayload)
}

func TestFetcher_HTTPErrorPropagates(t *testing.T) {
	srv := feedServer(t, http.StatusForbidden, "text/html", "denied")
	f := NewFetcher(xhttp.NewClient())
	src := testSource
	src.Feed = srv.URL

	_, err := f.FetchSource(context.Background(), src, 10)
	assert.ErrorIs(t, err, xhttp.ErrUpstreamHTTP)
}

func TestFetcher_UnknownDocumentIsEmpty(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "text/html", "<html></html>")
	f := NewFetcher(xhttp.NewClient())
	src := testSource
	src.Feed = srv.URL

	items, err := f.FetchSource(context.Background(), src, 10)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
