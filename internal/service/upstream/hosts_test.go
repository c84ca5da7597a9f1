package upstream

import (
	"context"
	"errors"
	"net/url"
	"testing"

	xhttp "MarketAtlas/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGetter struct {
	fail  map[string]error
	calls []string
}

func (g *scriptedGetter) Get(_ context.Context, rawURL string, _ url.Values, _ map[string]string) (*xhttp.Response, error) {
	g.calls = append(g.calls, rawURL)
	u, _ := url.Parse(rawURL)
	if err, ok := g.fail[u.Scheme+"://"+u.Host]; ok {
		return nil, err
	}
	return &xhttp.Response{StatusCode: 200, Body: []byte(u.Host)}, nil
}

func TestNewHostSet(t *testing.T) {
	_, err := NewHostSet("x", nil, nil)
	require.Error(t, err)

	_, err = NewHostSet("x", []string{"not a url"}, nil)
	require.Error(t, err)

	hs, err := NewHostSet("x", []string{" https://a.example/ ", "", "https://b.example"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, hs.Hosts())
}

func TestHostSet_FallsBackToLastHost(t *testing.T) {
	hs, err := NewHostSet("binance", []string{"https://a.example", "https://b.example", "https://c.example"}, nil)
	require.NoError(t, err)

	g := &scriptedGetter{fail: map[string]error{
		"https://a.example": xhttp.NetworkError(errors.New("refused")),
		"https://b.example": xhttp.UpstreamHTTPError(503, "busy"),
	}}

	resp, err := hs.Get(context.Background(), g, "/api/v3/trades", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "c.example", resp.Text())
	assert.Equal(t, []string{
		"https://a.example/api/v3/trades",
		"https://b.example/api/v3/trades",
		"https://c.example/api/v3/trades",
	}, g.calls)
}

func TestHostSet_EveryCallStartsAtPrimary(t *testing.T) {
	hs, err := NewHostSet("binance", []string{"https://a.example", "https://b.example"}, nil)
	require.NoError(t, err)

	g := &scriptedGetter{fail: map[string]error{"https://a.example": xhttp.NetworkError(errors.New("down"))}}

	for i := 0; i < 2; i++ {
		_, err := hs.Get(context.Background(), g, "/p", nil, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"https://a.example/p", "https://b.example/p",
		"https://a.example/p", "https://b.example/p",
	}, g.calls)
}

func TestHostSet_AllFail(t *testing.T) {
	hs, err := NewHostSet("bybit", []string{"https://a.example", "https://b.example"}, nil)
	require.NoError(t, err)

	last := xhttp.UpstreamHTTPError(502, "bad gateway")
	g := &scriptedGetter{fail: map[string]error{
		"https://a.example": xhttp.NetworkError(errors.New("down")),
		"https://b.example": last,
	}}

	_, err = hs.Get(context.Background(), g, "/p", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, xhttp.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, xhttp.ErrUpstreamHTTP)
	assert.Contains(t, err.Error(), "request failed with status 502")
}

func TestHostSet_SingleHostPropagatesUnchanged(t *testing.T) {
	hs, err := NewHostSet("binance", []string{"https://a.example"}, nil)
	require.NoError(t, err)

	g := &scriptedGetter{fail: map[string]error{"https://a.example": xhttp.TimeoutError(xhttp.DefaultTimeout)}}

	_, err = hs.Get(context.Background(), g, "/p", nil, nil)
	assert.ErrorIs(t, err, xhttp.ErrTimeout)
	assert.NotErrorIs(t, err, xhttp.ErrUpstreamUnavailable)
}

func TestRawHelpers(t *testing.T) {
	d, err := Decimal([]byte(`"42.50"`))
	require.NoError(t, err)
	assert.Equal(t, "42.5", d.String())

	d, err = Decimal([]byte(`17`))
	require.NoError(t, err)
	assert.Equal(t, "17", d.String())

	n, err := Int64([]byte(`"1700000000000"`))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), n)

	ts, err := Millis([]byte(`1700000000000`))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Unix())

	_, err = Decimal([]byte(`"abc"`))
	assert.Error(t, err)
}
