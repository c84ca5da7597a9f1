package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	xhttp "MarketAtlas/pkg/http"
	"MarketAtlas/pkg/logger"
)

// Getter issues one GET. *xhttp.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*xhttp.Response, error)
}

// HostSet is an ordered, non-empty list of base URLs for one provider, primary first.
// It holds no state between calls.
type HostSet struct {
	provider string
	hosts    []string
	log      *logger.Logger
}

// NewHostSet validates and normalizes hosts. Order is preserved.
func NewHostSet(provider string, hosts []string, log *logger.Logger) (*HostSet, error) {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimRight(strings.TrimSpace(h), "/")
		if h == "" {
			continue
		}
		u, err := url.Parse(h)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("%s: invalid host %q", provider, h)
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: host set is empty", provider)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HostSet{provider: provider, hosts: out, log: log}, nil
}

// Hosts returns a copy of the ordered hosts.
func (h *HostSet) Hosts() []string {
	return append([]string(nil), h.hosts...)
}

// Get calls path on each host in order and returns the first successful response.
// Every call starts at the primary. When all hosts fail the last failure is returned,
// wrapped as UpstreamUnavailable if the set has more than one host.
func (h *HostSet) Get(ctx context.Context, c Getter, path string, query url.Values, headers map[string]string) (*xhttp.Response, error) {
	var lastErr error
	for i, base := range h.hosts {
		if i > 0 && ctx.Err() != nil {
			break
		}
		resp, err := c.Get(ctx, base+path, query, headers)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < len(h.hosts)-1 {
			h.log.Warn("upstream host failed, trying next",
				logger.String("provider", h.provider),
				logger.String("host", base),
				logger.Error(err),
			)
		}
	}

	if len(h.hosts) == 1 {
		return nil, lastErr
	}
	return nil, xhttp.UpstreamUnavailableError(h.provider, len(h.hosts), lastErr)
}
