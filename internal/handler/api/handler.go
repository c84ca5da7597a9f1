package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/service/cache"
	"MarketAtlas/internal/usecase"
	xhttp "MarketAtlas/pkg/http"
	"MarketAtlas/pkg/http/middleware"
	xlogger "MarketAtlas/pkg/logger"
	xutil "MarketAtlas/pkg/util"

	"github.com/labstack/echo/v4"
)

// Cache-Control hints per response family.
const (
	MarketCacheHint = "s-maxage=2, stale-while-revalidate=8"
	NewsCacheHint   = "s-maxage=60, stale-while-revalidate=180"
	QuotesCacheHint = "s-maxage=60, stale-while-revalidate=120"

	HeaderXCache = middleware.HeaderXCache
)

// CacheTTLs are the server-side response cache lifetimes. Zero disables a family.
type CacheTTLs struct {
	Market time.Duration
	News   time.Duration
	Quotes time.Duration
}

// Handler serves the market data and news endpoints.
type Handler struct {
	logger   *xlogger.Logger
	market   *usecase.MarketDataUseCase
	snapshot *usecase.MarketSnapshotUseCase
	news     *usecase.NewsUseCase
	cache    *cache.ResponseCache
	ttl      CacheTTLs
}

func NewHandler(
	logger *xlogger.Logger,
	market *usecase.MarketDataUseCase,
	snapshot *usecase.MarketSnapshotUseCase,
	news *usecase.NewsUseCase,
	rc *cache.ResponseCache,
	ttl CacheTTLs,
) *Handler {
	return &Handler{
		logger:   logger,
		market:   market,
		snapshot: snapshot,
		news:     news,
		cache:    rc,
		ttl:      ttl,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/binance", h.Exchange("binance"))
	g.GET("/bybit", h.Exchange("bybit"))
	g.GET("/cmc", h.Aggregator)
	g.GET("/market", h.Market)
	g.GET("/news", h.News)
}

// Exchange serves one exchange's klines, orderbook or trades.
func (h *Handler) Exchange(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.ExchangeRequest{}
		if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
			return xhttp.BadRequestResponse(c, verr)
		}

		key := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d|%d",
			name, req.Market, strings.ToLower(req.Metric), strings.ToUpper(req.Symbol),
			req.Interval, req.Limit, req.StartTime, req.EndTime)
		return h.respond(c, key, h.ttl.Market, MarketCacheHint, func(ctx context.Context) (int, interface{}, error) {
			res, err := h.market.Exchange(ctx, name, req.Metric, req.Query())
			if err != nil {
				return 0, nil, err
			}
			return http.StatusOK, res, nil
		})
	}
}

// Aggregator serves quotes and global metrics.
func (h *Handler) Aggregator(c echo.Context) error {
	req := &models.AggregatorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("cmc|%s|%s|%s",
		strings.ToLower(req.Metric), strings.ToUpper(strings.Join(xutil.SplitList(req.Symbols), ",")), strings.ToUpper(req.Convert))
	return h.respond(c, key, h.ttl.Quotes, QuotesCacheHint, func(ctx context.Context) (int, interface{}, error) {
		res, err := h.market.Aggregator(ctx, req.Metric, req.Symbols, req.Convert)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, res, nil
	})
}

// Market serves the cross-exchange snapshot. Partial results are 207.
func (h *Handler) Market(c echo.Context) error {
	req := &models.MarketSnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("market|%s|%s|%d|%s", req.Symbol, req.Interval, req.Limit, req.Convert)
	return h.respond(c, key, h.ttl.Market, MarketCacheHint, func(ctx context.Context) (int, interface{}, error) {
		report, err := h.snapshot.Snapshot(ctx, usecase.SnapshotParams{
			Symbol:   req.Symbol,
			Interval: req.Interval,
			Limit:    req.Limit,
			Convert:  req.Convert,
		})
		if err != nil {
			return 0, nil, err
		}
		return xhttp.PartialStatus(report.Partial()), report, nil
	})
}

// News serves the news aggregate, or one source when mode=single.
func (h *Handler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params := usecase.NewsParams{
		Sources:        xutil.SplitList(req.Source),
		LimitPerSource: req.LimitPerSource,
		MaxItems:       req.MaxItems,
	}
	key := fmt.Sprintf("news|%s|%s|%d|%d",
		req.Mode, strings.ToLower(strings.Join(params.Sources, ",")), req.LimitPerSource, req.MaxItems)

	return h.respond(c, key, h.ttl.News, NewsCacheHint, func(ctx context.Context) (int, interface{}, error) {
		if req.Mode == "single" {
			res, err := h.news.Single(ctx, params)
			if err != nil {
				return 0, nil, err
			}
			return http.StatusOK, res, nil
		}
		report, err := h.news.Aggregate(ctx, params)
		if err != nil {
			return 0, nil, err
		}
		return xhttp.PartialStatus(report.Partial()), report, nil
	})
}

// respond renders load through the response cache and sets the cache hint on success.
func (h *Handler) respond(c echo.Context, key string, ttl time.Duration, hint string, load func(ctx context.Context) (int, interface{}, error)) error {
	entry, hit, err := h.cache.Do(c.Request().Context(), key, ttl, func(ctx context.Context) (cache.Entry, error) {
		status, data, err := load(ctx)
		if err != nil {
			return cache.Entry{}, err
		}
		body, err := xhttp.EncodeEnvelope(status, data)
		if err != nil {
			return cache.Entry{}, fmt.Errorf("encode response: %w", err)
		}
		return cache.Entry{Status: status, Body: body}, nil
	})
	if err != nil {
		h.logError(c, err)
		return xhttp.AppErrorResponse(c, err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, hint)
	if hit {
		c.Response().Header().Set(HeaderXCache, "HIT")
	} else {
		c.Response().Header().Set(HeaderXCache, "MISS")
	}
	return xhttp.BlobResponse(c, entry.Status, entry.Body)
}

func (h *Handler) logError(c echo.Context, err error) {
	fields := []xlogger.Field{
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	}
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) && appErr.Status != 0 && appErr.Status < http.StatusInternalServerError {
		h.logger.Debug("request rejected", fields...)
		return
	}
	h.logger.Error("usecase error", fields...)
}
