package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketAtlas/internal/domain/models"
	domrepo "MarketAtlas/internal/domain/repository"
	xhttp "MarketAtlas/pkg/http"
	"MarketAtlas/pkg/logger"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"

	publishTimeout = 3 * time.Second
)

// Outcome is the settled result of one sub-operation: Data on success, Err on failure.
type Outcome[T any] struct {
	Source string
	Data   T
	Err    error
}

// Failed reports whether the call failed.
func (o Outcome[T]) Failed() bool { return o.Err != nil }

// settle runs call and converts its result, error or panic into an Outcome.
func settle[T any](ctx context.Context, m domrepo.Metrics, source string, call func(context.Context) (T, error)) (out Outcome[T]) {
	out.Source = source
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out.Data = zero
			out.Err = xhttp.InternalErrorf("%s panicked: %v", source, r)
		}
		record(m, source, time.Since(start), out.Err)
	}()

	out.Data, out.Err = call(ctx)
	if out.Err != nil {
		var zero T
		out.Data = zero
	}
	return out
}

func record(m domrepo.Metrics, source string, d time.Duration, err error) {
	m.RecordLatency(source, d.Seconds())
	if err != nil {
		m.RecordUpstream(source, resultFailure)
		m.RecordError(errorKind(err))
		return
	}
	m.RecordUpstream(source, resultSuccess)
}

// errorKind is the AppError code or "unknown".
func errorKind(err error) string {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return "unknown"
}

// sourceErrors lists failures in the given order.
func sourceErrors(failures ...sourceFailure) []models.SourceError {
	errs := make([]models.SourceError, 0, len(failures))
	for _, f := range failures {
		if f.err != nil {
			errs = append(errs, models.SourceError{Source: f.source, Message: f.err.Error()})
		}
	}
	return errs
}

type sourceFailure struct {
	source string
	err    error
}

func failureOf[T any](o Outcome[T]) sourceFailure {
	return sourceFailure{source: o.Source, err: o.Err}
}

// publishErrors ships errs out of band. Failures are only logged.
func publishErrors(ctx context.Context, pub domrepo.ReportPublisher, log *logger.Logger, kind string, errs []models.SourceError) {
	if pub == nil || len(errs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.PublishSourceErrors(ctx, kind, errs); err != nil {
		log.Warn("publish source errors failed", logger.String("kind", kind), logger.Int("count", len(errs)), logger.Error(err))
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordUpstream(string, string) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordItems(string, int)       {}
func (nopMetrics) RecordLatency(string, float64) {}

func metricsOrNop(m domrepo.Metrics) domrepo.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

func fmtSource(provider string, op models.Operation) string {
	return fmt.Sprintf("%s.%s", provider, op)
}
