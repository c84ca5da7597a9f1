package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordUpstream("binance.klines", "success")
	r.RecordUpstream("binance.klines", "success")
	r.RecordUpstream("bybit.trades", "failure")
	r.RecordItems("coindesk", 3)
	r.RecordError("publish")
	r.RecordLatency("market.snapshot", 0.12)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("binance.klines", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamTotal.WithLabelValues("bybit.trades", "failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.itemsTotal.WithLabelValues("coindesk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("publish")))

	n, err := testutil.GatherAndCount(reg, "marketatlas_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
