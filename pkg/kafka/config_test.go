package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerConfig_Options(t *testing.T) {
	cfg := DefaultProducerConfig()
	for _, opt := range []ProducerOption{
		WithBrokers([]string{"k1:9092", "k2:9092"}),
		WithDelivery(-1, 0),
		WithBatching(0, time.Second),
		WithCompression("zstd"),
		WithKeyOrdering(),
	} {
		opt(&cfg)
	}
	require.NoError(t, cfg.validate())

	assert.Equal(t, -1, cfg.RequiredAcks)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchTimeout)

	w := cfg.writer()
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.Equal(t, int64(1<<20), w.BatchBytes)
}

func TestProducerConfig_Validate(t *testing.T) {
	cfg := DefaultProducerConfig()
	assert.Error(t, cfg.validate())

	cfg.Brokers = []string{"k1:9092"}
	cfg.RequiredAcks = 2
	assert.Error(t, cfg.validate())

	cfg.RequiredAcks = 0
	assert.NoError(t, cfg.validate())
	assert.IsType(t, &kafka.LeastBytes{}, cfg.writer().Balancer)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Compression(0), parseCompression("none"))
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Snappy, parseCompression("unknown"))
}
