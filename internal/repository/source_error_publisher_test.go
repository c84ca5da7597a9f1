package repository

import (
	"context"
	"testing"
	"time"

	"MarketAtlas/internal/domain/models"
	pkgkafka "MarketAtlas/pkg/kafka"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishSourceErrors(t *testing.T) {
	w := &recordingWriter{}
	pub := NewKafkaPublisher(pkgkafka.NewProducerWithWriter(w, "none"), "marketatlas.source-errors").(*KafkaPublisher)
	pub.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	err := pub.PublishSourceErrors(context.Background(), "market", []models.SourceError{
		{Source: "binance.trades", Message: "upstream returned 503"},
		{Source: "coinmarketcap.quotes", Message: "missing credential CMC_API_KEY"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)

	assert.Equal(t, "marketatlas.source-errors", w.msgs[0].Topic)
	assert.Equal(t, "binance.trades", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"kind":"market","source":"binance.trades","message":"upstream returned 503","at":"2024-03-01T12:00:00Z"}`, string(w.msgs[0].Value))
	assert.Equal(t, "coinmarketcap.quotes", string(w.msgs[1].Key))

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_NoErrorsNoMessages(t *testing.T) {
	w := &recordingWriter{}
	pub := NewKafkaPublisher(pkgkafka.NewProducerWithWriter(w, "none"), "t")

	require.NoError(t, pub.PublishSourceErrors(context.Background(), "news", nil))
	assert.Empty(t, w.msgs)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.PublishSourceErrors(context.Background(), "news", []models.SourceError{{Source: "x"}}))
	assert.NoError(t, p.Close())
}
