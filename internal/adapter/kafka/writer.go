package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// MessageKey is the key of every published chart summary, so all builds
// land on the same partition in order.
const MessageKey = "heatmap"

// Writer publishes chart summaries to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Load publishes one message describing chart.
func (w *Writer) Load(ctx context.Context, chart domain.Chart) error {
	msg, err := serializeToMessage(chart)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish chart summary: %w", err)
	}
	w.logger.Info("chart summary published", "topic", w.writer.Topic, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals the chart summary into a Kafka message.
func serializeToMessage(chart domain.Chart) (kafkago.Message, error) {
	data, err := json.Marshal(chart.Summary())
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize chart summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "generated_at", Value: []byte(chart.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
