// Package publish emits completed projection records to a Kafka topic for
// downstream consumers. Optional; the service runs without it.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mkrell/consequence-mirror/internal/config"
	"github.com/mkrell/consequence-mirror/internal/models"
)

// KafkaPublisher implements recorder.Publisher over a Kafka topic.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish serializes one record and writes it keyed by record id so all
// events for a projection land in one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, rec *models.ProjectionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serialize projection record: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(rec.Category)},
			{Key: "delay_days", Value: []byte(strconv.Itoa(rec.DelayDays))},
			{Key: "created_at", Value: []byte(rec.CreatedAt.Format(time.RFC3339))},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
