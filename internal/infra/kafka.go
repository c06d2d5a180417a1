package infra

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// defaultConsumerGroup is the group escrow consumers join unless told otherwise.
const defaultConsumerGroup = "potledger-escrow"

// KafkaProducer publishes escrow events to topic-per-event-type streams.
// When the deployment runs without a broker (the default for a local table),
// publishing is a no-op and the outbox simply drains.
type KafkaProducer struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	enabled bool
}

// NewKafkaProducer creates the event producer from config.
func NewKafkaProducer(cfg *Config, logger *slog.Logger) *KafkaProducer {
	if !cfg.KafkaEnabled || cfg.KafkaBrokers == "" {
		logger.Info("kafka producer disabled, escrow events stay in the outbox")
		return &KafkaProducer{enabled: false, logger: logger}
	}

	w := &kafka.Writer{
		Addr: kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		// Messages are keyed by request or game ID; hashing the key pins
		// each aggregate's events to one partition, preserving their order.
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}

	logger.Info("kafka producer initialized", "brokers", cfg.KafkaBrokers)
	return &KafkaProducer{writer: w, logger: logger, enabled: true}
}

// Publish sends one event to the given topic. No-op if disabled.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if !p.enabled {
		return nil
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// Close shuts down the Kafka writer.
func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// KafkaConsumer reads one escrow event stream, e.g. escrow.payout.requested
// for a settlement worker.
type KafkaConsumer struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	enabled bool
}

// NewKafkaConsumer creates a consumer for the given topic. An empty groupID
// falls back to the shared escrow consumer group.
func NewKafkaConsumer(cfg *Config, topic, groupID string, logger *slog.Logger) *KafkaConsumer {
	if !cfg.KafkaEnabled || cfg.KafkaBrokers == "" {
		return &KafkaConsumer{enabled: false, logger: logger}
	}
	if groupID == "" {
		groupID = defaultConsumerGroup
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &KafkaConsumer{reader: r, logger: logger, enabled: true}
}

// ReadMessage reads the next event. Blocks until one is available.
func (c *KafkaConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return c.reader.ReadMessage(ctx)
}

// Close shuts down the Kafka reader.
func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
