package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	tickv1 "github.com/8abak/ctrade-segments/internal/domain/tick/v1"
	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
	"github.com/8abak/ctrade-segments/pkg/logger"
)

// KafkaConfig is the tick feed topic configuration.
type KafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"ticks"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"ctrade-segments"`

	// Ticks are flushed to the store when the buffer fills or the flush
	// interval elapses, whichever comes first.
	FlushSize     int           `env:"FLUSH_SIZE" envDefault:"500"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"2s"`
}

// TickConsumer ingests the live tick feed into the ticks table. It is
// the write side of the tick source the segmenter reads; segmentation
// itself stays a separate run over the store.
type TickConsumer struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface

	tickRepo tickinfra.TickRepository
	config   KafkaConfig

	msgChan chan kafka.Message
}

// NewTickConsumer creates a new TickConsumer.
func NewTickConsumer(config KafkaConfig, logger logger.Interface, tickRepo tickinfra.TickRepository) *TickConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &TickConsumer{
		kafkaReader: kafkaReader,
		logger:      logger,
		tickRepo:    tickRepo,
		config:      config,
		msgChan:     make(chan kafka.Message),
	}
}

// Start reads messages from the tick topic and hands them to Subscribe.
func (c *TickConsumer) Start(ctx context.Context) {
	c.logger.Info("starting tick consumer", logger.Field{
		Key:   "topic",
		Value: c.config.Topic,
	})

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("tick consumer context done")
			close(c.msgChan)
			return
		default:
			msg, err := c.kafkaReader.ReadMessage(ctx)
			if err != nil {
				c.logger.Error(err, logger.Field{
					Key:   "action",
					Value: "read_message",
				})
				continue
			}

			c.msgChan <- msg
		}
	}
}

// Stop stops the TickConsumer.
func (c *TickConsumer) Stop() error {
	c.logger.Info("stopping tick consumer")
	return c.kafkaReader.Close()
}

// Subscribe drains the message channel, buffering ticks and flushing
// them in batches.
func (c *TickConsumer) Subscribe(ctx context.Context) {
	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	var buffer []tickv1.RawTick
	var pending []kafka.Message

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if err := c.tickRepo.StoreBatch(ctx, buffer); err != nil {
			c.logger.Error(err, logger.Field{
				Key:   "action",
				Value: "store_ticks",
			})
			return
		}
		if err := c.kafkaReader.CommitMessages(ctx, pending...); err != nil {
			c.logger.Error(err, logger.Field{
				Key:   "action",
				Value: "commit_messages",
			})
		}
		c.logger.Debug("ticks flushed", logger.Field{
			Key:   "count",
			Value: len(buffer),
		})
		buffer = nil
		pending = nil
	}

	for {
		select {
		case msg, ok := <-c.msgChan:
			if !ok {
				flush()
				return
			}

			var raw tickv1.RawTick
			if err := json.Unmarshal(msg.Value, &raw); err != nil {
				c.logger.Error(err, logger.Field{
					Key:   "action",
					Value: "unmarshal_tick",
				})
				continue
			}

			buffer = append(buffer, raw)
			pending = append(pending, msg)

			if len(buffer) >= c.config.FlushSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
