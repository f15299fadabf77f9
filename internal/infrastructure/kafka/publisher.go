package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const baseAsset = "BTC"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	})
}

func newKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishPriceRecorded sends one event per stored record, keyed by the
// currency pair so a partition sees a pair's prices in order.
func (k *KafkaPublisher) PublishPriceRecorded(ctx context.Context, record *domain.PriceRecord, rate domain.ExchangeRate) error {
	event := PriceRecordedEvent{
		EventID:      uuid.New().String(),
		EventType:    PriceRecordedEventType,
		Base:         baseAsset,
		Currency:     rate.Currency,
		PriceUSD:     record.PriceUSD,
		PriceReal:    record.PriceReal,
		Rate:         rate.Value,
		RateSource:   rate.Source,
		FallbackRate: rate.Fallback,
		Timestamp:    record.FormattedTimestamp(),
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(baseAsset + "-" + rate.Currency),
		Value: msg,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to publish price event: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
