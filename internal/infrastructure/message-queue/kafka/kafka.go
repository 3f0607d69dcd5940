package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const maxRetries = 3

type messageWriter interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

// Publisher writes domain events to the configured topic.
type Publisher struct {
	writer  messageWriter
	backoff time.Duration
}

func CreateKafkaProducer(config *config.Config) (*kafka.Conn, error) {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		return nil, fmt.Errorf("error dialing kafka leader: %w", err)
	}

	return conn, nil
}

func CreatePublisher(conn *kafka.Conn) *Publisher {
	return &Publisher{writer: conn, backoff: time.Second}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType:  eventType,
		OccurredAt: time.Now().UnixMilli(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	msg := kafka.Message{Value: jsonMsg}
	if key != "" {
		msg.Key = []byte(key)
	}

	for i := 0; i < maxRetries; i++ {
		_, err = p.writer.WriteMessages(msg)
		if err == nil {
			return nil
		}
		log.Error().Err(err).Str("component", "Publish").Str("event_type", eventType).Int("attempt", i+1).Msg("")

		if i == maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
}

// LogPublisher stands in when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	log.Ctx(ctx).Info().Str("component", "Publish").Str("event_type", eventType).Str("key", key).Interface("data", data).Msg("event not sent, no broker configured")
	return nil
}
