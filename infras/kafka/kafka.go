package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"

	"unires/config"
	"unires/infras/otel"
	"unires/shared/constant"
)

const (
	writeTimeout     = 10 * time.Second
	otelTopicAttrKey = "kafka.topic"
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage(topic string) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Decode unmarshals the JSON payload of a Kafka message into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	err := json.Unmarshal(msg.Value, &value)
	if err != nil {
		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// Handler processes one consumed message. A returned error is logged and the
// offset is still committed so a poison message cannot stall the partition.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type kafkaClientImpl struct {
	config *config.Config
	otel   otel.Otel
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(config *config.Config, otl otel.Otel) Client {
	var mechanism sasl.Mechanism
	if config.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	dialer := &kafkaGo.Dialer{
		Timeout:       writeTimeout,
		DualStack:     true,
		SASLMechanism: mechanism,
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              &kafkaGo.Transport{SASL: mechanism},
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: config,
		otel:   otl,
		dialer: dialer,
		writer: writer,
	}
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

// SendMessages writes all messages to topic synchronously. Keys route a
// recipient's messages to the same partition.
func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelTopicAttrKey, topic)

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(topic)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return err
		}

		msgs = append(msgs, msg)
	}

	err = k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent messages successfully.")

	return nil
}

// Consume blocks, handing messages to handler one at a time in partition
// order, until ctx is cancelled.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("kafka topic name cannot be empty")
	}

	reader := k.reader(consumerGroup, topic)

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			continue
		}

		k.handle(ctx, topic, msg, handler)

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka offset.")
		}
	}
}

func (k *kafkaClientImpl) handle(ctx context.Context, topic string, msg kafkaGo.Message, handler Handler) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".handle")
	defer scope.End()

	scope.SetAttribute(otelTopicAttrKey, topic)

	if err := handler(ctx, msg); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Msg("Failed to handle Kafka message.")
	}
}

func (k *kafkaClientImpl) Close() error {
	return k.writer.Close() //nolint:wrapcheck
}
