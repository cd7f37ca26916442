package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
)

var log = logger.NewLogger("lambdeploy.messaging.producer")

const flushTimeoutMs = 1000 * 5

type Options struct {
	BootstrapServers string
}

type MessagingProducer interface {
	Publish(ctx context.Context, topic string, key string, message interface{})
	Close() error
}

type messagingProducer struct {
	producer *kafka.Producer
}

// NewMessagingProducer creates a new kafka producer and starts listening for delivery reports.
func NewMessagingProducer(ctx context.Context, opts Options) (MessagingProducer, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": opts.BootstrapServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging producer: %w", err)
	}

	// Delivery reports have to be drained, otherwise the flush on close
	// reports the delivered messages as unsent.
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Debug("shutting down messaging producer event loop")
				return
			case e, ok := <-producer.Events():
				if !ok {
					return
				}
				switch event := e.(type) {
				case *kafka.Message:
					if event.TopicPartition.Error != nil {
						log.Errorf("failed to deliver message: %v", event.TopicPartition.Error)
					} else {
						log.Debugf("delivered message to topic %s [%d] at offset %v", *event.TopicPartition.Topic, event.TopicPartition.Partition, event.TopicPartition.Offset)
					}
				case kafka.Error:
					log.Errorf("failed to send kafka message: %v", event)
				default:
					if e != nil {
						log.Debugf("ignored kafka event: %v", e)
					}
				}
			}
		}
	}()

	return &messagingProducer{
		producer: producer,
	}, nil
}

// Publish enqueues the json encoded message. Delivery failures are logged and never returned.
func (m *messagingProducer) Publish(ctx context.Context, topic string, key string, message interface{}) {
	jsonMessage, err := json.Marshal(message)
	if err != nil {
		log.Errorf("failed to marshal json message: %v", err)
		return
	}
	kafkaMessage := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          jsonMessage,
	}
	if key != "" {
		kafkaMessage.Key = []byte(key)
	}
	if err := m.producer.Produce(kafkaMessage, nil); err != nil {
		log.Errorf("failed to enqueue message to topic: %s - error: %v", topic, err)
		return
	}
	log.Debugf("enqueued message to topic: %s - key: %s", topic, key)
}

// Close flushes outstanding messages and closes the producer.
func (m *messagingProducer) Close() error {
	unsentMessages := m.producer.Flush(flushTimeoutMs)
	m.producer.Close()
	if unsentMessages > 0 {
		return fmt.Errorf("failed to flush unsent messages: %d", unsentMessages)
	}
	return nil
}
