package messaging

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
)

var config = DefaultConfig()

// GetDefaultAdminClient creates a new kafka admin client with the default configuration.
func GetDefaultAdminClient(bootstrapServers string) (*kafka.AdminClient, error) {
	client, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka admin client: %w", err)
	}
	return client, nil
}

// TopicSpecification returns the specification used for topics created by lambdeploy.
func TopicSpecification(topic string) kafka.TopicSpecification {
	return kafka.TopicSpecification{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	}
}

// CreateTopic creates a new topic in the kafka cluster.
func CreateTopic(ctx context.Context, client *kafka.AdminClient, log logger.Logger, topic string) (kafka.TopicResult, error) {
	result, err := CreateTopics(ctx, client, log, []kafka.TopicSpecification{TopicSpecification(topic)})
	if len(result) == 0 {
		return kafka.TopicResult{}, err
	}
	return result[0], err
}

// CreateTopics creates multiple topics in the kafka cluster at once.
func CreateTopics(ctx context.Context, client *kafka.AdminClient, log logger.Logger, topics []kafka.TopicSpecification) ([]kafka.TopicResult, error) {
	log.Debugf("creating %d topic(s)", len(topics))
	result, err := client.CreateTopics(
		ctx,
		topics,
		kafka.SetAdminOperationTimeout(config.AdminOperationTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create topics: %w", err)
	}
	return result, nil
}

// DeleteTopic deletes a topic from the kafka cluster.
func DeleteTopic(ctx context.Context, client *kafka.AdminClient, log logger.Logger, topic string) (kafka.TopicResult, error) {
	result, err := DeleteTopics(ctx, client, log, []string{topic})
	if len(result) == 0 {
		return kafka.TopicResult{}, err
	}
	return result[0], err
}

// DeleteTopics deletes multiple topics from the kafka cluster at once.
func DeleteTopics(ctx context.Context, client *kafka.AdminClient, log logger.Logger, topics []string) ([]kafka.TopicResult, error) {
	log.Debugf("deleting topics: %v", topics)
	result, err := client.DeleteTopics(
		ctx,
		topics,
		kafka.SetAdminOperationTimeout(config.AdminOperationTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete topics: %w", err)
	}
	return result, nil
}
