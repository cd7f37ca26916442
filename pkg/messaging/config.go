package messaging

import "time"

type Config struct {
	AdminOperationTimeout time.Duration
	NumPartitions         int
	ReplicationFactor     int
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		AdminOperationTimeout: time.Second * 60,
		NumPartitions:         3,
		ReplicationFactor:     1,
	}
}
