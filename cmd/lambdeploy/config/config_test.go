package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("LAMBDEPLOY_REGION", "eu-central-1")
	t.Setenv("LAMBDEPLOY_WAIT_TIMEOUT", "0")
	t.Setenv("LAMBDEPLOY_CACHE_ADDRESS", "localhost:6379")
	t.Setenv("LAMBDEPLOY_STORAGE_USE_SSL", "false")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", config.Region)
	assert.Equal(t, time.Duration(0), config.WaitTimeoutDuration())
	assert.Equal(t, "nodejs20.x", config.DefaultRuntime)
	assert.Equal(t, "lambdeploy_deployments", config.MessagingTopic)
	assert.Equal(t, 15*time.Minute, config.LockTimeoutDuration())
	assert.False(t, config.StorageUseSsl)
	assert.True(t, config.CacheEnabled())
	assert.False(t, config.MessagingEnabled())
	assert.False(t, config.JournalEnabled())
	assert.False(t, config.StorageEnabled())
	assert.Equal(t, 5432, config.DatabasePort)
}
