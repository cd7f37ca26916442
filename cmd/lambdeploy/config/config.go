package config

import (
	"fmt"
	"time"

	"github.com/dennishilgert/lambdeploy/internal/pkg/naming"
	"github.com/dennishilgert/lambdeploy/pkg/configuration"
	"github.com/dennishilgert/lambdeploy/pkg/utils"
	"github.com/spf13/viper"
)

type Config struct {
	Region          string
	Profile         string
	AccessKeyId     string
	SecretAccessKey string
	SessionToken    string
	HttpsProxy      string
	Endpoint        string
	WaitTimeout     int
	DefaultRuntime  string

	StorageEndpoint        string
	StorageAccessKeyId     string
	StorageSecretAccessKey string
	StorageSessionToken    string
	StorageUseSsl          bool

	MessagingBootstrapServers string
	MessagingTopic            string

	CacheAddress  string
	CacheUsername string
	CachePassword string
	CacheDatabase int
	LockTimeout   int

	DatabaseHost     string
	DatabasePort     int
	DatabaseUsername string
	DatabasePassword string
	DatabaseDb       string
	DatabaseSslMode  bool
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	var config Config

	// automatically load environment variables that match
	viper.AutomaticEnv()
	viper.SetEnvPrefix("LAMBDEPLOY")

	// loading the values from the environment or use default values
	configuration.LoadOrDefault("Region", "LAMBDEPLOY_REGION", "")
	configuration.LoadOrDefault("Profile", "LAMBDEPLOY_PROFILE", "")
	configuration.LoadOrDefault("AccessKeyId", "LAMBDEPLOY_ACCESS_KEY_ID", "")
	configuration.LoadOrDefault("SecretAccessKey", "LAMBDEPLOY_SECRET_ACCESS_KEY", "")
	configuration.LoadOrDefault("SessionToken", "LAMBDEPLOY_SESSION_TOKEN", "")
	configuration.LoadOrDefault("HttpsProxy", "HTTPS_PROXY", utils.FirstEnv("https_proxy"))
	configuration.LoadOrDefault("Endpoint", "LAMBDEPLOY_ENDPOINT", "")
	configuration.LoadOrDefault("WaitTimeout", "LAMBDEPLOY_WAIT_TIMEOUT", 300)
	configuration.LoadOrDefault("DefaultRuntime", "LAMBDEPLOY_DEFAULT_RUNTIME", naming.DefaultRuntime)

	configuration.LoadOrDefault("StorageEndpoint", "LAMBDEPLOY_STORAGE_ENDPOINT", "")
	configuration.LoadOrDefault("StorageAccessKeyId", "LAMBDEPLOY_STORAGE_ACCESS_KEY_ID", "")
	configuration.LoadOrDefault("StorageSecretAccessKey", "LAMBDEPLOY_STORAGE_SECRET_ACCESS_KEY", "")
	configuration.LoadOrDefault("StorageSessionToken", "LAMBDEPLOY_STORAGE_SESSION_TOKEN", "")
	configuration.LoadOrDefault("StorageUseSsl", "LAMBDEPLOY_STORAGE_USE_SSL", true)

	configuration.LoadOrDefault("MessagingBootstrapServers", "LAMBDEPLOY_MESSAGING_BOOTSTRAP_SERVERS", "")
	configuration.LoadOrDefault("MessagingTopic", "LAMBDEPLOY_MESSAGING_TOPIC", naming.MessagingDeploymentEventsTopic)

	configuration.LoadOrDefault("CacheAddress", "LAMBDEPLOY_CACHE_ADDRESS", "")
	configuration.LoadOrDefault("CacheUsername", "LAMBDEPLOY_CACHE_USERNAME", "")
	configuration.LoadOrDefault("CachePassword", "LAMBDEPLOY_CACHE_PASSWORD", "")
	configuration.LoadOrDefault("CacheDatabase", "LAMBDEPLOY_CACHE_DATABASE", 0)
	configuration.LoadOrDefault("LockTimeout", "LAMBDEPLOY_LOCK_TIMEOUT", 900)

	configuration.LoadOrDefault("DatabaseHost", "LAMBDEPLOY_DATABASE_HOST", "")
	configuration.LoadOrDefault("DatabasePort", "LAMBDEPLOY_DATABASE_PORT", 5432)
	configuration.LoadOrDefault("DatabaseUsername", "LAMBDEPLOY_DATABASE_USERNAME", "")
	configuration.LoadOrDefault("DatabasePassword", "LAMBDEPLOY_DATABASE_PASSWORD", "")
	configuration.LoadOrDefault("DatabaseDb", "LAMBDEPLOY_DATABASE_DB", "lambdeploy")
	configuration.LoadOrDefault("DatabaseSslMode", "LAMBDEPLOY_DATABASE_SSL_MODE", false)

	// unmarshalling the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *Config) WaitTimeoutDuration() time.Duration {
	return time.Duration(c.WaitTimeout) * time.Second
}

func (c *Config) LockTimeoutDuration() time.Duration {
	return time.Duration(c.LockTimeout) * time.Second
}

func (c *Config) StorageEnabled() bool {
	return c.StorageEndpoint != ""
}

func (c *Config) MessagingEnabled() bool {
	return c.MessagingBootstrapServers != ""
}

func (c *Config) CacheEnabled() bool {
	return c.CacheAddress != ""
}

func (c *Config) JournalEnabled() bool {
	return c.DatabaseHost != ""
}
