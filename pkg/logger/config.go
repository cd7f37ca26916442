package logger

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	defaultJsonOutput = false
	defaultLogLevel   = "info"
	undefinedAppId    = ""
)

type Config struct {
	// AppId is the id that is attached to every log line of the application
	AppId string

	// LogJsonOutput defines the flag to enable JSON formatted log
	LogJsonOutput bool

	// LogLevel defines the level of logging
	LogLevel string
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		LogJsonOutput: defaultJsonOutput,
		AppId:         undefinedAppId,
		LogLevel:      defaultLogLevel,
	}
}

// LoadConfig loads the logger configuration from the environment.
// A dedicated viper instance is used so loading the logger configuration
// does not interfere with the application configuration.
func LoadConfig() Config {
	v := viper.New()
	defaults := DefaultConfig()

	v.SetDefault("AppId", defaults.AppId)
	v.SetDefault("LogJsonOutput", defaults.LogJsonOutput)
	v.SetDefault("LogLevel", defaults.LogLevel)
	v.BindEnv("AppId", "LAMBDEPLOY_LOG_APP_ID")
	v.BindEnv("LogJsonOutput", "LAMBDEPLOY_LOG_FORMAT_JSON")
	v.BindEnv("LogLevel", "LAMBDEPLOY_LOG_LEVEL")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		fmt.Printf("unable to unmarshal logger config: %v\n", err)
		return defaults
	}
	if toLogLevel(config.LogLevel) == UndefinedLevel {
		config.LogLevel = defaultLogLevel
	}
	return config
}

// ApplyConfigToLoggers applies the config to all registered loggers.
func ApplyConfigToLoggers(config *Config) error {
	logLevel := toLogLevel(config.LogLevel)
	if logLevel == UndefinedLevel {
		return fmt.Errorf("invalid value for --log-level: %s", config.LogLevel)
	}

	for _, v := range getLoggers() {
		// apply formatting options first
		v.EnableJSONOutput(config.LogJsonOutput)
		if config.AppId != undefinedAppId {
			v.SetAppId(config.AppId)
		}
		v.SetLogLevel(logLevel)
	}
	return nil
}
