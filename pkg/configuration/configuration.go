package configuration

import (
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/spf13/viper"
)

var log = logger.NewLogger("lambdeploy.config")

// LoadOrDefault binds the config variable to the environment variable and registers the default value.
// A nil default marks the variable as required; the process exits if it is not set.
func LoadOrDefault(configVar string, envVar string, defaultVal any) {
	if defaultVal != nil {
		viper.SetDefault(configVar, defaultVal)
	}
	viper.BindEnv(configVar, envVar)
	if defaultVal == nil {
		if !viper.IsSet(configVar) {
			log.Fatalf("required environment variable %s is not set", envVar)
		}
	}
}
