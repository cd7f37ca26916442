package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrElse(t *testing.T) {
	t.Setenv("LAMBDEPLOY_TEST_SET", "value")

	assert.Equal(t, "value", GetEnvOrElse("LAMBDEPLOY_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrElse("LAMBDEPLOY_TEST_UNSET", "fallback"))
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("LAMBDEPLOY_TEST_EMPTY", "")
	t.Setenv("LAMBDEPLOY_TEST_PROXY", "http://proxy:3128")

	assert.Equal(t, "http://proxy:3128", FirstEnv("LAMBDEPLOY_TEST_EMPTY", "LAMBDEPLOY_TEST_PROXY"))
	assert.Equal(t, "", FirstEnv("LAMBDEPLOY_TEST_EMPTY"))
}
