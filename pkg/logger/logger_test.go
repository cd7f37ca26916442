package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerReturnsRegisteredInstance(t *testing.T) {
	first := NewLogger("lambdeploy.test.registry")
	second := NewLogger("lambdeploy.test.registry")

	assert.Same(t, first, second)
}

func TestJsonOutputCarriesScopeAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("lambdeploy.test.json")
	log.EnableJSONOutput(true)
	log.SetOutput(&buf)
	log.SetLogLevel(InfoLevel)

	log.WithFields(map[string]any{"function": "helloworld"}).Infof("deployed %s", "helloworld")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "lambdeploy.test.json", line[logFieldScope])
	assert.Equal(t, LogTypeLog, line[logFieldType])
	assert.Equal(t, "helloworld", line["function"])
	assert.Equal(t, "deployed helloworld", line[logFieldMessage])
	assert.Equal(t, "info", line[logFieldLevel])
}

func TestWithLogType(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("lambdeploy.test.type")
	log.EnableJSONOutput(true)
	log.SetOutput(&buf)

	log.WithLogType(LogTypeDiagnostic).Warn("check your role")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, LogTypeDiagnostic, line[logFieldType])
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("lambdeploy.test.level")
	log.SetOutput(&buf)
	log.SetLogLevel(WarnLevel)

	log.Info("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, log.IsLogLevelEnabled(DebugLevel))
	assert.True(t, log.IsLogLevelEnabled(ErrorLevel))
	assert.Equal(t, "warning", log.LogLevel())

	log.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"Warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"verbose", UndefinedLevel},
		{"", UndefinedLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, toLogLevel(tt.input))
		})
	}
}

func TestApplyConfigToLoggersRejectsUnknownLevel(t *testing.T) {
	err := ApplyConfigToLoggers(&Config{LogLevel: "verbose"})
	require.Error(t, err)
}

func TestFromContextOrDefault(t *testing.T) {
	assert.Same(t, defaultOpLogger, FromContextOrDefault(context.Background()))

	log := NewLogger("lambdeploy.test.context")
	ctx := NewContext(context.Background(), log)
	assert.Same(t, log, FromContextOrDefault(ctx))
}
