package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDocument = `
functionName: helloworld
description: says hello
handler: index.handler
role: arn:aws:iam::000000000000:role/lambda
timeout: 10
memorySize: 256
runtime: python3.12
publish: true
vpc:
  subnetIds: [subnet-1, subnet-2]
  securityGroupIds: [sg-1]
environment:
  STAGE: dev
  PORT: 8080
eventSource:
  - eventSourceArn: arn:aws:kinesis:eu-central-1:000000000000:stream/clicks
    batchSize: 200
    startingPosition: TRIM_HORIZON
  - sourceType: topic
    topicArn: arn:aws:sns:eu-central-1:000000000000:alerts
permissions:
  - action: lambda:InvokeFunction
    principal: sns.amazonaws.com
    statementId: sns-invoke
    sourceArn: arn:aws:sns:eu-central-1:000000000000:alerts
`

func TestParse(t *testing.T) {
	state, err := Parse([]byte(yamlDocument))
	require.NoError(t, err)

	assert.Equal(t, "helloworld", state.FunctionName)
	assert.Equal(t, int32(10), state.Timeout)
	assert.Equal(t, int32(256), state.MemorySize)
	assert.True(t, state.Publish)
	assert.Equal(t, []string{"subnet-1", "subnet-2"}, state.Vpc.SubnetIds)
	assert.Equal(t, map[string]string{"STAGE": "dev", "PORT": "8080"}, state.Environment)

	require.Len(t, state.EventSources, 2)
	assert.Equal(t, SourceTypeStream, state.EventSources[0].SourceType)
	assert.Equal(t, int32(200), state.EventSources[0].BatchSize)
	assert.Nil(t, state.EventSources[0].Enabled)
	assert.True(t, state.EventSources[1].IsTopic())

	require.Len(t, state.Permissions, 1)
	assert.Equal(t, "sns-invoke", state.Permissions[0].StatementId)
	assert.False(t, state.Connection.IsSet())
}

func TestParseLegacyDocument(t *testing.T) {
	document := `{
		"region": "eu-central-1",
		"profile": "deploy",
		"functionName": "helloworld",
		"handler": "index.handler",
		"role": "arn:aws:iam::000000000000:role/lambda",
		"vpc": {"SubnetIds": ["subnet-1"], "SecurityGroupIds": ["sg-1"]},
		"environment": {"Variables": {"STAGE": "prod"}},
		"eventSource": {
			"EventSourceArn": "arn:aws:kinesis:eu-central-1:000000000000:stream/clicks",
			"BatchSize": 50,
			"StartingPosition": "LATEST",
			"Enabled": false
		}
	}`

	state, err := Parse([]byte(document))
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", state.Region)
	assert.Equal(t, "deploy", state.Profile)
	assert.True(t, state.Connection.IsSet())
	assert.Equal(t, []string{"subnet-1"}, state.Vpc.SubnetIds)
	assert.Equal(t, map[string]string{"STAGE": "prod"}, state.Environment)

	// A single event source object is lifted into a list.
	require.Len(t, state.EventSources, 1)
	assert.Equal(t, int32(50), state.EventSources[0].BatchSize)
	require.NotNil(t, state.EventSources[0].Enabled)
	assert.False(t, *state.EventSources[0].Enabled)
}

func TestParseWithoutEventSources(t *testing.T) {
	state, err := Parse([]byte("functionName: hello\nhandler: index.handler\nrole: arn:role\n"))
	require.NoError(t, err)

	assert.Empty(t, state.EventSources)
	assert.Empty(t, state.Permissions)
	assert.Nil(t, state.Vpc)
	assert.Nil(t, state.Environment)
}

func TestValidate(t *testing.T) {
	base := func() DesiredState {
		return DesiredState{
			FunctionName: "hello",
			Handler:      "index.handler",
			Role:         "arn:role",
		}
	}

	tests := []struct {
		name    string
		mutate  func(d *DesiredState)
		invalid string
	}{
		{"valid", func(d *DesiredState) {}, ""},
		{"missing function name", func(d *DesiredState) { d.FunctionName = "" }, "FunctionName"},
		{"missing handler", func(d *DesiredState) { d.Handler = "" }, "Handler"},
		{"missing role", func(d *DesiredState) { d.Role = "" }, "Role"},
		{"timeout too large", func(d *DesiredState) { d.Timeout = 901 }, "Timeout"},
		{"memory too small", func(d *DesiredState) { d.MemorySize = 64 }, "MemorySize"},
		{"batch size too large", func(d *DesiredState) {
			d.EventSources = []EventSourceSpec{{SourceType: SourceTypeStream, EventSourceArn: "arn:stream", BatchSize: 10001}}
		}, "BatchSize"},
		{"stream without arn", func(d *DesiredState) {
			d.EventSources = []EventSourceSpec{{SourceType: SourceTypeStream}}
		}, "EventSourceArn"},
		{"topic without arn", func(d *DesiredState) {
			d.EventSources = []EventSourceSpec{{SourceType: SourceTypeTopic}}
		}, "TopicArn"},
		{"unknown source type", func(d *DesiredState) {
			d.EventSources = []EventSourceSpec{{SourceType: "queue", EventSourceArn: "arn:queue"}}
		}, "SourceType"},
		{"unknown starting position", func(d *DesiredState) {
			d.EventSources = []EventSourceSpec{{SourceType: SourceTypeStream, EventSourceArn: "arn:stream", StartingPosition: "EARLIEST"}}
		}, "StartingPosition"},
		{"permission without statement id", func(d *DesiredState) {
			d.Permissions = []PermissionGrant{{Action: "lambda:InvokeFunction", Principal: "sns.amazonaws.com"}}
		}, "StatementId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := base()
			tt.mutate(&state)
			err := state.Validate()
			if tt.invalid == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.invalid)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "lambda-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDocument), 0o600))
	state, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "helloworld", state.FunctionName)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("functionName: hello\nhandler: h\nrole: r\nhandlr: typo\n"), 0o600))
	_, err = Load(unknown)
	assert.ErrorContains(t, err, "handlr")
}
