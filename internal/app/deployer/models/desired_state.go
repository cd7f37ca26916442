package models

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	SourceTypeStream = "stream"
	SourceTypeTopic  = "topic"
)

// DesiredState is the target state of one function deployment.
type DesiredState struct {
	FunctionName string            `mapstructure:"functionName" validate:"required"`
	Description  string            `mapstructure:"description"`
	Handler      string            `mapstructure:"handler" validate:"required"`
	Role         string            `mapstructure:"role" validate:"required"`
	Timeout      int32             `mapstructure:"timeout" validate:"omitempty,min=1,max=900"`
	MemorySize   int32             `mapstructure:"memorySize" validate:"omitempty,min=128,max=10240"`
	Vpc          *VpcConfig        `mapstructure:"vpc"`
	Environment  map[string]string `mapstructure:"environment"`
	Runtime      string            `mapstructure:"runtime"`
	Publish      bool              `mapstructure:"publish"`
	EventSources []EventSourceSpec `mapstructure:"eventSource" validate:"dive"`
	Permissions  []PermissionGrant `mapstructure:"permissions" validate:"dive"`

	Connection `mapstructure:",squash"`
}

// Connection overrides the platform connection settings for one document.
type Connection struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	AccessKeyId     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	SessionToken    string `mapstructure:"sessionToken"`
}

// IsSet reports whether the document overrides any connection setting.
func (c Connection) IsSet() bool {
	return c != Connection{}
}

type VpcConfig struct {
	SubnetIds        []string `mapstructure:"subnetIds"`
	SecurityGroupIds []string `mapstructure:"securityGroupIds"`
}

// EventSourceSpec declares one event source of the function. Stream sources are
// polled through a mapping, topic sources push through a subscription.
type EventSourceSpec struct {
	SourceType       string `mapstructure:"sourceType" validate:"omitempty,oneof=stream topic"`
	EventSourceArn   string `mapstructure:"eventSourceArn"`
	BatchSize        int32  `mapstructure:"batchSize" validate:"omitempty,min=1,max=10000"`
	StartingPosition string `mapstructure:"startingPosition" validate:"omitempty,oneof=TRIM_HORIZON LATEST AT_TIMESTAMP"`
	Enabled          *bool  `mapstructure:"enabled"`
	TopicArn         string `mapstructure:"topicArn"`
}

// IsTopic reports whether the source is a push topic.
func (e EventSourceSpec) IsTopic() bool {
	return e.SourceType == SourceTypeTopic
}

// PermissionGrant allows a principal to perform an action on the function.
type PermissionGrant struct {
	Action      string `mapstructure:"action" validate:"required"`
	Principal   string `mapstructure:"principal" validate:"required"`
	StatementId string `mapstructure:"statementId" validate:"required"`
	SourceArn   string `mapstructure:"sourceArn"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(eventSourceStructLevelValidation, EventSourceSpec{})
	return v
}

func eventSourceStructLevelValidation(sl validator.StructLevel) {
	source := sl.Current().Interface().(EventSourceSpec)
	if source.IsTopic() {
		if source.TopicArn == "" {
			sl.ReportError(source.TopicArn, "TopicArn", "topicArn", "required_for_topic", "")
		}
		return
	}
	if source.EventSourceArn == "" {
		sl.ReportError(source.EventSourceArn, "EventSourceArn", "eventSourceArn", "required_for_stream", "")
	}
}

// Load reads a desired state document in YAML or JSON, applies defaults and
// validates it. A single eventSource object is accepted in place of a list.
func Load(path string) (*DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read desired state %s: %w", path, err)
	}
	state, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid desired state %s: %w", path, err)
	}
	return state, nil
}

// Parse decodes and validates a desired state document.
func Parse(data []byte) (*DesiredState, error) {
	// Keys are kept case sensitive, environment variable names depend on it.
	var document map[string]interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var state DesiredState
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       environmentVariablesHook,
		Result:           &state,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(document); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	state.ApplyDefaults()

	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// environmentVariablesHook accepts an environment declared as {Variables: {...}}.
func environmentVariablesHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(map[string]string{}) {
		return data, nil
	}
	values, ok := data.(map[string]interface{})
	if !ok || len(values) != 1 {
		return data, nil
	}
	for key, value := range values {
		if nested, ok := value.(map[string]interface{}); ok && strings.EqualFold(key, "variables") {
			return nested, nil
		}
	}
	return data, nil
}

// ApplyDefaults sets the source type of undeclared sources to stream.
func (d *DesiredState) ApplyDefaults() {
	for i := range d.EventSources {
		if d.EventSources[i].SourceType == "" {
			d.EventSources[i].SourceType = SourceTypeStream
		}
	}
}

// Validate checks the desired state for missing or out of range fields.
func (d *DesiredState) Validate() error {
	if err := validate.Struct(d); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errors.New(formatValidationErrors(validationErrors))
		}
		return err
	}
	return nil
}

func formatValidationErrors(validationErrors validator.ValidationErrors) string {
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		if fieldErr.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s failed on %s=%s", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Param()))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s failed on %s", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return strings.Join(messages, "; ")
}
