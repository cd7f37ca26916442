// Package platform defines the capabilities of the remote function platform
// that a deployment is reconciled against.
package platform

import (
	"context"
)

// InvokeProtocol is the subscription protocol that delivers topic messages to a function.
const InvokeProtocol = "lambda"

// Platform is the capability interface of the remote function platform.
// Implementations own credentials, transport and their own timeout and retry
// policy. Callers never issue two calls concurrently for the same function.
type Platform interface {
	// GetFunction returns the function record. A missing function yields an
	// error for which IsNotFound reports true.
	GetFunction(ctx context.Context, name string) (*FunctionRecord, error)

	// CreateFunction creates the function with inline code.
	CreateFunction(ctx context.Context, spec *FunctionSpec) (*FunctionRecord, error)

	// UpdateFunctionCode replaces the code of the function.
	UpdateFunctionCode(ctx context.Context, name string, code []byte, publish bool) (*FunctionRecord, error)

	// UpdateFunctionConfiguration overwrites the configuration fields present in the request.
	UpdateFunctionConfiguration(ctx context.Context, config *FunctionConfiguration) (*FunctionRecord, error)

	// ListEventSourceMappings lists the mappings of the function for the given source.
	ListEventSourceMappings(ctx context.Context, functionName string, sourceArn string) ([]EventSourceMapping, error)

	// CreateEventSourceMapping creates a mapping. Calling it twice creates two mappings.
	CreateEventSourceMapping(ctx context.Context, spec *EventSourceMappingSpec) (*EventSourceMapping, error)

	// UpdateEventSourceMapping updates the batch size and, if not nil, the enabled flag of a mapping.
	UpdateEventSourceMapping(ctx context.Context, mappingUuid string, batchSize int32, enabled *bool) error

	// AddPermission adds a statement to the resource policy of the function.
	AddPermission(ctx context.Context, permission *Permission) error

	// Subscribe subscribes the endpoint to the topic.
	Subscribe(ctx context.Context, topicArn string, protocol string, endpoint string) error
}

// VpcConfig places the function into a network.
type VpcConfig struct {
	SubnetIds        []string
	SecurityGroupIds []string
}

// FunctionConfiguration is the configuration part of a function that is
// written on create and overwritten on update.
type FunctionConfiguration struct {
	FunctionName string
	Description  string
	Handler      string
	Role         string
	Timeout      int32
	MemorySize   int32
	Vpc          *VpcConfig
	Environment  map[string]string
}

// FunctionSpec is the request to create a function.
type FunctionSpec struct {
	FunctionConfiguration

	Runtime string
	Code    []byte
	Publish bool
}

// FunctionRecord is the state of a function as reported by the platform.
type FunctionRecord struct {
	FunctionArn   string
	Configuration FunctionConfiguration
	Runtime       string
	CodeSha256    string
	CodeLocation  string
	Version       string
}

// EventSourceMappingSpec is the request to create a mapping.
type EventSourceMappingSpec struct {
	FunctionName     string
	EventSourceArn   string
	BatchSize        int32
	StartingPosition string
	Enabled          *bool
}

// EventSourceMapping is a mapping as reported by the platform.
type EventSourceMapping struct {
	Uuid             string
	FunctionArn      string
	EventSourceArn   string
	BatchSize        int32
	Enabled          bool
	StartingPosition string
	State            string
}

// Permission is a statement granting a principal an action on a function.
type Permission struct {
	FunctionName string
	Action       string
	Principal    string
	StatementId  string
	SourceArn    string
}
