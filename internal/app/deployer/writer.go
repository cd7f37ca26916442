package deployer

import (
	"context"

	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

type FunctionWriter interface {
	Create(ctx context.Context, code []byte, state *models.DesiredState) (*platform.FunctionRecord, error)
	Update(ctx context.Context, code []byte, state *models.DesiredState) (*platform.FunctionRecord, error)
}

type functionWriter struct {
	platform       platform.Platform
	diagnostics    diagnostics.Sink
	defaultRuntime string
}

func NewFunctionWriter(platform platform.Platform, diagnosticsSink diagnostics.Sink, defaultRuntime string) FunctionWriter {
	return &functionWriter{
		platform:       platform,
		diagnostics:    diagnosticsSink,
		defaultRuntime: defaultRuntime,
	}
}

// Create creates the function with the code inlined and returns its record.
// A function that was created but is not active yet counts as created.
func (w *functionWriter) Create(ctx context.Context, code []byte, state *models.DesiredState) (*platform.FunctionRecord, error) {
	runtime := state.Runtime
	if runtime == "" {
		runtime = w.defaultRuntime
	}
	record, err := w.platform.CreateFunction(ctx, &platform.FunctionSpec{
		FunctionConfiguration: functionConfiguration(state),
		Runtime:               runtime,
		Code:                  code,
		Publish:               state.Publish,
	})
	if err != nil && record != nil && platform.IsNotReady(err) {
		log.Warnf("function %s was created but is not active yet: %v", state.FunctionName, err)
		w.diagnostics.Emit(hintNotReady)
		err = nil
	}
	if err != nil {
		w.diagnostics.Emit(hintCreateFailed)
		return nil, &RemoteError{Operation: "create function", Err: err}
	}
	if record.Runtime == "" {
		record.Runtime = runtime
	}
	return record, nil
}

// Update pushes the code and then overwrites the configuration. The
// configuration is left untouched if the code push fails or does not
// complete. The runtime is never changed.
func (w *functionWriter) Update(ctx context.Context, code []byte, state *models.DesiredState) (*platform.FunctionRecord, error) {
	codeRecord, err := w.platform.UpdateFunctionCode(ctx, state.FunctionName, code, state.Publish)
	if err != nil {
		if platform.IsNotReady(err) {
			w.diagnostics.Emit(hintNotReady)
		} else {
			w.diagnostics.Emit(hintCodeUploadFailed)
		}
		return nil, &RemoteError{Operation: "update function code", Err: err}
	}

	configuration := functionConfiguration(state)
	configRecord, err := w.platform.UpdateFunctionConfiguration(ctx, &configuration)
	if err != nil && configRecord != nil && platform.IsNotReady(err) {
		log.Warnf("configuration of function %s was applied but the update is not complete yet: %v", state.FunctionName, err)
		w.diagnostics.Emit(hintNotReady)
		err = nil
	}
	if err != nil {
		w.diagnostics.Emit(hintConfigUpdateFailed)
		return nil, &RemoteError{Operation: "update function configuration", Err: err}
	}

	if configRecord.FunctionArn == "" {
		configRecord.FunctionArn = codeRecord.FunctionArn
	}
	if configRecord.Runtime == "" {
		configRecord.Runtime = codeRecord.Runtime
	}
	return configRecord, nil
}

func functionConfiguration(state *models.DesiredState) platform.FunctionConfiguration {
	configuration := platform.FunctionConfiguration{
		FunctionName: state.FunctionName,
		Description:  state.Description,
		Handler:      state.Handler,
		Role:         state.Role,
		Timeout:      state.Timeout,
		MemorySize:   state.MemorySize,
		Environment:  state.Environment,
	}
	if state.Vpc != nil {
		configuration.Vpc = &platform.VpcConfig{
			SubnetIds:        state.Vpc.SubnetIds,
			SecurityGroupIds: state.Vpc.SecurityGroupIds,
		}
	}
	return configuration
}
