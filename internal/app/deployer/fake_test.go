package deployer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dennishilgert/lambdeploy/internal/pkg/artifact"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

const (
	opGetFunction                 = "GetFunction"
	opCreateFunction              = "CreateFunction"
	opUpdateFunctionCode          = "UpdateFunctionCode"
	opUpdateFunctionConfiguration = "UpdateFunctionConfiguration"
	opListEventSourceMappings     = "ListEventSourceMappings"
	opCreateEventSourceMapping    = "CreateEventSourceMapping"
	opUpdateEventSourceMapping    = "UpdateEventSourceMapping"
	opAddPermission               = "AddPermission"
	opSubscribe                   = "Subscribe"
)

var errFakeAccessDenied = errors.New("AccessDeniedException: not authorized")

type fakeFunction struct {
	record platform.FunctionRecord
	code   []byte
}

type fakeMapping struct {
	functionName string
	mapping      platform.EventSourceMapping
}

type fakeSubscription struct {
	topicArn string
	protocol string
	endpoint string
}

// fakePlatform is an in-memory platform. Unknown functions yield a not found
// error and configuration updates overwrite only the fields that are set.
type fakePlatform struct {
	lock sync.Mutex

	functions     map[string]*fakeFunction
	mappings      []*fakeMapping
	permissions   []platform.Permission
	subscriptions []fakeSubscription
	calls         []string
	failures      map[string]error
	notReady      map[string]bool
	nextUuid      int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		functions: map[string]*fakeFunction{},
		failures:  map[string]error{},
		notReady:  map[string]bool{},
	}
}

func (f *fakePlatform) failOn(operation string, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.failures[operation] = err
}

// notReadyAfter makes the operation apply its change but report that the
// function did not become ready in time.
func (f *fakePlatform) notReadyAfter(operation string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.notReady[operation] = true
}

func (f *fakePlatform) readiness(operation string, name string) error {
	if !f.notReady[operation] {
		return nil
	}
	return fmt.Errorf("%w: function %s is still pending", platform.ErrNotReady, name)
}

func (f *fakePlatform) record(operation string) error {
	f.calls = append(f.calls, operation)
	return f.failures[operation]
}

func (f *fakePlatform) callCount(operation string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	count := 0
	for _, call := range f.calls {
		if call == operation {
			count++
		}
	}
	return count
}

func (f *fakePlatform) resetCalls() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = nil
}

func (f *fakePlatform) functionArn(name string) string {
	return fmt.Sprintf("arn:aws:lambda:us-east-1:123456789012:function:%s", name)
}

func (f *fakePlatform) mappingsOf(functionName string, sourceArn string) []platform.EventSourceMapping {
	f.lock.Lock()
	defer f.lock.Unlock()
	mappings := []platform.EventSourceMapping{}
	for _, m := range f.mappings {
		if m.functionName == functionName && (sourceArn == "" || m.mapping.EventSourceArn == sourceArn) {
			mappings = append(mappings, m.mapping)
		}
	}
	return mappings
}

func (f *fakePlatform) seedFunction(name string, runtime string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.functions[name] = &fakeFunction{
		record: platform.FunctionRecord{
			FunctionArn:   f.functionArn(name),
			Configuration: platform.FunctionConfiguration{FunctionName: name, Handler: "index.handler", Role: "arn:role/old"},
			Runtime:       runtime,
		},
		code: []byte("old"),
	}
}

func (f *fakePlatform) seedMapping(functionName string, sourceArn string, batchSize int32) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.nextUuid++
	f.mappings = append(f.mappings, &fakeMapping{
		functionName: functionName,
		mapping: platform.EventSourceMapping{
			Uuid:           fmt.Sprintf("mapping-%d", f.nextUuid),
			FunctionArn:    f.functionArn(functionName),
			EventSourceArn: sourceArn,
			BatchSize:      batchSize,
			Enabled:        true,
		},
	})
}

func (f *fakePlatform) function(name string) *fakeFunction {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.functions[name]
}

func (f *fakePlatform) GetFunction(ctx context.Context, name string) (*platform.FunctionRecord, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opGetFunction); err != nil {
		return nil, err
	}
	function, ok := f.functions[name]
	if !ok {
		return nil, platform.NewNotFoundError(opGetFunction, fmt.Errorf("function not found: %s", name))
	}
	record := function.record
	return &record, nil
}

func (f *fakePlatform) CreateFunction(ctx context.Context, spec *platform.FunctionSpec) (*platform.FunctionRecord, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opCreateFunction); err != nil {
		return nil, err
	}
	if _, ok := f.functions[spec.FunctionName]; ok {
		return nil, &platform.StatusError{Operation: opCreateFunction, StatusCode: 409, Code: "ResourceConflictException", Err: errors.New("function already exists")}
	}
	function := &fakeFunction{
		record: platform.FunctionRecord{
			FunctionArn:   f.functionArn(spec.FunctionName),
			Configuration: spec.FunctionConfiguration,
			Runtime:       spec.Runtime,
		},
		code: spec.Code,
	}
	f.functions[spec.FunctionName] = function
	record := function.record
	return &record, f.readiness(opCreateFunction, spec.FunctionName)
}

func (f *fakePlatform) UpdateFunctionCode(ctx context.Context, name string, code []byte, publish bool) (*platform.FunctionRecord, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opUpdateFunctionCode); err != nil {
		return nil, err
	}
	function, ok := f.functions[name]
	if !ok {
		return nil, platform.NewNotFoundError(opUpdateFunctionCode, fmt.Errorf("function not found: %s", name))
	}
	function.code = code
	record := function.record
	return &record, f.readiness(opUpdateFunctionCode, name)
}

func (f *fakePlatform) UpdateFunctionConfiguration(ctx context.Context, config *platform.FunctionConfiguration) (*platform.FunctionRecord, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opUpdateFunctionConfiguration); err != nil {
		return nil, err
	}
	function, ok := f.functions[config.FunctionName]
	if !ok {
		return nil, platform.NewNotFoundError(opUpdateFunctionConfiguration, fmt.Errorf("function not found: %s", config.FunctionName))
	}
	current := &function.record.Configuration
	if config.Description != "" {
		current.Description = config.Description
	}
	if config.Handler != "" {
		current.Handler = config.Handler
	}
	if config.Role != "" {
		current.Role = config.Role
	}
	if config.Timeout != 0 {
		current.Timeout = config.Timeout
	}
	if config.MemorySize != 0 {
		current.MemorySize = config.MemorySize
	}
	if config.Vpc != nil {
		current.Vpc = config.Vpc
	}
	if config.Environment != nil {
		current.Environment = config.Environment
	}
	record := function.record
	return &record, f.readiness(opUpdateFunctionConfiguration, config.FunctionName)
}

func (f *fakePlatform) ListEventSourceMappings(ctx context.Context, functionName string, sourceArn string) ([]platform.EventSourceMapping, error) {
	f.lock.Lock()
	if err := f.record(opListEventSourceMappings); err != nil {
		f.lock.Unlock()
		return nil, err
	}
	f.lock.Unlock()
	return f.mappingsOf(functionName, sourceArn), nil
}

func (f *fakePlatform) CreateEventSourceMapping(ctx context.Context, spec *platform.EventSourceMappingSpec) (*platform.EventSourceMapping, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opCreateEventSourceMapping); err != nil {
		return nil, err
	}
	f.nextUuid++
	enabled := true
	if spec.Enabled != nil {
		enabled = *spec.Enabled
	}
	mapping := platform.EventSourceMapping{
		Uuid:             fmt.Sprintf("mapping-%d", f.nextUuid),
		FunctionArn:      f.functionArn(spec.FunctionName),
		EventSourceArn:   spec.EventSourceArn,
		BatchSize:        spec.BatchSize,
		Enabled:          enabled,
		StartingPosition: spec.StartingPosition,
	}
	f.mappings = append(f.mappings, &fakeMapping{functionName: spec.FunctionName, mapping: mapping})
	return &mapping, nil
}

func (f *fakePlatform) UpdateEventSourceMapping(ctx context.Context, mappingUuid string, batchSize int32, enabled *bool) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opUpdateEventSourceMapping); err != nil {
		return err
	}
	for _, m := range f.mappings {
		if m.mapping.Uuid == mappingUuid {
			if batchSize != 0 {
				m.mapping.BatchSize = batchSize
			}
			if enabled != nil {
				m.mapping.Enabled = *enabled
			}
			return nil
		}
	}
	return platform.NewNotFoundError(opUpdateEventSourceMapping, fmt.Errorf("mapping not found: %s", mappingUuid))
}

func (f *fakePlatform) AddPermission(ctx context.Context, permission *platform.Permission) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opAddPermission); err != nil {
		return err
	}
	f.permissions = append(f.permissions, *permission)
	return nil
}

func (f *fakePlatform) Subscribe(ctx context.Context, topicArn string, protocol string, endpoint string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := f.record(opSubscribe); err != nil {
		return err
	}
	f.subscriptions = append(f.subscriptions, fakeSubscription{topicArn: topicArn, protocol: protocol, endpoint: endpoint})
	return nil
}

// mutatingCalls returns the recorded calls that change remote state.
func (f *fakePlatform) mutatingCalls() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	calls := []string{}
	for _, call := range f.calls {
		switch call {
		case opGetFunction, opListEventSourceMappings:
			continue
		}
		calls = append(calls, call)
	}
	return calls
}

func fakeArtifacts(packages map[string][]byte) artifact.Source {
	return artifact.SourceFunc(func(ctx context.Context, ref string) ([]byte, error) {
		data, ok := packages[ref]
		if !ok {
			return nil, fmt.Errorf("%s: %w", ref, artifact.ErrArtifactNotFound)
		}
		return data, nil
	})
}
