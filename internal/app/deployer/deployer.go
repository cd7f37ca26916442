// Package deployer converges one function deployment on the remote platform
// to a desired state.
package deployer

import (
	"context"
	"fmt"

	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/artifact"
	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/naming"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
)

var log = logger.NewLogger("lambdeploy.deployer")

type Options struct {
	Platform    platform.Platform
	Artifacts   artifact.Source
	Diagnostics diagnostics.Sink

	// DefaultRuntime is used on create when the desired state declares none.
	DefaultRuntime string
}

// Result describes what a deployment changed. It is filled up to the failing
// stage when Deploy returns an error.
type Result struct {
	FunctionArn        string
	Runtime            string
	Created            bool
	MappingsCreated    int
	MappingsUpdated    int
	Subscriptions      int
	PermissionsGranted int
}

type Deployer interface {
	Deploy(ctx context.Context, artifactRef string, state *models.DesiredState) (*Result, error)
}

type deployer struct {
	artifacts  artifact.Source
	prober     ExistenceProber
	writer     FunctionWriter
	reconciler EventSourceReconciler
	applier    PermissionApplier
}

// NewDeployer creates a deployer. It holds no state between deployments and
// may be shared by concurrent deployments of different functions.
func NewDeployer(opts Options) (Deployer, error) {
	if opts.Platform == nil {
		return nil, fmt.Errorf("platform is required")
	}
	if opts.Artifacts == nil {
		return nil, fmt.Errorf("artifact source is required")
	}
	diagnosticsSink := opts.Diagnostics
	if diagnosticsSink == nil {
		diagnosticsSink = diagnostics.Discard
	}
	defaultRuntime := opts.DefaultRuntime
	if defaultRuntime == "" {
		defaultRuntime = naming.DefaultRuntime
	}

	applier := NewPermissionApplier(opts.Platform, diagnosticsSink)
	return &deployer{
		artifacts:  opts.Artifacts,
		prober:     NewExistenceProber(opts.Platform, diagnosticsSink),
		writer:     NewFunctionWriter(opts.Platform, diagnosticsSink, defaultRuntime),
		reconciler: NewEventSourceReconciler(opts.Platform, applier, diagnosticsSink),
		applier:    applier,
	}, nil
}

// Deploy reads the package, creates or updates the function, reconciles its
// event sources and, for a new function, applies its permission grants. It
// stops at the first error and never rolls back what was already applied.
func (d *deployer) Deploy(ctx context.Context, artifactRef string, state *models.DesiredState) (*Result, error) {
	result := &Result{}

	code, err := d.artifacts.ReadArtifact(ctx, artifactRef)
	if err != nil {
		return result, &PackageError{Ref: artifactRef, Err: err}
	}

	existence, err := d.prober.Probe(ctx, state.FunctionName)
	if err != nil {
		return result, err
	}
	log.Debugf("function %s %s", state.FunctionName, existence)

	var record *platform.FunctionRecord
	switch existence {
	case NotFound:
		log.Infof("creating function: %s", state.FunctionName)
		record, err = d.writer.Create(ctx, code, state)
		result.Created = err == nil
	default:
		log.Infof("updating function: %s", state.FunctionName)
		record, err = d.writer.Update(ctx, code, state)
	}
	if err != nil {
		return result, err
	}
	functionArn := record.FunctionArn
	result.FunctionArn = functionArn
	result.Runtime = record.Runtime

	summary, err := d.reconciler.ReconcileAll(ctx, state.FunctionName, functionArn, state.EventSources)
	result.MappingsCreated = summary.MappingsCreated
	result.MappingsUpdated = summary.MappingsUpdated
	result.Subscriptions = summary.Subscriptions
	if err != nil {
		return result, err
	}

	// Grants are created once together with the function and not reconciled on update.
	if result.Created {
		granted, err := d.applier.ApplyPermissions(ctx, state.FunctionName, state.Permissions)
		result.PermissionsGranted = granted
		if err != nil {
			return result, err
		}
	}

	log.Infof("deployed function %s: %s", state.FunctionName, functionArn)
	return result, nil
}
