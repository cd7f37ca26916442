package deploy

import (
	"context"
	"sync"
	"time"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/config"
	"github.com/dennishilgert/lambdeploy/internal/app/deployer"
	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/artifact"
	"github.com/dennishilgert/lambdeploy/internal/pkg/cache"
	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/journal"
	journalmodels "github.com/dennishilgert/lambdeploy/internal/pkg/journal/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/messaging"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
	"github.com/dennishilgert/lambdeploy/pkg/messaging/producer"
	"github.com/google/uuid"
)

// environment holds the collaborators shared by all deployments of one command run.
type environment struct {
	cfg       *config.Config
	artifacts artifact.Source
	producer  producer.MessagingProducer
	cache     cache.CacheClient
	journal   journal.JournalClient

	newPlatform   func(connection models.Connection) (platform.Platform, error)
	platformsLock sync.Mutex
	platforms     map[models.Connection]platform.Platform
}

// platformFor returns the platform for the connection, resolving credentials only once per connection.
func (e *environment) platformFor(connection models.Connection) (platform.Platform, error) {
	e.platformsLock.Lock()
	defer e.platformsLock.Unlock()

	if p, ok := e.platforms[connection]; ok {
		return p, nil
	}
	p, err := e.newPlatform(connection)
	if err != nil {
		return nil, err
	}
	e.platforms[connection] = p
	return p, nil
}

func (e *environment) diagnosticsSink(ctx context.Context, functionName string) diagnostics.Sink {
	sink := diagnostics.NewLoggerSink(log.WithFields(map[string]any{"function": functionName}))
	if e.producer == nil {
		return sink
	}
	return diagnostics.Multi(sink, diagnostics.NewMessagingSink(ctx, e.producer, e.cfg.MessagingTopic, functionName))
}

// deploy runs one deployment while holding the deployment lock of the
// function, then reports the outcome.
func (e *environment) deploy(ctx context.Context, packageRef string, state *models.DesiredState) error {
	deploymentUuid := uuid.NewString()
	startedAt := time.Now().UTC()

	if e.cache != nil {
		if err := e.cache.AcquireDeploymentLock(ctx, deploymentUuid, state.FunctionName, e.cfg.LockTimeoutDuration()); err != nil {
			return err
		}
		defer func() {
			if err := e.cache.ReleaseDeploymentLock(context.Background(), deploymentUuid, state.FunctionName); err != nil {
				log.Warnf("failed to release deployment lock of %s: %v", state.FunctionName, err)
			}
		}()
	}

	result, err := e.run(ctx, packageRef, state)
	if result == nil {
		result = &deployer.Result{}
	}
	e.report(ctx, deploymentUuid, packageRef, state, result, err, startedAt)
	return err
}

func (e *environment) run(ctx context.Context, packageRef string, state *models.DesiredState) (*deployer.Result, error) {
	p, err := e.platformFor(state.Connection)
	if err != nil {
		return nil, err
	}
	d, err := deployer.NewDeployer(deployer.Options{
		Platform:       p,
		Artifacts:      e.artifacts,
		Diagnostics:    e.diagnosticsSink(ctx, state.FunctionName),
		DefaultRuntime: e.cfg.DefaultRuntime,
	})
	if err != nil {
		return nil, err
	}
	return d.Deploy(ctx, packageRef, state)
}

// report publishes and records the outcome. Failures are logged only and never
// change the outcome of the deployment.
func (e *environment) report(ctx context.Context, deploymentUuid string, packageRef string, state *models.DesiredState, result *deployer.Result, deployErr error, startedAt time.Time) {
	finishedAt := time.Now().UTC()
	status := messaging.DeploymentStatusSucceeded
	errorMessage := ""
	if deployErr != nil {
		status = messaging.DeploymentStatusFailed
		errorMessage = deployErr.Error()
	}

	if e.producer != nil {
		e.producer.Publish(ctx, e.cfg.MessagingTopic, state.FunctionName, &messaging.DeploymentEventMessage{
			Type:               messaging.MessageTypeDeployment,
			DeploymentUuid:     deploymentUuid,
			FunctionName:       state.FunctionName,
			FunctionArn:        result.FunctionArn,
			ArtifactRef:        packageRef,
			Status:             status,
			Created:            result.Created,
			MappingsCreated:    result.MappingsCreated,
			MappingsUpdated:    result.MappingsUpdated,
			Subscriptions:      result.Subscriptions,
			PermissionsGranted: result.PermissionsGranted,
			Error:              errorMessage,
			StartedAt:          startedAt,
			FinishedAt:         finishedAt,
		})
	}

	if e.journal != nil {
		entry := &journalmodels.Deployment{
			Uuid:               deploymentUuid,
			FunctionName:       state.FunctionName,
			FunctionArn:        result.FunctionArn,
			ArtifactRef:        packageRef,
			Runtime:            appliedRuntime(state, result),
			Status:             status,
			Created:            result.Created,
			MappingsCreated:    int32(result.MappingsCreated),
			MappingsUpdated:    int32(result.MappingsUpdated),
			Subscriptions:      int32(result.Subscriptions),
			PermissionsGranted: int32(result.PermissionsGranted),
			Error:              errorMessage,
			StartedAt:          startedAt,
			FinishedAt:         finishedAt,
		}
		for _, source := range state.EventSources {
			if source.IsTopic() {
				entry.TopicArns = append(entry.TopicArns, source.TopicArn)
				continue
			}
			entry.EventSourceArns = append(entry.EventSourceArns, source.EventSourceArn)
		}
		if err := e.journal.RecordDeployment(entry); err != nil {
			log.Warnf("failed to record deployment %s: %v", deploymentUuid, err)
		}
	}
}

// appliedRuntime is the runtime reported by the platform, or the declared one
// when the deployment failed before the function was written.
func appliedRuntime(state *models.DesiredState, result *deployer.Result) string {
	if result.Runtime != "" {
		return result.Runtime
	}
	return state.Runtime
}
