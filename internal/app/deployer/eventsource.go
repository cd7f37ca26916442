package deployer

import (
	"context"

	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

// ReconcileSummary counts the remote changes of one reconciliation.
type ReconcileSummary struct {
	MappingsCreated int
	MappingsUpdated int
	Subscriptions   int
}

func (s *ReconcileSummary) add(other ReconcileSummary) {
	s.MappingsCreated += other.MappingsCreated
	s.MappingsUpdated += other.MappingsUpdated
	s.Subscriptions += other.Subscriptions
}

type EventSourceReconciler interface {
	ReconcileAll(ctx context.Context, functionName string, functionArn string, sources []models.EventSourceSpec) (ReconcileSummary, error)
	Reconcile(ctx context.Context, functionName string, functionArn string, source models.EventSourceSpec) (ReconcileSummary, error)
}

type eventSourceReconciler struct {
	platform    platform.Platform
	subscriber  Subscriber
	diagnostics diagnostics.Sink
}

func NewEventSourceReconciler(platform platform.Platform, subscriber Subscriber, diagnosticsSink diagnostics.Sink) EventSourceReconciler {
	return &eventSourceReconciler{
		platform:    platform,
		subscriber:  subscriber,
		diagnostics: diagnosticsSink,
	}
}

// ReconcileAll reconciles the sources one after another in declaration order
// and stops at the first failure.
func (r *eventSourceReconciler) ReconcileAll(ctx context.Context, functionName string, functionArn string, sources []models.EventSourceSpec) (ReconcileSummary, error) {
	summary := ReconcileSummary{}
	for _, source := range sources {
		sourceSummary, err := r.Reconcile(ctx, functionName, functionArn, source)
		summary.add(sourceSummary)
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// Reconcile subscribes the function to a topic source, or makes sure a stream
// source has exactly the declared mapping settings.
func (r *eventSourceReconciler) Reconcile(ctx context.Context, functionName string, functionArn string, source models.EventSourceSpec) (ReconcileSummary, error) {
	if source.IsTopic() {
		if err := r.subscriber.Subscribe(ctx, source.TopicArn, functionArn); err != nil {
			return ReconcileSummary{}, &ReconciliationError{Kind: ReconciliationKindEventSource, Target: source.TopicArn, Err: err}
		}
		return ReconcileSummary{Subscriptions: 1}, nil
	}

	mappings, err := r.platform.ListEventSourceMappings(ctx, functionName, source.EventSourceArn)
	if err != nil {
		r.diagnostics.Emit(hintListMappingsFailed)
		return ReconcileSummary{}, r.failure(source, "list event source mappings", err)
	}

	// Creating a mapping is not idempotent, so only create when none exists.
	if len(mappings) == 0 {
		log.Debugf("creating event source mapping for %s: %s", functionName, source.EventSourceArn)
		_, err := r.platform.CreateEventSourceMapping(ctx, &platform.EventSourceMappingSpec{
			FunctionName:     functionName,
			EventSourceArn:   source.EventSourceArn,
			BatchSize:        source.BatchSize,
			StartingPosition: source.StartingPosition,
			Enabled:          source.Enabled,
		})
		if err != nil {
			r.diagnostics.Emit(hintCreateMappingFailed)
			return ReconcileSummary{}, r.failure(source, "create event source mapping", err)
		}
		return ReconcileSummary{MappingsCreated: 1}, nil
	}

	summary := ReconcileSummary{}
	for _, mapping := range mappings {
		log.Debugf("updating event source mapping %s of %s", mapping.Uuid, functionName)
		if err := r.platform.UpdateEventSourceMapping(ctx, mapping.Uuid, source.BatchSize, source.Enabled); err != nil {
			r.diagnostics.Emit(hintUpdateMappingFailed)
			return summary, r.failure(source, "update event source mapping", err)
		}
		summary.MappingsUpdated++
	}
	return summary, nil
}

func (r *eventSourceReconciler) failure(source models.EventSourceSpec, operation string, err error) error {
	return &ReconciliationError{
		Kind:   ReconciliationKindEventSource,
		Target: source.EventSourceArn,
		Err:    &RemoteError{Operation: operation, Err: err},
	}
}
