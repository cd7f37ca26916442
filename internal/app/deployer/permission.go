package deployer

import (
	"context"

	"github.com/dennishilgert/lambdeploy/internal/app/deployer/models"
	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

// Subscriber binds a topic to the invoke endpoint of a function.
type Subscriber interface {
	Subscribe(ctx context.Context, topicArn string, functionArn string) error
}

type PermissionApplier interface {
	Subscriber
	ApplyPermissions(ctx context.Context, functionName string, grants []models.PermissionGrant) (int, error)
}

type permissionApplier struct {
	platform    platform.Platform
	diagnostics diagnostics.Sink
}

func NewPermissionApplier(platform platform.Platform, diagnosticsSink diagnostics.Sink) PermissionApplier {
	return &permissionApplier{
		platform:    platform,
		diagnostics: diagnosticsSink,
	}
}

// ApplyPermissions adds the grants in order and returns the number of grants
// added before the first failure.
func (a *permissionApplier) ApplyPermissions(ctx context.Context, functionName string, grants []models.PermissionGrant) (int, error) {
	for i, grant := range grants {
		err := a.platform.AddPermission(ctx, &platform.Permission{
			FunctionName: functionName,
			Action:       grant.Action,
			Principal:    grant.Principal,
			StatementId:  grant.StatementId,
			SourceArn:    grant.SourceArn,
		})
		if err != nil {
			a.diagnostics.Emit(hintAddPermissionFailed)
			return i, &ReconciliationError{
				Kind:   ReconciliationKindPermission,
				Target: grant.StatementId,
				Err:    &RemoteError{Operation: "add permission", Err: err},
			}
		}
	}
	return len(grants), nil
}

// Subscribe subscribes the function to the topic. Existing subscriptions are
// not looked up, subscribing is idempotent on the platform side.
func (a *permissionApplier) Subscribe(ctx context.Context, topicArn string, functionArn string) error {
	if err := a.platform.Subscribe(ctx, topicArn, platform.InvokeProtocol, functionArn); err != nil {
		a.diagnostics.Emit(hintSubscribeFailed)
		return &RemoteError{Operation: "subscribe to topic", Err: err}
	}
	return nil
}
