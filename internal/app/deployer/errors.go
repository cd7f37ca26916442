package deployer

import (
	"fmt"
)

const (
	ReconciliationKindEventSource = "event source"
	ReconciliationKindPermission  = "permission"
)

// PackageError is returned when the deployment package cannot be read.
// It is raised before any remote call was issued.
type PackageError struct {
	Ref string
	Err error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("error reading specified package %q: %v", e.Ref, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}

// RemoteError is a failed remote call that is not an expected not found.
// It usually means missing credentials or permissions.
type RemoteError struct {
	Operation string
	Err       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ReconciliationError is a failure while syncing one event source or permission grant.
type ReconciliationError struct {
	Kind   string
	Target string
	Err    error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("failed to reconcile %s %s: %v", e.Kind, e.Target, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
