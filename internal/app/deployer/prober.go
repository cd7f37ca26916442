package deployer

import (
	"context"

	"github.com/dennishilgert/lambdeploy/internal/pkg/diagnostics"
	"github.com/dennishilgert/lambdeploy/internal/pkg/platform"
)

// Existence is the outcome of probing for a function.
type Existence int

const (
	Exists Existence = iota
	NotFound
)

func (e Existence) String() string {
	switch e {
	case Exists:
		return "exists"
	case NotFound:
		return "not found"
	}
	return "unknown"
}

type ExistenceProber interface {
	Probe(ctx context.Context, functionName string) (Existence, error)
}

type existenceProber struct {
	platform    platform.Platform
	diagnostics diagnostics.Sink
}

func NewExistenceProber(platform platform.Platform, diagnosticsSink diagnostics.Sink) ExistenceProber {
	return &existenceProber{
		platform:    platform,
		diagnostics: diagnosticsSink,
	}
}

// Probe reports whether the function exists. Every failure other than not
// found is returned as a RemoteError and is not retried.
func (p *existenceProber) Probe(ctx context.Context, functionName string) (Existence, error) {
	_, err := p.platform.GetFunction(ctx, functionName)
	if err == nil {
		return Exists, nil
	}
	if platform.IsNotFound(err) {
		return NotFound, nil
	}
	p.diagnostics.Emit(hintProbeFailed)
	return NotFound, &RemoteError{Operation: "get function", Err: err}
}
