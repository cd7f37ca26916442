package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a failed platform call that carries the status code reported by the platform.
type StatusError struct {
	Operation  string
	StatusCode int
	Code       string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s failed with status %d (%s): %v", e.Operation, e.StatusCode, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed with status %d: %v", e.Operation, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewNotFoundError returns a StatusError with the not found status code.
func NewNotFoundError(operation string, err error) error {
	return &StatusError{
		Operation:  operation,
		StatusCode: http.StatusNotFound,
		Code:       "ResourceNotFoundException",
		Err:        err,
	}
}

// IsNotFound reports whether err is a platform error with the not found status code.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}
	return false
}

// StatusCode returns the status code carried by err or 0 if there is none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// ErrNotReady is returned together with the function record when a call was
// applied but the function did not reach a ready state within the wait timeout.
var ErrNotReady = errors.New("function is not ready")

// IsNotReady reports whether the call was applied but the function is not ready yet.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}
