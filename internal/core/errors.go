package core

import (
	"errors"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ValidationError reports a create request rejected before any network
// call, naming the offending environment key.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid kernel request: %s %s", e.Field, e.Reason)
}

// ForbiddenError reports a creation denied by the cluster (HTTP 403),
// typically a quota or policy condition the caller should not blindly
// retry.
type ForbiddenError struct {
	Name      string
	Namespace string
	Err       error
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf(
		"kernel %s/%s creation forbidden: check permissions or resource quota limits: %v",
		e.Namespace, e.Name, e.Err,
	)
}

func (e *ForbiddenError) Unwrap() error { return e.Err }

// NotFoundError reports a Get for a kernel that does not exist. The
// public contract for Get is to raise on a missing resource rather than
// return an empty result.
type NotFoundError struct {
	Name      string
	Namespace string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("kernel %s/%s not found", e.Namespace, e.Name)
}

// GatewayError is the catch-all for API failures that have no more
// specific classification. It carries the upstream status code and
// reason alongside the failing operation and target.
type GatewayError struct {
	Op        string
	Name      string
	Namespace string
	Status    int32
	Reason    string
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s kernel %s/%s: %d %s", e.Op, e.Namespace, e.Name, e.Status, e.Reason)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// TimeoutError reports that readiness was not observed within the
// budget. Cleanup of the orphaned resource is attempted before this is
// returned; a cleanup failure is attached as CleanupErr, never raised
// in place of the timeout itself.
type TimeoutError struct {
	Name       string
	Namespace  string
	Budget     time.Duration
	CleanupErr error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("kernel %s/%s not ready within %s", e.Namespace, e.Name, e.Budget)
	if e.CleanupErr != nil {
		msg += fmt.Sprintf(" (cleanup also failed: %v)", e.CleanupErr)
	}
	return msg
}

// gatewayError wraps an API error into a GatewayError, lifting the
// status code and reason off the apimachinery status error when present.
func gatewayError(op, name, namespace string, err error) error {
	ge := &GatewayError{Op: op, Name: name, Namespace: namespace, Err: err}
	var se *apierrors.StatusError
	if errors.As(err, &se) {
		ge.Status = se.ErrStatus.Code
		ge.Reason = string(se.ErrStatus.Reason)
		if ge.Reason == "" {
			ge.Reason = se.ErrStatus.Message
		}
	} else {
		ge.Reason = err.Error()
	}
	return ge
}
