package jkclient

import (
	"github.com/weekenthralling/jkclient/internal/core"
	"github.com/weekenthralling/jkclient/internal/decode"
	"github.com/weekenthralling/jkclient/internal/gateway"
)

// Error types are aliases into the lifecycle engine so errors.As works
// the same whether callers match against this package or receive an
// error forwarded through their own layers.

// ValidationError reports a request rejected before any network call:
// a missing KERNEL_IMAGE or KERNEL_ID, or a malformed structured field.
type ValidationError = core.ValidationError

// ForbiddenError reports a kernel creation denied by the cluster,
// typically RBAC or an admission webhook. It wraps the API status error.
type ForbiddenError = core.ForbiddenError

// NotFoundError reports a Get for a kernel that does not exist.
type NotFoundError = core.NotFoundError

// GatewayError reports any other failed interaction with the cluster
// API, carrying the operation, the target, and the HTTP status.
type GatewayError = core.GatewayError

// TimeoutError reports a kernel that did not become ready within the
// budget. The orphaned resource is deleted before the error returns;
// CleanupErr records a failed cleanup attempt, nil otherwise.
type TimeoutError = core.TimeoutError

// FormatError reports wire data that does not conform to its declared
// type, such as an unparseable timestamp or malformed connection info.
type FormatError = decode.FormatError

// UnknownTypeError reports a wire payload referencing a model type that
// is not registered.
type UnknownTypeError = decode.UnknownTypeError

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrCRDNotFound is returned by VerifyCRD when the Kernel
	// CustomResourceDefinition is not installed in the cluster.
	ErrCRDNotFound = gateway.ErrCRDNotFound

	// ErrCRDNotEstablished is returned by VerifyCRD when the definition
	// exists but the API server has not accepted it yet.
	ErrCRDNotEstablished = gateway.ErrCRDNotEstablished
)
