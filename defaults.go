package jkclient

import "github.com/weekenthralling/jkclient/internal/core"

// Default configuration values for New.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultTimeout).
const (
	// DefaultGroup is the API group of the Kernel custom resource.
	DefaultGroup = core.DefaultGroup

	// DefaultVersion is the API version of the Kernel custom resource.
	DefaultVersion = core.DefaultVersion

	// DefaultKind is the kind of the Kernel custom resource.
	DefaultKind = core.DefaultKind

	// DefaultPlural is the plural resource name on the REST path.
	DefaultPlural = core.DefaultPlural

	// DefaultTimeout is the per-operation budget applied when a
	// lifecycle call is given a timeout of 0. For Create and Get it
	// covers both the API request and the readiness wait.
	DefaultTimeout = core.DefaultTimeout

	// DefaultUsername substitutes for an absent KERNEL_USERNAME when
	// deriving a kernel resource name.
	DefaultUsername = core.DefaultUsername

	// DefaultNamespace is where kernels land when the request carries
	// no KERNEL_NAMESPACE.
	DefaultNamespace = core.DefaultNamespace
)

// Metadata keys the controller publishes on a kernel resource. Exported
// so callers can build label selectors for Purge or locate kernels
// through their own tooling.
const (
	// KeyKernelID carries the kernel identifier.
	KeyKernelID = core.KeyKernelID

	// KeyConnectionInfo carries the JSON-encoded connection info.
	KeyConnectionInfo = core.KeyConnectionInfo
)
