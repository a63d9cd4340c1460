package core

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/weekenthralling/jkclient/internal/gateway"
)

// MetadataSource selects where the connection info extractor reads
// kernel identity and connection metadata from first. Annotations are
// the current resource-schema location; labels are the legacy one. The
// extractor always falls back to the other location when the preferred
// one lacks the key.
type MetadataSource int

const (
	// MetadataAnnotations prefers metadata.annotations. Default.
	MetadataAnnotations MetadataSource = iota

	// MetadataLabels prefers metadata.labels, for clusters running the
	// older controller that published identity there.
	MetadataLabels
)

// IsValid reports whether the value is a recognized source.
func (s MetadataSource) IsValid() bool {
	return s == MetadataAnnotations || s == MetadataLabels
}

// String returns the source name (implements fmt.Stringer).
func (s MetadataSource) String() string {
	switch s {
	case MetadataAnnotations:
		return "annotations"
	case MetadataLabels:
		return "labels"
	default:
		return fmt.Sprintf("MetadataSource(%d)", int(s))
	}
}

// Default configuration values. Exported through the root package so
// callers can build custom configurations relative to them.
const (
	// DefaultGroup is the API group of the Kernel custom resource.
	DefaultGroup = "jupyter.org"

	// DefaultVersion is the API version of the Kernel custom resource.
	DefaultVersion = "v1"

	// DefaultKind is the kind of the Kernel custom resource.
	DefaultKind = "Kernel"

	// DefaultPlural is the plural resource name used in API paths.
	DefaultPlural = "kernels"

	// DefaultTimeout bounds each lifecycle call, covering both the API
	// request and the readiness wait, when the caller passes 0.
	DefaultTimeout = 60 * time.Second

	// DefaultUsername is the placeholder identity used in generated
	// kernel names when KERNEL_USERNAME is absent.
	DefaultUsername = "jovyan"

	// DefaultNamespace is used when KERNEL_NAMESPACE is absent.
	DefaultNamespace = "default"
)

// cleanupTimeout bounds the best-effort delete issued after a readiness
// timeout. Kept separate from the caller's budget, which is already
// exhausted by the time cleanup runs.
const cleanupTimeout = 10 * time.Second

// purgeConcurrency caps concurrent deletes during Purge.
const purgeConcurrency = 10

// Config holds the construction-time configuration of a Client. The
// zero value is usable: withDefaults fills every unset field.
type Config struct {
	Group   string
	Version string
	Kind    string
	Plural  string

	// Timeout is the client-level default budget applied when a call
	// passes 0. There is no other fallback; per-call values always win.
	Timeout time.Duration

	// Source is where the extractor prefers to read kernel identity and
	// connection metadata from.
	Source MetadataSource

	// Gateway overrides the API gateway. When nil the client builds one
	// from the ambient cluster configuration.
	Gateway gateway.Interface
}

// withDefaults returns a copy of c with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Group == "" {
		c.Group = DefaultGroup
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Kind == "" {
		c.Kind = DefaultKind
	}
	if c.Plural == "" {
		c.Plural = DefaultPlural
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// APIVersion returns the group/version string written into resource
// bodies.
func (c Config) APIVersion() string {
	return c.Group + "/" + c.Version
}

// GVR returns the GroupVersionResource the gateway is bound to.
func (c Config) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: c.Group, Version: c.Version, Resource: c.Plural}
}
