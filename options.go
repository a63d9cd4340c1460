package jkclient

import (
	"fmt"
	"time"

	"github.com/weekenthralling/jkclient/internal/core"
	"github.com/weekenthralling/jkclient/internal/gateway"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive(name string, v time.Duration) {
	if v <= 0 {
		panic(fmt.Sprintf("jkclient: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("jkclient: %s must not be empty", name))
	}
}

// Option configures a Client during construction via New.
// Each With* function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (empty API group
// fragments, non-positive durations, unknown metadata sources). These
// panics are intentional: option values are typically compile-time
// constants, so an invalid value indicates a programmer error rather
// than a runtime condition. The pattern mirrors [regexp.MustCompile] —
// fail fast during initialization instead of returning errors that
// would be universally fatal anyway.
type Option func(*clientConfig)

// clientConfig collects option values before they are handed to the
// lifecycle engine.
type clientConfig struct {
	cfg core.Config
}

func defaultClientConfig() clientConfig {
	return clientConfig{cfg: core.Config{}}
}

func (c clientConfig) toCoreConfig() core.Config {
	return c.cfg
}

// WithGroup sets the API group of the Kernel custom resource.
//
// Default: "jupyter.org".
//
// Panics if group is empty.
func WithGroup(group string) Option {
	requireNonEmpty("API group", group)
	return func(c *clientConfig) {
		c.cfg.Group = group
	}
}

// WithVersion sets the API version of the Kernel custom resource.
//
// Default: "v1".
//
// Panics if version is empty.
func WithVersion(version string) Option {
	requireNonEmpty("API version", version)
	return func(c *clientConfig) {
		c.cfg.Version = version
	}
}

// WithKind sets the kind of the Kernel custom resource.
//
// Default: "Kernel".
//
// Panics if kind is empty.
func WithKind(kind string) Option {
	requireNonEmpty("resource kind", kind)
	return func(c *clientConfig) {
		c.cfg.Kind = kind
	}
}

// WithPlural sets the plural resource name used on the REST path.
//
// Default: "kernels".
//
// Panics if plural is empty.
func WithPlural(plural string) Option {
	requireNonEmpty("resource plural", plural)
	return func(c *clientConfig) {
		c.cfg.Plural = plural
	}
}

// WithTimeout sets the default per-operation budget applied when a
// lifecycle call is given a timeout of 0. For Create and Get the
// budget covers both the API request and the readiness wait, so set it
// high enough for kernel pod scheduling and image pulls (~10-60s).
//
// Default: 60 seconds.
//
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	requirePositive("default timeout", d)
	return func(c *clientConfig) {
		c.cfg.Timeout = d
	}
}

// WithMetadataSource selects where kernel identity and connection info
// are read from on a ready resource: MetadataAnnotations for the
// current resource schema, MetadataLabels for clusters running the
// older controller. Whichever is selected is consulted first; the
// other location remains a fallback for keys absent from the primary.
//
// Default: MetadataAnnotations.
//
// Panics if source is not a declared MetadataSource value.
func WithMetadataSource(source MetadataSource) Option {
	if !source.IsValid() {
		panic(fmt.Sprintf("jkclient: unknown metadata source %d", source))
	}
	return func(c *clientConfig) {
		c.cfg.Source = source
	}
}

// withGateway injects a resource gateway, bypassing cluster credential
// resolution. Used by tests to run the full lifecycle against a fake.
func withGateway(gw gateway.Interface) Option {
	return func(c *clientConfig) {
		c.cfg.Gateway = gw
	}
}
