package jkclient

import (
	"time"

	"github.com/weekenthralling/jkclient/internal/gateway"
)

// WithGateway injects a resource gateway, bypassing cluster credential
// resolution. Exported only for use in test packages (package
// jkclient_test) so the full lifecycle runs against a fake.
var WithGateway = withGateway

// ConfigSnapshot holds a copy of clientConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	Group   string
	Version string
	Kind    string
	Plural  string
	Timeout time.Duration
	Source  MetadataSource
}

// ApplyOptionsForTesting creates a default clientConfig, applies the
// given options, and returns a ConfigSnapshot of the result. This tests
// the option closures directly without building a client.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return ConfigSnapshot{
		Group:   cfg.cfg.Group,
		Version: cfg.cfg.Version,
		Kind:    cfg.cfg.Kind,
		Plural:  cfg.cfg.Plural,
		Timeout: cfg.cfg.Timeout,
		Source:  cfg.cfg.Source,
	}
}

// GatewayInterface re-exports the internal gateway contract so the
// external test package can declare fakes against it.
type GatewayInterface = gateway.Interface
