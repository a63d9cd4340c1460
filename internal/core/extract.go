package core

import (
	"encoding/json"

	"github.com/weekenthralling/jkclient/internal/decode"
	"github.com/weekenthralling/jkclient/internal/models"
)

// extractKernel reads kernel identity and connection metadata off a
// ready resource object and assembles the caller-facing result. The
// configured metadata source is consulted first with a fallback to the
// other location (the key moved from labels to annotations across
// resource-schema versions). No network I/O happens here; the only
// failure mode is a malformed connection payload.
func (c *Client) extractKernel(name string, obj *models.V1Kernel) (*Kernel, error) {
	primary, fallback := obj.Metadata.Annotations, obj.Metadata.Labels
	if c.cfg.Source == MetadataLabels {
		primary, fallback = fallback, primary
	}

	connInfo := map[string]any{}
	if raw := metadataValue(primary, fallback, KeyConnectionInfo); raw != "" {
		if err := json.Unmarshal([]byte(raw), &connInfo); err != nil {
			return nil, &decode.FormatError{Value: raw, Target: "kernel connection info", Err: err}
		}
	}

	return &Kernel{
		Name:     name,
		KernelID: metadataValue(primary, fallback, KeyKernelID),
		ConnInfo: connInfo,
	}, nil
}

// metadataValue returns key from primary, falling back to the secondary
// location when primary lacks it entirely.
func metadataValue(primary, fallback map[string]string, key string) string {
	if v, ok := primary[key]; ok {
		return v
	}
	return fallback[key]
}
