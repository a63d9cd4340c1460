package core

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Environment keys with dedicated meaning in a create request. Every
// other key is passed to the kernel container verbatim as an
// environment variable.
const (
	EnvKernelID         = "KERNEL_ID"
	EnvKernelImage      = "KERNEL_IMAGE"
	EnvKernelUsername   = "KERNEL_USERNAME"
	EnvKernelNamespace  = "KERNEL_NAMESPACE"
	EnvKernelWorkingDir = "KERNEL_WORKING_DIR"
	EnvKernelVolumes    = "KERNEL_VOLUMES"
	EnvKernelVolMounts  = "KERNEL_VOLUME_MOUNTS"
)

// Metadata keys the kernel controller and this client exchange identity
// and connection info through.
const (
	// KeyKernelID labels and annotates a kernel resource with the
	// kernel identifier.
	KeyKernelID = "jupyter.org/kernel-id"

	// KeyConnectionInfo annotates a ready kernel resource with its
	// JSON-encoded connection payload.
	KeyConnectionInfo = "jupyter.org/kernel-connection-info"
)

// CreateKernelRequest describes the kernel to launch. Name is optional;
// when empty the resource name is derived from KERNEL_USERNAME and
// KERNEL_ID. Env must carry KERNEL_IMAGE and KERNEL_ID.
type CreateKernelRequest struct {
	Name string
	Env  map[string]any
}

// Kernel is the caller-facing result of a successful lifecycle call.
// It is only produced once readiness is confirmed and is never
// partially populated.
type Kernel struct {
	Name     string
	KernelID string
	ConnInfo map[string]any
}

// kernelPlan is the outcome of validating and normalizing a create
// request: the resolved identity plus the wire body to submit.
type kernelPlan struct {
	name      string
	namespace string
	kernelID  string
	body      map[string]any
}

// planKernel validates req and builds the resource body. It performs no
// network I/O; every failure is a *ValidationError.
func (c *Client) planKernel(req CreateKernelRequest) (*kernelPlan, error) {
	env := make(map[string]any, len(req.Env))
	for k, v := range req.Env {
		env[k] = v
	}

	image := stringValue(env[EnvKernelImage])
	if image == "" {
		return nil, &ValidationError{Field: EnvKernelImage, Reason: "must be specified"}
	}
	kernelID := stringValue(env[EnvKernelID])
	if kernelID == "" {
		return nil, &ValidationError{Field: EnvKernelID, Reason: "must be specified"}
	}

	username := stringValue(env[EnvKernelUsername])
	if username == "" {
		username = DefaultUsername
	}
	namespace := stringValue(env[EnvKernelNamespace])
	if namespace == "" {
		namespace = DefaultNamespace
	}
	name := req.Name
	if name == "" {
		name = username + "-" + kernelID
	}

	volumes, err := normalizeStructuredList(EnvKernelVolumes, env[EnvKernelVolumes])
	if err != nil {
		return nil, err
	}
	mounts, err := normalizeStructuredList(EnvKernelVolMounts, env[EnvKernelVolMounts])
	if err != nil {
		return nil, err
	}
	delete(env, EnvKernelVolumes)
	delete(env, EnvKernelVolMounts)

	container := map[string]any{
		"name":         "main",
		"image":        image,
		"env":          containerEnv(env),
		"volumeMounts": mounts,
	}
	if wd := stringValue(env[EnvKernelWorkingDir]); wd != "" {
		container["workingDir"] = wd
	}

	body := map[string]any{
		"apiVersion": c.cfg.APIVersion(),
		"kind":       c.cfg.Kind,
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
			"labels":    map[string]any{KeyKernelID: kernelID},
		},
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers":    []any{container},
					"restartPolicy": "Never",
					"volumes":       volumes,
				},
			},
		},
	}

	return &kernelPlan{name: name, namespace: namespace, kernelID: kernelID, body: body}, nil
}

// containerEnv converts the remaining request environment into
// name/value pairs. Keys are emitted in sorted order so a given request
// always produces the same body.
func containerEnv(env map[string]any) []any {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, map[string]any{"name": k, "value": stringValue(env[k])})
	}
	return out
}

// normalizeStructuredList accepts the two shapes KERNEL_VOLUMES and
// KERNEL_VOLUME_MOUNTS arrive in — a native list of mappings or a
// JSON-encoded string decoding to one — and returns the list form.
// A nil value normalizes to an empty list; anything else is a
// validation error.
func normalizeStructuredList(field string, v any) ([]any, error) {
	switch val := v.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return val, nil
	case []map[string]any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, item)
		}
		return out, nil
	case string:
		var out []any
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil, &ValidationError{Field: field, Reason: "must be a JSON-encoded list: " + err.Error()}
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("must be a list or JSON-encoded list, got %T", v)}
	}
}

// stringValue renders a request environment value as a string. Missing
// values (nil) render empty; scalars render through fmt.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
