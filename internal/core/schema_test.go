package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func planningClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{Gateway: newFakeGateway(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestPlanKernel_Defaults(t *testing.T) {
	t.Parallel()

	c := planningClient(t)
	plan, err := c.planKernel(CreateKernelRequest{Env: map[string]any{
		EnvKernelImage: "img:tag",
		EnvKernelID:    "abc123",
	}})
	if err != nil {
		t.Fatalf("planKernel() error: %v", err)
	}

	if plan.name != "jovyan-abc123" {
		t.Errorf("name = %q, want jovyan-abc123", plan.name)
	}
	if plan.namespace != "default" {
		t.Errorf("namespace = %q, want default", plan.namespace)
	}
	if plan.kernelID != "abc123" {
		t.Errorf("kernelID = %q, want abc123", plan.kernelID)
	}
}

func TestPlanKernel_ExplicitIdentity(t *testing.T) {
	t.Parallel()

	c := planningClient(t)
	plan, err := c.planKernel(CreateKernelRequest{
		Name: "custom-name",
		Env: map[string]any{
			EnvKernelImage:     "img:tag",
			EnvKernelID:        "abc123",
			EnvKernelUsername:  "alice",
			EnvKernelNamespace: "team-1",
		},
	})
	if err != nil {
		t.Fatalf("planKernel() error: %v", err)
	}
	if plan.name != "custom-name" {
		t.Errorf("name = %q, want the explicit request name", plan.name)
	}
	if plan.namespace != "team-1" {
		t.Errorf("namespace = %q, want team-1", plan.namespace)
	}
}

func TestPlanKernel_UsernameInGeneratedName(t *testing.T) {
	t.Parallel()

	c := planningClient(t)
	plan, err := c.planKernel(CreateKernelRequest{Env: map[string]any{
		EnvKernelImage:    "img:tag",
		EnvKernelID:       "abc123",
		EnvKernelUsername: "alice",
	}})
	if err != nil {
		t.Fatalf("planKernel() error: %v", err)
	}
	if plan.name != "alice-abc123" {
		t.Errorf("name = %q, want alice-abc123", plan.name)
	}
}

func TestPlanKernel_BodyShape(t *testing.T) {
	t.Parallel()

	c := planningClient(t)
	plan, err := c.planKernel(CreateKernelRequest{Env: map[string]any{
		EnvKernelImage:      "img:tag",
		EnvKernelID:         "abc123",
		EnvKernelWorkingDir: "/mnt/data",
		"KERNEL_IDLE_TIMEOUT": "1800",
	}})
	if err != nil {
		t.Fatalf("planKernel() error: %v", err)
	}

	meta := plan.body["metadata"].(map[string]any)
	if got := meta["labels"].(map[string]any)[KeyKernelID]; got != "abc123" {
		t.Errorf("kernel-id label = %v", got)
	}

	spec := plan.body["spec"].(map[string]any)["template"].(map[string]any)["spec"].(map[string]any)
	if spec["restartPolicy"] != "Never" {
		t.Errorf("restartPolicy = %v, want Never", spec["restartPolicy"])
	}
	container := spec["containers"].([]any)[0].(map[string]any)
	if container["workingDir"] != "/mnt/data" {
		t.Errorf("workingDir = %v", container["workingDir"])
	}

	// Container env is sorted by name so identical requests build
	// identical bodies.
	var names []string
	for _, raw := range container["env"].([]any) {
		names = append(names, raw.(map[string]any)["name"].(string))
	}
	want := []string{"KERNEL_ID", "KERNEL_IDLE_TIMEOUT", "KERNEL_IMAGE", "KERNEL_WORKING_DIR"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("env names = %v, want %v", names, want)
	}
}

func TestNormalizeStructuredList(t *testing.T) {
	t.Parallel()

	jsonStr := `[{"name":"v","mountPath":"/m"}]`
	var fromJSON []any
	if err := json.Unmarshal([]byte(jsonStr), &fromJSON); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		in      any
		want    []any
		wantErr bool
	}{
		"nil becomes empty list": {in: nil, want: []any{}},
		"native list passthrough": {
			in:   []any{map[string]any{"name": "v"}},
			want: []any{map[string]any{"name": "v"}},
		},
		"typed map slice": {
			in:   []map[string]any{{"name": "v"}},
			want: []any{map[string]any{"name": "v"}},
		},
		"json string decodes": {in: jsonStr, want: fromJSON},
		"json object rejected": {in: `{"name":"v"}`, wantErr: true},
		"malformed json rejected": {in: `[{"name":`, wantErr: true},
		"scalar rejected":         {in: 42, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeStructuredList("KERNEL_VOLUME_MOUNTS", tc.in)
			if tc.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("got %v, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeStructuredList() error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	if cfg.Group != "jupyter.org" || cfg.Version != "v1" || cfg.Kind != "Kernel" || cfg.Plural != "kernels" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.APIVersion() != "jupyter.org/v1" {
		t.Errorf("APIVersion() = %q", cfg.APIVersion())
	}
	gvr := cfg.GVR()
	if gvr.Group != "jupyter.org" || gvr.Version != "v1" || gvr.Resource != "kernels" {
		t.Errorf("GVR() = %v", gvr)
	}
}
