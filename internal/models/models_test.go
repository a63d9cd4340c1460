package models

import (
	"reflect"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/weekenthralling/jkclient/internal/decode"
)

func newRegistry() *decode.Registry {
	r := decode.NewRegistry()
	Register(r)
	return r
}

func TestStatusReady(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status *V1KernelStatus
		want   bool
	}{
		"nil status": {status: nil, want: false},
		"no conditions": {
			status: &V1KernelStatus{},
			want:   false,
		},
		"ready true": {
			status: &V1KernelStatus{Conditions: []V1KernelCondition{
				{Type: "Ready", Status: "True"},
			}},
			want: true,
		},
		"ready false": {
			status: &V1KernelStatus{Conditions: []V1KernelCondition{
				{Type: "Ready", Status: "False"},
			}},
			want: false,
		},
		"other condition true": {
			status: &V1KernelStatus{Conditions: []V1KernelCondition{
				{Type: "Other", Status: "True"},
			}},
			want: false,
		},
		"ready among others": {
			status: &V1KernelStatus{Conditions: []V1KernelCondition{
				{Type: "Progressing", Status: "False"},
				{Type: "Ready", Status: "True"},
			}},
			want: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.status.Ready(); got != tc.want {
				t.Errorf("Ready() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeKernel(t *testing.T) {
	t.Parallel()

	wire := map[string]any{
		"apiVersion": "jupyter.org/v1",
		"kind":       "Kernel",
		"metadata": map[string]any{
			"name":      "jovyan-abc123",
			"namespace": "default",
			"labels":    map[string]any{"jupyter.org/kernel-id": "abc123"},
		},
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{
						map[string]any{
							"name":  "main",
							"image": "img:tag",
							"env": []any{
								map[string]any{"name": "KERNEL_ID", "value": "abc123"},
							},
						},
					},
					"restartPolicy": "Never",
				},
			},
		},
		"status": map[string]any{
			"conditions": []any{
				map[string]any{"type": "Ready", "status": "True"},
			},
		},
	}

	v, err := newRegistry().Deserialize(wire, "V1Kernel")
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	k := v.(*V1Kernel)

	if k.APIVersion != "jupyter.org/v1" || k.Kind != "Kernel" {
		t.Errorf("type meta = %s/%s", k.APIVersion, k.Kind)
	}
	if k.Metadata.Name != "jovyan-abc123" || k.Metadata.Namespace != "default" {
		t.Errorf("metadata = %+v", k.Metadata)
	}
	if got := k.Metadata.Labels["jupyter.org/kernel-id"]; got != "abc123" {
		t.Errorf("kernel-id label = %q", got)
	}
	if len(k.Spec.Template.Spec.Containers) != 1 {
		t.Fatalf("containers = %d, want 1", len(k.Spec.Template.Spec.Containers))
	}
	c := k.Spec.Template.Spec.Containers[0]
	if c.Image != "img:tag" || c.Name != "main" {
		t.Errorf("container = %+v", c)
	}
	if k.Spec.Template.Spec.RestartPolicy != corev1.RestartPolicyNever {
		t.Errorf("restartPolicy = %q", k.Spec.Template.Spec.RestartPolicy)
	}
	if !k.Status.Ready() {
		t.Error("status should evaluate ready")
	}
}

func TestDecodeKernel_AbsentFieldsStayZero(t *testing.T) {
	t.Parallel()

	v, err := newRegistry().Deserialize(map[string]any{"kind": "Kernel"}, "V1Kernel")
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	k := v.(*V1Kernel)
	if k.APIVersion != "" || k.Metadata.Name != "" || k.Status != nil {
		t.Errorf("absent fields should stay zero, got %+v", k)
	}
}

func TestKernelRoundTrip(t *testing.T) {
	t.Parallel()

	orig := &V1Kernel{
		APIVersion: "jupyter.org/v1",
		Kind:       "Kernel",
		Metadata: metav1.ObjectMeta{
			Name:      "jovyan-abc123",
			Namespace: "default",
			Labels:    map[string]string{"jupyter.org/kernel-id": "abc123"},
			Annotations: map[string]string{
				"jupyter.org/kernel-connection-info": `{"shell_port":52317}`,
			},
		},
		Spec: V1KernelSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:       "main",
						Image:      "img:tag",
						WorkingDir: "/mnt/data",
						Env: []corev1.EnvVar{
							{Name: "KERNEL_ID", Value: "abc123"},
						},
						VolumeMounts: []corev1.VolumeMount{
							{Name: "v", MountPath: "/m"},
						},
					}},
					RestartPolicy: corev1.RestartPolicyNever,
					Volumes: []corev1.Volume{{
						Name: "v",
						VolumeSource: corev1.VolumeSource{
							NFS: &corev1.NFSVolumeSource{Server: "10.0.0.29", Path: "/data"},
						},
					}},
				},
			},
		},
		Status: &V1KernelStatus{Conditions: []V1KernelCondition{
			{Type: "Ready", Status: "True", Reason: "PodRunning", Message: "kernel pod is running"},
		}},
	}

	obj, err := orig.ToUnstructured()
	if err != nil {
		t.Fatalf("ToUnstructured() error: %v", err)
	}
	v, err := newRegistry().Deserialize(obj.Object, "V1Kernel")
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}

	if got := v.(*V1Kernel); !reflect.DeepEqual(got, orig) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}
