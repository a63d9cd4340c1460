// Package models defines the typed domain models for the Kernel custom
// resource and registers their decoders into a decode.Registry.
//
// The domain models (V1Kernel and friends) decode through hand-written
// field tables; the pod-template shapes nested inside them are the
// resource API's own generated types (k8s.io/api), decoded through the
// apimachinery unstructured converter and registered in the generated
// namespace.
package models

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/weekenthralling/jkclient/internal/decode"
)

// ConditionReady is the condition type the kernel controller sets once
// the kernel pod is provisioned and its connection info is published.
const ConditionReady = "Ready"

// ConditionTrue is the status value of a satisfied condition.
const ConditionTrue = "True"

// V1Kernel is the wire representation of a Kernel custom resource.
type V1Kernel struct {
	APIVersion string
	Kind       string
	Metadata   metav1.ObjectMeta
	Spec       V1KernelSpec
	Status     *V1KernelStatus
}

// V1KernelSpec holds the pod template the controller launches the
// kernel process from.
type V1KernelSpec struct {
	Template corev1.PodTemplateSpec
}

// V1KernelStatus carries the provisioning conditions written back by
// the controller.
type V1KernelStatus struct {
	Conditions []V1KernelCondition
}

// V1KernelCondition is one entry of status.conditions.
type V1KernelCondition struct {
	Type    string
	Status  string
	Reason  string
	Message string
}

// Ready reports whether the status carries a Ready condition with
// status True. A nil status, an empty condition list, or a Ready
// condition with any other status all report false.
func (s *V1KernelStatus) Ready() bool {
	if s == nil {
		return false
	}
	for _, c := range s.Conditions {
		if c.Type == ConditionReady {
			return c.Status == ConditionTrue
		}
	}
	return false
}

// Register adds the kernel domain models and the generated resource-API
// models they reference to the registry. Call once at client
// construction before the registry is shared.
func Register(r *decode.Registry) {
	r.Register("V1Kernel", decodeKernel)
	r.Register("V1KernelSpec", decodeKernelSpec)
	r.Register("V1KernelStatus", decodeKernelStatus)
	r.Register("V1KernelCondition", decodeKernelCondition)

	r.RegisterGenerated("V1ObjectMeta", structDecoder[metav1.ObjectMeta]("V1ObjectMeta"))
	r.RegisterGenerated("V1PodTemplateSpec", structDecoder[corev1.PodTemplateSpec]("V1PodTemplateSpec"))
	r.RegisterGenerated("V1PodSpec", structDecoder[corev1.PodSpec]("V1PodSpec"))
	r.RegisterGenerated("V1Container", structDecoder[corev1.Container]("V1Container"))
	r.RegisterGenerated("V1EnvVar", structDecoder[corev1.EnvVar]("V1EnvVar"))
	r.RegisterGenerated("V1Volume", structDecoder[corev1.Volume]("V1Volume"))
	r.RegisterGenerated("V1VolumeMount", structDecoder[corev1.VolumeMount]("V1VolumeMount"))
}

// structDecoder adapts a generated resource-API struct to a DecodeFunc
// through the apimachinery unstructured converter.
func structDecoder[T any](name string) decode.DecodeFunc {
	return func(_ *decode.Registry, data any) (any, error) {
		m, ok := data.(map[string]any)
		if !ok {
			return nil, &decode.FormatError{Value: stringify(data), Target: name}
		}
		out := new(T)
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, out); err != nil {
			return nil, &decode.FormatError{Value: stringify(data), Target: name, Err: err}
		}
		return out, nil
	}
}

func decodeKernel(r *decode.Registry, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &decode.FormatError{Value: stringify(data), Target: "V1Kernel"}
	}
	k := &V1Kernel{}
	if v, ok, err := r.Field(m, "apiVersion", "str"); err != nil {
		return nil, err
	} else if ok {
		k.APIVersion, _ = v.(string)
	}
	if v, ok, err := r.Field(m, "kind", "str"); err != nil {
		return nil, err
	} else if ok {
		k.Kind, _ = v.(string)
	}
	if v, ok, err := r.Field(m, "metadata", "V1ObjectMeta"); err != nil {
		return nil, err
	} else if ok {
		k.Metadata = *v.(*metav1.ObjectMeta)
	}
	if v, ok, err := r.Field(m, "spec", "V1KernelSpec"); err != nil {
		return nil, err
	} else if ok {
		k.Spec = *v.(*V1KernelSpec)
	}
	if v, ok, err := r.Field(m, "status", "V1KernelStatus"); err != nil {
		return nil, err
	} else if ok {
		k.Status = v.(*V1KernelStatus)
	}
	return k, nil
}

func decodeKernelSpec(r *decode.Registry, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &decode.FormatError{Value: stringify(data), Target: "V1KernelSpec"}
	}
	s := &V1KernelSpec{}
	if v, ok, err := r.Field(m, "template", "V1PodTemplateSpec"); err != nil {
		return nil, err
	} else if ok {
		s.Template = *v.(*corev1.PodTemplateSpec)
	}
	return s, nil
}

func decodeKernelStatus(r *decode.Registry, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &decode.FormatError{Value: stringify(data), Target: "V1KernelStatus"}
	}
	s := &V1KernelStatus{}
	if v, ok, err := r.Field(m, "conditions", "list[V1KernelCondition]"); err != nil {
		return nil, err
	} else if ok {
		items := v.([]any)
		s.Conditions = make([]V1KernelCondition, 0, len(items))
		for _, item := range items {
			s.Conditions = append(s.Conditions, *item.(*V1KernelCondition))
		}
	}
	return s, nil
}

func decodeKernelCondition(r *decode.Registry, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &decode.FormatError{Value: stringify(data), Target: "V1KernelCondition"}
	}
	c := &V1KernelCondition{}
	for wireKey, dst := range map[string]*string{
		"type":    &c.Type,
		"status":  &c.Status,
		"reason":  &c.Reason,
		"message": &c.Message,
	} {
		if v, ok, err := r.Field(m, wireKey, "str"); err != nil {
			return nil, err
		} else if ok {
			*dst, _ = v.(string)
		}
	}
	return c, nil
}

// ToUnstructured converts the kernel into its wire form for submission
// through the dynamic client.
func (k *V1Kernel) ToUnstructured() (*unstructured.Unstructured, error) {
	meta, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&k.Metadata)
	if err != nil {
		return nil, err
	}
	tmpl, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&k.Spec.Template)
	if err != nil {
		return nil, err
	}

	obj := map[string]any{
		"apiVersion": k.APIVersion,
		"kind":       k.Kind,
		"metadata":   meta,
		"spec": map[string]any{
			"template": tmpl,
		},
	}
	if k.Status != nil {
		conditions := make([]any, 0, len(k.Status.Conditions))
		for _, c := range k.Status.Conditions {
			cond := map[string]any{
				"type":   c.Type,
				"status": c.Status,
			}
			if c.Reason != "" {
				cond["reason"] = c.Reason
			}
			if c.Message != "" {
				cond["message"] = c.Message
			}
			conditions = append(conditions, cond)
		}
		obj["status"] = map[string]any{"conditions": conditions}
	}
	return &unstructured.Unstructured{Object: obj}, nil
}

func stringify(data any) string {
	switch v := data.(type) {
	case string:
		return v
	default:
		return "<non-mapping payload>"
	}
}
