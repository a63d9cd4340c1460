// Package gateway wraps the Kubernetes API surface the lifecycle client
// consumes: namespaced create/get/delete, cluster-scoped list, and
// namespaced watch for one custom resource type.
//
// Errors from the dynamic client pass through unmodified as apimachinery
// status errors; classification (conflict, forbidden, not-found) is the
// caller's concern via k8s.io/apimachinery/pkg/api/errors.
package gateway

import (
	"context"
	"fmt"

	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"
)

// Interface is the capability contract consumed by the lifecycle client.
// Implementations must be safe for concurrent use; the production
// implementation is a thin stateless wrapper over the dynamic client.
type Interface interface {
	// Create submits obj in the given namespace and returns the stored
	// object as the API server recorded it.
	Create(ctx context.Context, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)

	// Get fetches one resource by name.
	Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error)

	// Delete removes one resource by name.
	Delete(ctx context.Context, namespace, name string) error

	// List returns all resources across namespaces matching the label
	// selector, in the API server's own listing order.
	List(ctx context.Context, labelSelector string) (*unstructured.UnstructuredList, error)

	// Watch opens a namespaced event stream. The stream self-terminates
	// after timeoutSeconds; callers must Stop it on every exit path.
	Watch(ctx context.Context, namespace string, timeoutSeconds int64) (watch.Interface, error)
}

// Compile-time interface satisfaction check.
var _ Interface = (*Gateway)(nil)

// Gateway implements Interface over a dynamic client bound to a single
// GroupVersionResource. It holds no mutable state after construction.
type Gateway struct {
	dyn dynamic.Interface
	ext apiextensionsclient.Interface
	gvr schema.GroupVersionResource
}

// New builds a Gateway from the ambient cluster configuration:
// in-cluster service account credentials when running inside a pod,
// falling back to the default kubeconfig chain otherwise.
func New(gvr schema.GroupVersionResource) (*Gateway, error) {
	cfg, err := loadRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("load cluster config: %w", err)
	}
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	ext, err := apiextensionsclient.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create apiextensions client: %w", err)
	}
	return &Gateway{dyn: dyn, ext: ext, gvr: gvr}, nil
}

// NewWithClients builds a Gateway from pre-constructed clients. Used by
// tests and by callers that manage their own rest.Config.
func NewWithClients(dyn dynamic.Interface, ext apiextensionsclient.Interface, gvr schema.GroupVersionResource) *Gateway {
	return &Gateway{dyn: dyn, ext: ext, gvr: gvr}
}

// GVR returns the GroupVersionResource this gateway is bound to.
func (g *Gateway) GVR() schema.GroupVersionResource {
	return g.gvr
}

func (g *Gateway) Create(ctx context.Context, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	return g.dyn.Resource(g.gvr).Namespace(namespace).Create(ctx, obj, metav1.CreateOptions{})
}

func (g *Gateway) Get(ctx context.Context, namespace, name string) (*unstructured.Unstructured, error) {
	return g.dyn.Resource(g.gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (g *Gateway) Delete(ctx context.Context, namespace, name string) error {
	return g.dyn.Resource(g.gvr).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
}

func (g *Gateway) List(ctx context.Context, labelSelector string) (*unstructured.UnstructuredList, error) {
	return g.dyn.Resource(g.gvr).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
}

func (g *Gateway) Watch(ctx context.Context, namespace string, timeoutSeconds int64) (watch.Interface, error) {
	opts := metav1.ListOptions{}
	if timeoutSeconds > 0 {
		opts.TimeoutSeconds = &timeoutSeconds
	}
	return g.dyn.Resource(g.gvr).Namespace(namespace).Watch(ctx, opts)
}
