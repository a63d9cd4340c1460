package jkclient

import (
	"context"
	"time"

	"github.com/weekenthralling/jkclient/internal/core"
)

// CreateKernelRequest describes the kernel to launch. Name is optional:
// when empty the resource name derives from KERNEL_USERNAME and
// KERNEL_ID as "{username}-{kernel_id}". Env must carry KERNEL_IMAGE
// and KERNEL_ID; KERNEL_VOLUMES and KERNEL_VOLUME_MOUNTS may be native
// lists of mappings or JSON-encoded strings decoding to one; every
// other key reaches the kernel container as an environment variable.
//
// CreateKernelRequest is a type alias so the request round-trips
// unchanged between the public API and the lifecycle engine.
type CreateKernelRequest = core.CreateKernelRequest

// Kernel is the result of a successful lifecycle call: the resource
// name, the kernel identifier, and the JSON-decoded connection info
// published by the controller. It is only produced once readiness is
// confirmed and is never partially populated.
type Kernel = core.Kernel

// MetadataSource selects where kernel identity and connection info are
// read from on a ready resource. See WithMetadataSource.
type MetadataSource = core.MetadataSource

const (
	// MetadataAnnotations reads metadata.annotations first. This is the
	// current resource-schema location and the default.
	MetadataAnnotations = core.MetadataAnnotations

	// MetadataLabels reads metadata.labels first, for clusters running
	// the older controller that published identity there.
	MetadataLabels = core.MetadataLabels
)

// Client is the kernel lifecycle client. It holds a single gateway
// handle (credentials and transport), read-only after construction, so
// one Client serves any number of concurrent lifecycle calls.
type Client struct {
	c *core.Client
}

// New builds a Client. Unless a test gateway is injected, cluster
// credentials are resolved here (in-cluster configuration first,
// kubeconfig fallback); no resource API calls are made.
//
// Panics if any option receives an invalid value; see the individual
// With* functions.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	inner, err := core.NewClient(cfg.toCoreConfig())
	if err != nil {
		return nil, err
	}
	return &Client{c: inner}, nil
}

// Create submits a kernel resource built from req and waits up to
// timeout (0 = client default) for it to become ready.
//
// Requests missing KERNEL_IMAGE or KERNEL_ID fail with a
// *ValidationError before any network call. A name conflict means the
// kernel already exists and resolves through Get — calling Create twice
// with the same name yields the same kernel. Creation denied by the
// cluster fails with *ForbiddenError; readiness not observed in time
// deletes the orphaned resource and fails with *TimeoutError.
func (c *Client) Create(ctx context.Context, req CreateKernelRequest, timeout time.Duration) (*Kernel, error) {
	return c.c.Create(ctx, req, timeout)
}

// Get fetches a kernel by name, waits for it to be ready, and returns
// its connection info. A missing kernel fails with *NotFoundError:
// this client's contract is to raise on absence, never to return an
// empty result.
func (c *Client) Get(ctx context.Context, name, namespace string, timeout time.Duration) (*Kernel, error) {
	return c.c.Get(ctx, name, namespace, timeout)
}

// Delete removes a kernel by name. Deleting a kernel that does not
// exist is a success, so Delete is safe to repeat.
func (c *Client) Delete(ctx context.Context, name, namespace string, timeout time.Duration) error {
	return c.c.Delete(ctx, name, namespace, timeout)
}

// DeleteByKernelID resolves the kernel carrying the given identifier
// through a label selector across all namespaces and deletes the first
// match in the API's own listing order. Zero matches is a no-op.
func (c *Client) DeleteByKernelID(ctx context.Context, kernelID string, timeout time.Duration) error {
	return c.c.DeleteByKernelID(ctx, kernelID, timeout)
}

// Purge deletes every kernel matching the label selector (empty
// selector matches all) with bounded concurrency and returns how many
// were deleted. Intended for garbage-collecting orphaned kernels.
func (c *Client) Purge(ctx context.Context, labelSelector string, timeout time.Duration) (int, error) {
	return c.c.Purge(ctx, labelSelector, timeout)
}

// VerifyCRD checks that the Kernel CustomResourceDefinition is
// installed and established, giving a descriptive failure before the
// first lifecycle call instead of an opaque 404 from the resource
// endpoint.
func (c *Client) VerifyCRD(ctx context.Context) error {
	return c.c.VerifyCRD(ctx)
}
