package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/weekenthralling/jkclient/internal/decode"
	"github.com/weekenthralling/jkclient/internal/gateway"
	"github.com/weekenthralling/jkclient/internal/models"
)

// Client drives the lifecycle of Kernel custom resources: create,
// watch-for-ready, get, delete. The embedded gateway handle is
// read-only after construction, so a single Client is safe for
// concurrent use; lifecycle calls for different kernels share no
// mutable state.
type Client struct {
	cfg Config
	gw  gateway.Interface
	reg *decode.Registry
	log *slog.Logger
}

// NewClient builds a Client. When cfg.Gateway is nil the gateway is
// constructed from the ambient cluster configuration (in-cluster first,
// kubeconfig fallback); that is the only I/O performed here.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if !cfg.Source.IsValid() {
		return nil, fmt.Errorf("invalid metadata source %v", cfg.Source)
	}

	gw := cfg.Gateway
	if gw == nil {
		g, err := gateway.New(cfg.GVR())
		if err != nil {
			return nil, err
		}
		gw = g
	}

	reg := decode.NewRegistry()
	models.Register(reg)

	return &Client{
		cfg: cfg,
		gw:  gw,
		reg: reg,
		log: Logger(),
	}, nil
}

// VerifyCRD checks that the Kernel CustomResourceDefinition is
// installed and established before the first lifecycle call. Only
// supported on the default gateway; injected gateways report an error.
func (c *Client) VerifyCRD(ctx context.Context) error {
	type crdVerifier interface {
		VerifyCRD(ctx context.Context) error
	}
	v, ok := c.gw.(crdVerifier)
	if !ok {
		return fmt.Errorf("gateway %T does not support CRD verification", c.gw)
	}
	cctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return v.VerifyCRD(cctx)
}

// budget resolves a per-call timeout: positive values win, zero falls
// back to the client-level default.
func (c *Client) budget(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return c.cfg.Timeout
}

// Create submits a kernel resource built from req and waits for it to
// become ready, returning its connection info.
//
// Validation failures surface as *ValidationError before any network
// call. A name conflict means the kernel already exists and resolves
// through Get. A 403 surfaces as *ForbiddenError. Readiness not
// observed within the budget deletes the orphaned resource and
// surfaces as *TimeoutError.
func (c *Client) Create(ctx context.Context, req CreateKernelRequest, timeout time.Duration) (*Kernel, error) {
	timeout = c.budget(timeout)

	plan, err := c.planKernel(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug("creating kernel", "kernel", plan.name, "namespace", plan.namespace)

	// Run the body through the deserializer so the submitted object is
	// the typed model, not the raw map. Malformed structured fields
	// (e.g. volume entries with wrong value types) fail here, before
	// the API sees them.
	v, err := c.reg.Deserialize(plan.body, "V1Kernel")
	if err != nil {
		return nil, err
	}
	obj, err := v.(*models.V1Kernel).ToUnstructured()
	if err != nil {
		return nil, fmt.Errorf("encode kernel %s/%s: %w", plan.namespace, plan.name, err)
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	_, err = c.gw.Create(cctx, plan.namespace, obj)
	cancel()
	if err != nil {
		switch {
		case apierrors.IsAlreadyExists(err) || apierrors.IsConflict(err):
			c.log.Debug("kernel already exists", "kernel", plan.name, "namespace", plan.namespace)
			return c.Get(ctx, plan.name, plan.namespace, timeout)
		case apierrors.IsForbidden(err):
			return nil, &ForbiddenError{Name: plan.name, Namespace: plan.namespace, Err: err}
		default:
			return nil, gatewayError("create", plan.name, plan.namespace, err)
		}
	}

	ready, err := c.awaitReady(ctx, plan.name, plan.namespace, timeout)
	if err != nil {
		return nil, err
	}
	return c.extractKernel(plan.name, ready)
}

// Get fetches a kernel by name and waits for it to be ready before
// extracting connection info: existence does not imply readiness.
// A missing kernel is an error (*NotFoundError); this client never
// returns an empty result for a missing resource.
func (c *Client) Get(ctx context.Context, name, namespace string, timeout time.Duration) (*Kernel, error) {
	timeout = c.budget(timeout)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	_, err := c.gw.Get(cctx, namespace, name)
	cancel()
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, &NotFoundError{Name: name, Namespace: namespace}
		}
		return nil, gatewayError("get", name, namespace, err)
	}

	ready, err := c.awaitReady(ctx, name, namespace, timeout)
	if err != nil {
		return nil, err
	}
	return c.extractKernel(name, ready)
}

// Delete removes a kernel by name. Deleting a kernel that does not
// exist is a success, so Delete is safe to repeat.
func (c *Client) Delete(ctx context.Context, name, namespace string, timeout time.Duration) error {
	timeout = c.budget(timeout)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.gw.Delete(cctx, namespace, name); err != nil {
		if apierrors.IsNotFound(err) {
			c.log.Warn("kernel not found on delete", "kernel", name, "namespace", namespace)
			return nil
		}
		return gatewayError("delete", name, namespace, err)
	}
	c.log.Debug("kernel deleted", "kernel", name, "namespace", namespace)
	return nil
}

// DeleteByKernelID resolves the kernel carrying the given identifier
// via a label selector across all namespaces and deletes the first
// match in the API's listing order. Zero matches is a no-op.
func (c *Client) DeleteByKernelID(ctx context.Context, kernelID string, timeout time.Duration) error {
	timeout = c.budget(timeout)
	selector := KeyKernelID + "=" + kernelID

	cctx, cancel := context.WithTimeout(ctx, timeout)
	list, err := c.gw.List(cctx, selector)
	cancel()
	if err != nil {
		return gatewayError("list", kernelID, "", err)
	}
	if len(list.Items) == 0 {
		c.log.Debug("no kernel matches identifier", "kernel_id", kernelID)
		return nil
	}

	first := list.Items[0]
	return c.Delete(ctx, first.GetName(), first.GetNamespace(), timeout)
}

// Purge deletes every kernel matching the label selector, up to
// purgeConcurrency at a time, and returns how many were deleted. An
// empty selector matches all kernels. Individual not-found responses
// still count as deleted (the kernel is gone either way).
func (c *Client) Purge(ctx context.Context, labelSelector string, timeout time.Duration) (int, error) {
	timeout = c.budget(timeout)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	list, err := c.gw.List(cctx, labelSelector)
	cancel()
	if err != nil {
		return 0, gatewayError("list", "", "", err)
	}

	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(purgeConcurrency)

	for _, item := range list.Items {
		g.Go(func() error {
			if err := c.Delete(gctx, item.GetName(), item.GetNamespace(), timeout); err != nil {
				return err
			}
			deleted.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(deleted.Load()), err
}

// awaitReady watches the kernel's namespace until the named kernel
// carries a Ready=True condition, the budget expires, or ctx is
// canceled. On timeout the orphaned resource is deleted (best effort,
// exactly once) and a *TimeoutError is returned.
//
// An unversioned watch replays current objects as synthetic ADDED
// events, so a kernel that is already ready resolves on the first
// event. The stream self-terminates server-side; if that happens
// before the deadline it is reopened with the remaining budget.
func (c *Client) awaitReady(ctx context.Context, name, namespace string, timeout time.Duration) (*models.V1Kernel, error) {
	deadline := time.Now().Add(timeout)
	log := c.log.With("kernel", name, "namespace", namespace)
	log.Debug("waiting for kernel to be ready")

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, c.readyTimedOut(ctx, name, namespace, timeout)
		}

		w, err := c.gw.Watch(ctx, namespace, int64(remaining/time.Second)+1)
		if err != nil {
			return nil, gatewayError("watch", name, namespace, err)
		}

		kernel, reopen, err := c.consumeWatch(ctx, w, timer, name)
		w.Stop()
		switch {
		case err != nil:
			return nil, err
		case kernel != nil:
			log.Debug("kernel is ready")
			return kernel, nil
		case reopen:
			log.Debug("watch stream ended before readiness, reopening")
		default:
			return nil, c.readyTimedOut(ctx, name, namespace, timeout)
		}
	}
}

// consumeWatch drains one watch stream. It returns the ready kernel, or
// reopen=true when the stream terminated early, or a timeout/cancel
// error. The caller owns stopping the stream.
func (c *Client) consumeWatch(ctx context.Context, w watch.Interface, timer *time.Timer, name string) (*models.V1Kernel, bool, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, false, fmt.Errorf("wait for kernel %s: %w", name, ctx.Err())
		case <-timer.C:
			return nil, false, nil
		case ev, ok := <-w.ResultChan():
			if !ok {
				return nil, true, nil
			}
			kernel, err := c.evaluateEvent(ev, name)
			if err != nil || kernel != nil {
				return kernel, false, err
			}
		}
	}
}

// evaluateEvent decides whether a watch event makes the named kernel
// ready. Events for other kernels, non-add/modify events, and objects
// without a status block are not actionable and return (nil, nil) so
// the loop keeps waiting.
func (c *Client) evaluateEvent(ev watch.Event, name string) (*models.V1Kernel, error) {
	if ev.Type != watch.Added && ev.Type != watch.Modified {
		return nil, nil
	}
	obj, ok := ev.Object.(*unstructured.Unstructured)
	if !ok || obj.GetName() != name {
		return nil, nil
	}

	// A matching object without status is not ready-forever, just not
	// actionable yet.
	statusRaw, found, err := unstructured.NestedMap(obj.Object, "status")
	if err != nil || !found {
		return nil, nil
	}

	v, err := c.reg.Deserialize(statusRaw, "V1KernelStatus")
	if err != nil {
		c.log.Warn("undecodable kernel status", "kernel", name, "error", err)
		return nil, nil
	}
	if !v.(*models.V1KernelStatus).Ready() {
		return nil, nil
	}

	k, err := c.reg.Deserialize(obj.Object, "V1Kernel")
	if err != nil {
		return nil, fmt.Errorf("decode ready kernel %s: %w", name, err)
	}
	return k.(*models.V1Kernel), nil
}

// readyTimedOut deletes the orphaned kernel and builds the timeout
// error. The delete runs on a fresh budget detached from the caller's
// (likely exhausted) context; its failure is attached to the timeout
// error, never returned in its place.
func (c *Client) readyTimedOut(ctx context.Context, name, namespace string, budget time.Duration) error {
	c.log.Warn("timeout waiting for kernel to be ready, deleting it",
		"kernel", name, "namespace", namespace, "budget", budget)

	terr := &TimeoutError{Name: name, Namespace: namespace, Budget: budget}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := c.Delete(cctx, name, namespace, cleanupTimeout); err != nil {
		c.log.Warn("cleanup after readiness timeout failed",
			"kernel", name, "namespace", namespace, "error", err)
		terr.CleanupErr = err
	}
	return terr
}
