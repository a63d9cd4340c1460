// Package jkclient manages the lifecycle of Jupyter kernels that run as
// Kernel custom resources in a Kubernetes cluster.
//
// A kernel is created by submitting a Kernel resource built from the
// request environment; a controller in the cluster provisions the
// kernel pod and publishes readiness through a Ready condition together
// with connection metadata. The client tracks provisioning over a watch
// stream and returns the connection info once the kernel is ready, or
// cleans up the orphaned resource when the budget expires.
//
// # Basic Usage
//
//	import "github.com/weekenthralling/jkclient"
//
//	ctx := context.Background()
//
//	client, err := jkclient.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kernel, err := client.Create(ctx, jkclient.CreateKernelRequest{
//	    Env: map[string]any{
//	        "KERNEL_ID":    uuid.NewString(),
//	        "KERNEL_IMAGE": "weekenthralling/kernel-py:133fbe3",
//	    },
//	}, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(kernel.ConnInfo)
//
//	defer client.Delete(ctx, kernel.Name, "default", 0)
//
// Cluster credentials resolve automatically: in-cluster service account
// configuration when running inside a pod, the default kubeconfig chain
// otherwise.
//
// # Timeouts
//
// Every operation takes an explicit timeout; passing 0 falls back to
// the client-level default configured with WithTimeout. The budget for
// Create and Get covers both the API request and the readiness wait.
// Cancellation beyond the budget is the caller's context.
//
// # Concurrency
//
// A Client is safe for concurrent use. Lifecycle calls for different
// kernels are fully independent; two concurrent creates for the same
// name race at the API server and the loser resolves through Get.
package jkclient
