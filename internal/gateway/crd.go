package gateway

import (
	"context"
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/weekenthralling/jkclient/internal/sentinel"
)

// ErrCRDNotEstablished is returned by VerifyCRD when the kernel CRD
// exists but its Established condition is not True, meaning the API
// server does not serve the resource yet.
const ErrCRDNotEstablished = sentinel.Error("custom resource definition is not established")

// ErrCRDNotFound is returned by VerifyCRD when the kernel CRD is not
// installed in the cluster at all.
const ErrCRDNotFound = sentinel.Error("custom resource definition is not installed")

// VerifyCRD checks that the CustomResourceDefinition backing this
// gateway's resource exists and is established. It gives a descriptive
// failure before the first lifecycle call instead of an opaque 404 from
// the resource endpoint.
func (g *Gateway) VerifyCRD(ctx context.Context) error {
	name := g.gvr.Resource + "." + g.gvr.Group

	crd, err := g.ext.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrCRDNotFound, name)
		}
		return fmt.Errorf("get custom resource definition %s: %w", name, err)
	}

	for _, cond := range crd.Status.Conditions {
		if cond.Type == apiextensionsv1.Established && cond.Status == apiextensionsv1.ConditionTrue {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCRDNotEstablished, name)
}
