package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/readiness"

	"code.cloudfoundry.org/lager/v3"
	ciliumv2 "github.com/cilium/cilium/pkg/k8s/apis/cilium.io/v2"
	corev1 "k8s.io/api/core/v1"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// initialSyncTimeout bounds the first cache sync. A cluster that cannot be
// listed within this window is treated as unreachable rather than slow.
const initialSyncTimeout = 10 * time.Second

//counterfeiter:generate . Streams

// Streams is the slice of the cluster runtime the indexer consumes: handler
// registration plus the blocking event stream.
type Streams interface {
	AddEventHandler(ctx context.Context, obj client.Object, handler toolscache.ResourceEventHandler) error
	Start(ctx context.Context) error
	WaitForCacheSync(ctx context.Context) bool
}

// Task owns the policy index and keeps it synchronized with the cluster.
// Run never resolves while healthy; any return is a supervision event.
type Task struct {
	streams Streams
	index   *Index
	gate    *readiness.Gate
	logger  lager.Logger
}

func New(streams Streams, gate *readiness.Gate, cfg *config.Config, logger lager.Logger) *Task {
	return &Task{
		streams: streams,
		index:   NewIndex(cfg, logger),
		gate:    gate,
		logger:  logger,
	}
}

// Index exposes the read side for the query and admission services.
func (t *Task) Index() *Index {
	return t.index
}

// Run registers event handlers, starts the event stream, and marks the
// process ready once the initial sync lands. It returns a non-nil error on
// every resolution, stream termination included.
func (t *Task) Run(ctx context.Context) error {
	if err := t.streams.AddEventHandler(ctx, &corev1.Pod{}, t.podHandler()); err != nil {
		return fmt.Errorf("registering pod handler: %w", err)
	}
	if err := t.streams.AddEventHandler(ctx, &ciliumv2.CiliumNetworkPolicy{}, t.policyHandler()); err != nil {
		return fmt.Errorf("registering policy handler: %w", err)
	}

	streamDone := make(chan error, 1)
	go func() {
		streamDone <- t.streams.Start(ctx)
	}()

	syncCtx, cancel := context.WithTimeout(ctx, initialSyncTimeout)
	defer cancel()
	if !t.streams.WaitForCacheSync(syncCtx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("initial cluster sync did not complete within %s", initialSyncTimeout)
	}

	t.gate.Set()
	t.logger.Info("initial cluster sync complete", lager.Data{
		"workloads": t.index.WorkloadCount(),
		"policies":  t.index.PolicyCount(),
	})

	select {
	case err := <-streamDone:
		if err != nil {
			return fmt.Errorf("cluster event stream: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.New("cluster event stream ended")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) podHandler() toolscache.ResourceEventHandler {
	return toolscache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			if pod, ok := obj.(*corev1.Pod); ok {
				t.index.UpsertPod(pod)
			}
		},
		UpdateFunc: func(_, newObj interface{}) {
			if pod, ok := newObj.(*corev1.Pod); ok {
				t.index.UpsertPod(pod)
			}
		},
		DeleteFunc: func(obj interface{}) {
			if tombstone, ok := obj.(toolscache.DeletedFinalStateUnknown); ok {
				obj = tombstone.Obj
			}
			if pod, ok := obj.(*corev1.Pod); ok {
				t.index.DeletePod(pod.Namespace, pod.Name)
			}
		},
	}
}

func (t *Task) policyHandler() toolscache.ResourceEventHandler {
	return toolscache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			if cnp, ok := obj.(*ciliumv2.CiliumNetworkPolicy); ok {
				t.index.UpsertPolicy(cnp)
			}
		},
		UpdateFunc: func(_, newObj interface{}) {
			if cnp, ok := newObj.(*ciliumv2.CiliumNetworkPolicy); ok {
				t.index.UpsertPolicy(cnp)
			}
		},
		DeleteFunc: func(obj interface{}) {
			if tombstone, ok := obj.(toolscache.DeletedFinalStateUnknown); ok {
				obj = tombstone.Obj
			}
			if cnp, ok := obj.(*ciliumv2.CiliumNetworkPolicy); ok {
				t.index.DeletePolicy(cnp.Namespace, cnp.Name)
			}
		},
	}
}
