package cluster

import (
	"context"
	"fmt"

	"code.cloudfoundry.org/lager/v3"
	ciliumv2 "github.com/cilium/cilium/pkg/k8s/apis/cilium.io/v2"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlconfig "sigs.k8s.io/controller-runtime/pkg/client/config"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(ciliumv2.AddToScheme(scheme))
}

// Runtime owns the shared cluster plumbing: the watch cache feeding the
// indexer and the client handle shared with the admission mutator.
// Namespace reads bypass the cache so the admission path never waits on
// informer warm-up.
type Runtime struct {
	watchCache cache.Cache
	kubeClient client.Client
	logger     lager.Logger
}

func NewRuntime(ctx context.Context, logger lager.Logger) (*Runtime, error) {
	restConfig, err := ctrlconfig.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading cluster credentials: %w", err)
	}

	watchCache, err := cache.New(restConfig, cache.Options{
		Scheme:           scheme,
		DefaultTransform: cache.TransformStripManagedFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("building watch cache: %w", err)
	}

	kubeClient, err := client.New(restConfig, client.Options{
		Scheme: scheme,
		Cache: &client.CacheOptions{
			Reader:     watchCache,
			DisableFor: []client.Object{&corev1.Namespace{}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	if _, err := watchCache.GetInformer(ctx, &corev1.Pod{}); err != nil {
		return nil, err
	}

	if _, err := watchCache.GetInformer(ctx, &ciliumv2.CiliumNetworkPolicy{}); err != nil {
		return nil, err
	}

	logger.Debug("cluster runtime initialized", lager.Data{"host": restConfig.Host})

	return &Runtime{
		watchCache: watchCache,
		kubeClient: kubeClient,
		logger:     logger,
	}, nil
}

func (r *Runtime) Client() client.Client {
	return r.kubeClient
}

// AddEventHandler registers handler with the informer for obj. The
// registration lives for the rest of the process; the returned token is
// dropped.
func (r *Runtime) AddEventHandler(ctx context.Context, obj client.Object, handler toolscache.ResourceEventHandler) error {
	informer, err := r.watchCache.GetInformer(ctx, obj)
	if err != nil {
		return err
	}

	_, err = informer.AddEventHandler(handler)
	return err
}

func (r *Runtime) Start(ctx context.Context) error {
	return r.watchCache.Start(ctx)
}

func (r *Runtime) WaitForCacheSync(ctx context.Context) bool {
	return r.watchCache.WaitForCacheSync(ctx)
}
