package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"code.cloudfoundry.org/k8s-policy-controller/internal/admin"
	"code.cloudfoundry.org/k8s-policy-controller/internal/admission"
	"code.cloudfoundry.org/k8s-policy-controller/internal/cluster"
	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/drain"
	"code.cloudfoundry.org/k8s-policy-controller/internal/indexer"
	"code.cloudfoundry.org/k8s-policy-controller/internal/query"
	"code.cloudfoundry.org/k8s-policy-controller/internal/readiness"
	"code.cloudfoundry.org/k8s-policy-controller/internal/supervisor"

	"code.cloudfoundry.org/lager/v3"

	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

func main() {
	ctx := signalContext()

	logger := lager.NewLogger("policy-controller")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, lager.DEBUG))

	runtimeLogger := zap.New(zap.UseDevMode(true), zap.WriteTo(os.Stdout))
	log.SetLogger(runtimeLogger)
	klog.SetLogger(runtimeLogger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", err)
	}
	logger.Info("loaded configuration", lager.Data{
		"admin_addr":       cfg.AdminAddr,
		"grpc_addr":        cfg.GrpcAddr,
		"admission_addr":   cfg.AdmissionAddr,
		"cluster_networks": cfg.ClusterNetworkStrings(),
		"identity_domain":  cfg.IdentityDomain,
		"default_allow":    cfg.DefaultAllow.String(),
	})

	runtime, err := cluster.NewRuntime(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize cluster runtime", err)
	}

	gate := readiness.NewGate()
	shutdown := drain.New()

	indexerTask := indexer.New(runtime, gate, cfg, logger)
	adminServer := admin.NewServer(cfg.AdminAddr, gate, logger)
	queryServer := query.NewServer(cfg.GrpcAddr, indexerTask.Index(), logger)

	annotator := admission.NewAnnotator(runtime.Client(), cfg.DefaultAllow, logger)
	admissionServer, err := admission.NewServer(cfg, annotator, logger)
	if err != nil {
		logger.Fatal("failed to initialize admission server", err)
	}

	watch := shutdown.Watch()
	err = supervisor.New(shutdown, logger).Run(ctx,
		supervisor.Task{Name: "indexer", Kind: supervisor.KindIndexer, Run: indexerTask.Run},
		supervisor.Task{Name: "admin server", Kind: supervisor.KindServer, Run: adminServer.Run},
		supervisor.Task{Name: "grpc server", Kind: supervisor.KindServer, Run: func(taskCtx context.Context) error {
			return queryServer.Run(taskCtx, watch)
		}},
		supervisor.Task{Name: "admission server", Kind: supervisor.KindAdmission, Run: admissionServer.Run},
	)
	if err != nil {
		logger.Fatal("policy controller failed", err)
	}
	logger.Info("policy controller stopped")
}

func signalContext() context.Context {
	shutdownHandler := make(chan os.Signal, 1)

	ctx, cancel := context.WithCancel(context.Background())
	signal.Notify(shutdownHandler, []os.Signal{syscall.SIGINT, syscall.SIGTERM}...)
	go func() {
		<-shutdownHandler
		cancel()
	}()

	return ctx
}
