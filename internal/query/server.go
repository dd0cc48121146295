package query

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"code.cloudfoundry.org/k8s-policy-controller/internal/drain"
	"code.cloudfoundry.org/k8s-policy-controller/internal/metrics"

	"code.cloudfoundry.org/lager/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server hosts the policy query API. It is the only service that
// participates in graceful shutdown: on drain it refuses new RPCs and holds
// the drain open until in-flight RPCs complete.
type Server struct {
	addr   string
	logger lager.Logger
	grpc   *grpc.Server
	health *health.Server

	mu       sync.Mutex
	listener net.Listener
}

func NewServer(addr string, reader PolicyReader, logger lager.Logger) *Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(observeUnary(logger)))
	grpcServer.RegisterService(&serviceDesc, &service{reader: reader})

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{
		addr:   addr,
		logger: logger,
		grpc:   grpcServer,
		health: healthServer,
	}
}

func (s *Server) Run(ctx context.Context, watch *drain.Watch) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpc listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	return s.Serve(ctx, listener, watch)
}

// Serve accepts RPCs on listener until the transport fails, a drain begins,
// or ctx is cancelled. The drain path resolves nil once in-flight RPCs have
// finished; the cancellation path tears the server down immediately.
func (s *Server) Serve(ctx context.Context, listener net.Listener, watch *drain.Watch) error {
	s.logger.Info("grpc server listening", lager.Data{"address": listener.Addr().String()})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpc.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return errors.New("grpc server stopped accepting connections")
	case <-watch.Signaled():
		s.logger.Info("grpc server draining")
		s.health.Shutdown()
		watch.ReleaseAfter(s.grpc.GracefulStop)
		<-errCh
		s.logger.Info("grpc server drained")
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		<-errCh
		return ctx.Err()
	}
}

// Addr reports the bound address once Run has opened the listener.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func observeUnary(logger lager.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		metrics.GrpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
		metrics.GrpcRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(started).Seconds())

		if err != nil {
			logger.Error("grpc request failed", err, lager.Data{
				"method": info.FullMethod,
				"code":   code.String(),
			})
		} else {
			logger.Debug("grpc request", lager.Data{
				"method":   info.FullMethod,
				"duration": time.Since(started).String(),
			})
		}
		return resp, err
	}
}
