package admission

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"code.cloudfoundry.org/k8s-policy-controller/internal/config"
	"code.cloudfoundry.org/k8s-policy-controller/internal/metrics"

	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/tlsconfig"
	"github.com/gorilla/mux"
	admissionv1 "k8s.io/api/admission/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	readHeaderTimeout = 10 * time.Second
	maxReviewBytes    = 1 << 20
)

// Server hosts the mutating admission webhook. It is deliberately
// drain-unaware: the API server retries rejected reviews, so the supervisor
// tears it down without ceremony.
type Server struct {
	addr    string
	mutator Mutator
	logger  lager.Logger
	tlsConf *tls.Config

	mu       sync.Mutex
	listener net.Listener
}

// NewServer loads the serving identity up front so a missing or malformed
// keypair fails the process before any socket is bound.
func NewServer(cfg *config.Config, mutator Mutator, logger lager.Logger) (*Server, error) {
	tlsConf, err := tlsconfig.Build(
		tlsconfig.WithInternalServiceDefaults(),
		tlsconfig.WithIdentityFromFile(cfg.TLSCertPath, cfg.TLSKeyPath),
	).Server()
	if err != nil {
		return nil, fmt.Errorf("building admission tls config: %w", err)
	}

	return &Server{
		addr:    cfg.AdmissionAddr,
		mutator: mutator,
		logger:  logger,
		tlsConf: tlsConf,
	}, nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleReview).Methods("POST")
	return router
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("admission listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("admission server listening", lager.Data{"address": listener.Addr().String()})

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(tls.NewListener(listener, s.tlsConf))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("admission serve: %w", err)
		}
		return errors.New("admission server stopped")
	case <-ctx.Done():
		server.Close()
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

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReviewBytes))
	if err != nil {
		http.Error(w, "reading admission review", http.StatusBadRequest)
		return
	}

	var review admissionv1.AdmissionReview
	if err := json.Unmarshal(body, &review); err != nil || review.Request == nil {
		http.Error(w, "malformed admission review", http.StatusBadRequest)
		return
	}

	response := s.review(r.Context(), review.Request)
	metrics.AdmissionReviewsTotal.WithLabelValues(
		string(review.Request.Operation),
		strconv.FormatBool(response.Allowed),
	).Inc()

	out := admissionv1.AdmissionReview{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "admission.k8s.io/v1",
			Kind:       "AdmissionReview",
		},
		Response: response,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Error("writing admission response", err, lager.Data{"uid": string(review.Request.UID)})
	}
}

// review always admits. A mutation failure is logged and the pod passes
// through unpatched rather than blocking scheduling.
func (s *Server) review(ctx context.Context, request *admissionv1.AdmissionRequest) *admissionv1.AdmissionResponse {
	response := &admissionv1.AdmissionResponse{
		UID:     request.UID,
		Allowed: true,
	}

	operations, err := s.mutator.Mutate(ctx, request)
	if err != nil {
		s.logger.Error("admission mutation failed", err, lager.Data{
			"uid":       string(request.UID),
			"namespace": request.Namespace,
		})
		return response
	}
	if len(operations) == 0 {
		return response
	}

	patch, err := json.Marshal(operations)
	if err != nil {
		s.logger.Error("encoding admission patch", err, lager.Data{"uid": string(request.UID)})
		return response
	}

	patchType := admissionv1.PatchTypeJSONPatch
	response.Patch = patch
	response.PatchType = &patchType
	return response
}
