// Package health exposes the model status over the standard gRPC health
// checking protocol.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ekisa-team/voskcore/internal/manager"
)

// ModelService is the health service name that tracks the model status.
const ModelService = "voskcore.Model"

// Server reports SERVING for ModelService while a model is loaded.
type Server struct {
	health *grpchealth.Server
}

// New creates a health server that follows the status of m.
func New(m *manager.Manager) *Server {
	s := &Server{health: grpchealth.NewServer()}
	m.Observe(s.update)
	return s
}

func (s *Server) update(state manager.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state.Status == manager.StatusLoaded {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ModelService, status)
}

// Check answers a health check without going through the network.
func (s *Server) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Register adds the health service to srv.
func (s *Server) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.health)
}

// Serve listens on addr and serves the health service until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("health: failed to listen on %s: %w", addr, err)
	}

	return s.ServeListener(ctx, lis)
}

// ServeListener serves the health service on lis until ctx is done.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	s.Register(srv)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			srv.GracefulStop()
		case <-done:
		}
	}()

	slog.Info("gRPC health server listening", "addr", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("health: serve: %w", err)
	}
	return nil
}
