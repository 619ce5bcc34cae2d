// Package grpc serves the standard gRPC health service for orchestrator
// probes. The overall status follows database reachability.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/remember/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported next to the overall ("") status.
const ServiceName = "remember.api"

const defaultProbeInterval = 10 * time.Second

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	address  string
	db       Pinger
	logger   logging.Logger
	interval time.Duration
	health   *health.Server
}

func NewHealthServer(address string, db Pinger, l logging.Logger) *HealthServer {
	return &HealthServer{
		address:  address,
		db:       db,
		logger:   l.With("module", "grpc_health"),
		interval: defaultProbeInterval,
		health:   health.NewServer(),
	}
}

// Run listens on the configured address until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, probing the database every
// interval.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *HealthServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "database unreachable", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
