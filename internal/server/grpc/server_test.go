package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type switchPinger struct {
	down atomic.Bool
}

func (p *switchPinger) PingContext(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startServer(t *testing.T, db Pinger, interval time.Duration) (healthpb.HealthClient, context.CancelFunc, <-chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHealthServer(lis.Addr().String(), db, logging.Nop())
	srv.interval = interval

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return healthpb.NewHealthClient(conn), cancel, done
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_FollowsDatabase(t *testing.T) {
	db := &switchPinger{}
	client, cancel, _ := startServer(t, db, 20*time.Millisecond)
	defer cancel()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceName))

	db.down.Store(true)
	require.Eventually(t, func() bool {
		return check(t, client, "") == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	db.down.Store(false)
	require.Eventually(t, func() bool {
		return check(t, client, ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	_, cancel, done := startServer(t, &switchPinger{}, time.Second)

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHealthServer("127.0.0.1:99999", &switchPinger{}, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, srv.Run(ctx))
}
