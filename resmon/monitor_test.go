package resmon_test

import (
	"testing"
	"time"

	"github.com/arashivan/agentrt/resmon"
	"github.com/arashivan/agentrt/rterr"
)

// TestResourceMonitorBalance implements spec.md §8 universal invariant 8:
// after connection_closed has been called exactly as many times as
// connection_opened, open_connections == 0.
func TestResourceMonitorBalance(t *testing.T) {
	m := resmon.New(resmon.DefaultLimits())

	for i := 0; i < 5; i++ {
		if err := m.ConnectionOpened("server1"); err != nil {
			t.Fatalf("ConnectionOpened: %v", err)
		}
	}
	stats, ok := m.Stats("server1")
	if !ok || stats.OpenConnections != 5 {
		t.Fatalf("OpenConnections = %d, want 5", stats.OpenConnections)
	}

	for i := 0; i < 5; i++ {
		m.ConnectionClosed("server1")
	}
	stats, ok = m.Stats("server1")
	if !ok || stats.OpenConnections != 0 {
		t.Fatalf("OpenConnections = %d, want 0", stats.OpenConnections)
	}
}

func TestConnectionLimitExceeded(t *testing.T) {
	m := resmon.New(resmon.Limits{MaxConnectionsPerServer: 2})

	if err := m.ConnectionOpened("s"); err != nil {
		t.Fatalf("ConnectionOpened #1: %v", err)
	}
	if err := m.ConnectionOpened("s"); err != nil {
		t.Fatalf("ConnectionOpened #2: %v", err)
	}
	if err := m.ConnectionOpened("s"); !rterr.Is(err, rterr.KindResourceExhausted) {
		t.Fatalf("ConnectionOpened #3 = %v, want KindResourceExhausted", err)
	}
}

func TestRequestLimitExceeded(t *testing.T) {
	m := resmon.New(resmon.Limits{MaxActiveRequestsPerServer: 1})

	if err := m.RequestStarted("s", "req1"); err != nil {
		t.Fatalf("RequestStarted #1: %v", err)
	}
	if err := m.RequestStarted("s", "req2"); !rterr.Is(err, rterr.KindResourceExhausted) {
		t.Fatalf("RequestStarted #2 = %v, want KindResourceExhausted", err)
	}

	m.RequestCompleted("s", "req1")
	if err := m.RequestStarted("s", "req2"); err != nil {
		t.Fatalf("RequestStarted after completion: %v", err)
	}
}

func TestRequestCompletedRecordsLatency(t *testing.T) {
	m := resmon.New(resmon.DefaultLimits())

	if err := m.RequestStarted("s", "req1"); err != nil {
		t.Fatalf("RequestStarted: %v", err)
	}
	time.Sleep(time.Millisecond)
	m.RequestCompleted("s", "req1")

	stats, ok := m.Stats("s")
	if !ok {
		t.Fatalf("expected stats for server s")
	}
	if stats.Latencies.Count != 1 {
		t.Fatalf("Latencies.Count = %d, want 1", stats.Latencies.Count)
	}
	if stats.Latencies.P50 <= 0 {
		t.Fatalf("expected a positive p50 latency, got %v", stats.Latencies.P50)
	}
}

func TestRequestCompletedUntrackedIsNoop(t *testing.T) {
	m := resmon.New(resmon.DefaultLimits())
	m.RequestCompleted("unknown-server", "unknown-request")
	if _, ok := m.Stats("unknown-server"); ok {
		t.Fatalf("did not expect a server entry to be created by RequestCompleted")
	}
}

func TestCleanupStaleResources(t *testing.T) {
	m := resmon.New(resmon.Limits{
		MaxConnectionsPerServer:    10,
		MaxActiveRequestsPerServer: 10,
		ConnectionIdleTimeout:      time.Millisecond,
		RequestTimeout:             time.Millisecond,
	})

	if err := m.ConnectionOpened("s"); err != nil {
		t.Fatalf("ConnectionOpened: %v", err)
	}
	if err := m.RequestStarted("s", "req1"); err != nil {
		t.Fatalf("RequestStarted: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	cleanup := m.CleanupStaleResources()
	if cleanup.StaleConnections != 1 {
		t.Fatalf("StaleConnections = %d, want 1", cleanup.StaleConnections)
	}
	if cleanup.TimedOutRequests != 1 {
		t.Fatalf("TimedOutRequests = %d, want 1", cleanup.TimedOutRequests)
	}

	stats, ok := m.Stats("s")
	if !ok {
		t.Fatalf("expected stats for server s")
	}
	if stats.OpenConnections != 0 {
		t.Fatalf("OpenConnections = %d, want 0 after cleanup", stats.OpenConnections)
	}
	if stats.ActiveRequests != 0 {
		t.Fatalf("ActiveRequests = %d, want 0 after cleanup", stats.ActiveRequests)
	}
}

func TestRemoveServer(t *testing.T) {
	m := resmon.New(resmon.DefaultLimits())
	if err := m.ConnectionOpened("s"); err != nil {
		t.Fatalf("ConnectionOpened: %v", err)
	}
	m.RemoveServer("s")
	if _, ok := m.Stats("s"); ok {
		t.Fatalf("expected no stats for server s after RemoveServer")
	}
}
