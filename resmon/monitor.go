// Package resmon implements the resource monitor (spec component C7):
// per-MCP-server connection and in-flight-request accounting, a stale-
// resource sweep, and a rolling latency estimate.
//
// Grounded directly on
// original_source/mistralrs-mcp/src/resource_monitor.rs (ResourceMonitor,
// ResourceLimits, ServerResourceStats, connection_opened/closed,
// request_started/completed, cleanup_stale_resources,
// start_cleanup_task), translating tokio's RwLock and tokio::spawn into
// sync.RWMutex and a context-scoped goroutine, per the teacher's own
// idiom of context.Context-driven background work.
package resmon

import (
	"context"
	"sync"
	"time"

	"github.com/arashivan/agentrt/rterr"
)

// Limits bounds per-server resource usage.
type Limits struct {
	MaxConnectionsPerServer    int
	MaxActiveRequestsPerServer int
	ConnectionIdleTimeout      time.Duration
	RequestTimeout             time.Duration
}

// DefaultLimits mirrors the original resource monitor's defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxConnectionsPerServer:    100,
		MaxActiveRequestsPerServer: 50,
		ConnectionIdleTimeout:      5 * time.Minute,
		RequestTimeout:             time.Minute,
	}
}

// ResourceStats is a snapshot of one server's current resource usage.
type ResourceStats struct {
	ServerID              string
	OpenConnections       int
	ActiveRequests        int
	LastActivitySecondsAgo int64
	Latencies             LatencySnapshot
}

// LatencySnapshot is a rolling percentile estimate over recently
// completed requests for one server.
type LatencySnapshot struct {
	Count int
	P50   time.Duration
	P99   time.Duration
}

// CleanupStats reports how many resources a sweep reclaimed.
type CleanupStats struct {
	StaleConnections int
	TimedOutRequests int
}

type serverStats struct {
	serverID             string
	openConnections      int
	activeRequests       map[string]time.Time
	lastActivity         time.Time
	connectionTimestamps []time.Time
	latencies            *latencyRingBuffer
}

func newServerStats(serverID string) *serverStats {
	return &serverStats{
		serverID:       serverID,
		activeRequests: make(map[string]time.Time),
		lastActivity:   time.Now(),
		latencies:      newLatencyRingBuffer(),
	}
}

// Monitor tracks per-server connection and request counts behind a
// single RWMutex. All methods are safe for concurrent use.
type Monitor struct {
	mu     sync.RWMutex
	stats  map[string]*serverStats
	limits Limits
}

// New constructs a Monitor enforcing limits.
func New(limits Limits) *Monitor {
	return &Monitor{stats: make(map[string]*serverStats), limits: limits}
}

const (
	opConn    = "resmon.connection_opened"
	opRequest = "resmon.request_started"
)

// ConnectionOpened records a new connection for serverID, failing if the
// per-server connection limit is already reached.
func (m *Monitor) ConnectionOpened(serverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.entryLocked(serverID)

	if s.openConnections >= m.limits.MaxConnectionsPerServer {
		return rterr.New(rterr.KindResourceExhausted, opConn, nil).WithPath(serverID)
	}

	s.openConnections++
	s.connectionTimestamps = append(s.connectionTimestamps, time.Now())
	s.lastActivity = time.Now()
	return nil
}

// ConnectionClosed records a connection closing for serverID. Calling it
// for a server with no tracked connections is a no-op.
func (m *Monitor) ConnectionClosed(serverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[serverID]
	if !ok || s.openConnections == 0 {
		return
	}
	s.openConnections--
	if len(s.connectionTimestamps) > 0 {
		s.connectionTimestamps = s.connectionTimestamps[1:]
	}
}

// RequestStarted records requestID beginning on serverID, failing if the
// per-server in-flight request limit is already reached.
func (m *Monitor) RequestStarted(serverID, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.entryLocked(serverID)

	if len(s.activeRequests) >= m.limits.MaxActiveRequestsPerServer {
		return rterr.New(rterr.KindResourceExhausted, opRequest, nil).WithPath(serverID)
	}

	s.activeRequests[requestID] = time.Now()
	s.lastActivity = time.Now()
	return nil
}

// RequestCompleted records requestID finishing on serverID and folds its
// duration into the server's rolling latency estimate. Calling it for an
// untracked requestID is a no-op.
func (m *Monitor) RequestCompleted(serverID, requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[serverID]
	if !ok {
		return
	}
	start, ok := s.activeRequests[requestID]
	if !ok {
		return
	}
	delete(s.activeRequests, requestID)
	s.latencies.record(int64(time.Since(start)))
}

// Stats returns a snapshot of serverID's current resource usage.
func (m *Monitor) Stats(serverID string) (ResourceStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stats[serverID]
	if !ok {
		return ResourceStats{}, false
	}
	return snapshot(s), true
}

// AllStats returns a snapshot for every tracked server.
func (m *Monitor) AllStats() []ResourceStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ResourceStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, snapshot(s))
	}
	return out
}

func snapshot(s *serverStats) ResourceStats {
	p50, p99 := s.latencies.percentiles()
	return ResourceStats{
		ServerID:               s.serverID,
		OpenConnections:        s.openConnections,
		ActiveRequests:         len(s.activeRequests),
		LastActivitySecondsAgo: int64(time.Since(s.lastActivity).Seconds()),
		Latencies: LatencySnapshot{
			Count: s.latencies.count(),
			P50:   time.Duration(p50),
			P99:   time.Duration(p99),
		},
	}
}

// CleanupStaleResources evicts connections idle past ConnectionIdleTimeout
// and requests running past RequestTimeout, decrementing counters to
// match.
func (m *Monitor) CleanupStaleResources() CleanupStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var result CleanupStats

	for _, s := range m.stats {
		live := s.connectionTimestamps[:0]
		for _, ts := range s.connectionTimestamps {
			if now.Sub(ts) > m.limits.ConnectionIdleTimeout {
				result.StaleConnections++
				if s.openConnections > 0 {
					s.openConnections--
				}
				continue
			}
			live = append(live, ts)
		}
		s.connectionTimestamps = live

		for id, start := range s.activeRequests {
			if now.Sub(start) > m.limits.RequestTimeout {
				delete(s.activeRequests, id)
				result.TimedOutRequests++
			}
		}
	}

	return result
}

// RemoveServer drops all tracking for serverID, e.g. when it is
// unregistered.
func (m *Monitor) RemoveServer(serverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, serverID)
}

// StartCleanupTask runs CleanupStaleResources every interval until ctx is
// cancelled, returning once the context is done.
func (m *Monitor) StartCleanupTask(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupStaleResources()
		}
	}
}

func (m *Monitor) entryLocked(serverID string) *serverStats {
	s, ok := m.stats[serverID]
	if !ok {
		s = newServerStats(serverID)
		m.stats[serverID] = s
	}
	return s
}
