package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/arashivan/agentrt/policy"
	"github.com/arashivan/agentrt/resmon"
	"github.com/arashivan/agentrt/rterr"
)

// ToolCallResult is a ToolCallback's synchronous result: the joined text
// content (spec §4.6 step 5d) and whether the server flagged it an error.
type ToolCallResult struct {
	Content string
	IsError bool
}

// ToolCallback is the synchronous per-tool entry point published to the
// agent's registry, keyed by local_name (spec §4.6 step 7). Spec §4.6's
// "async-to-sync bridge" is satisfied here by the callback itself being
// an ordinary blocking Go function: the calling goroutine blocks on the
// semaphore acquire and the transport round-trip, returning only once
// the remote call has completed or failed, which is exactly the
// guarantee an ordinary synchronous call running on a goroutine already
// provides without a separate scheduler-detection step.
type ToolCallback func(ctx context.Context, arguments json.RawMessage) (ToolCallResult, error)

const opCallback = "mcp.tool_call"

// callbackDeps bundles the resources a synthesized ToolCallback closes
// over: the transport for the actual tools/call round trip, a
// concurrency semaphore bounding in-flight calls for this client (spec
// §4.6 "max_concurrent_calls... default 3"), the resource monitor for
// success/failure accounting, and the global/per-server security
// policies consulted before dispatch (spec §4.3/§4.6: "global policy ∧
// per-server policy", strictest decision wins).
type callbackDeps struct {
	transport    Transport
	serverID     string
	sem          *semaphore.Weighted
	monitor      *resmon.Monitor
	globalPolicy *policy.SecurityPolicy
	serverPolicy *policy.SecurityPolicy
	toolTimeout  time.Duration
	logger       *slog.Logger
}

// defaultMaxConcurrentCalls is spec §4.6's per-client default.
const defaultMaxConcurrentCalls = 3

// defaultToolTimeout bounds a tools/call round trip when the caller
// supplies none.
const defaultToolTimeout = 30 * time.Second

func newCallbackDeps(transport Transport, serverID string, maxConcurrent int, toolTimeout time.Duration, monitor *resmon.Monitor, globalPolicy, serverPolicy *policy.SecurityPolicy, logger *slog.Logger) *callbackDeps {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentCalls
	}
	if toolTimeout <= 0 {
		toolTimeout = defaultToolTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &callbackDeps{
		transport:    transport,
		serverID:     serverID,
		sem:          semaphore.NewWeighted(int64(maxConcurrent)),
		monitor:      monitor,
		globalPolicy: globalPolicy,
		serverPolicy: serverPolicy,
		toolTimeout:  toolTimeout,
		logger:       logger,
	}
}

// checkRateLimit evaluates the rate-limit sub-policy against whichever of
// globalPolicy/serverPolicy are configured, composing both via
// policy.Compose when both are present so that either layer's denial
// wins (spec §4.3's "evaluate both and take the strictest decision").
// The returned release func must be called exactly once, regardless of
// outcome, to release only the counters this call actually acquired.
func (d *callbackDeps) checkRateLimit(name string) (policy.Decision, func()) {
	noop := func() {}

	switch {
	case d.globalPolicy == nil && d.serverPolicy == nil:
		return policy.Decision{Allowed: true}, noop
	case d.globalPolicy == nil:
		decision := d.serverPolicy.EvaluateRateLimit(name)
		if !decision.Allowed {
			return decision, noop
		}
		return decision, func() { d.serverPolicy.ReleaseRateLimit(name) }
	case d.serverPolicy == nil:
		decision := d.globalPolicy.EvaluateRateLimit(name)
		if !decision.Allowed {
			return decision, noop
		}
		return decision, func() { d.globalPolicy.ReleaseRateLimit(name) }
	}

	var globalAllowed, serverAllowed bool
	decision := policy.Compose(d.globalPolicy, d.serverPolicy, func(sp *policy.SecurityPolicy) policy.Decision {
		dec := sp.EvaluateRateLimit(name)
		if sp == d.globalPolicy {
			globalAllowed = dec.Allowed
		} else {
			serverAllowed = dec.Allowed
		}
		return dec
	})
	return decision, func() {
		if globalAllowed {
			d.globalPolicy.ReleaseRateLimit(name)
		}
		if serverAllowed {
			d.serverPolicy.ReleaseRateLimit(name)
		}
	}
}

// synthesize builds the ToolCallback for one remote tool, implementing
// spec §4.6 step 5's (a)-(e) sequence.
func (d *callbackDeps) synthesize(name string) ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (ToolCallResult, error) {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			return ToolCallResult{}, rterr.New(rterr.KindCancelled, opCallback, err)
		}
		defer d.sem.Release(1)

		decision, release := d.checkRateLimit(name)
		if !decision.Allowed {
			release()
			return ToolCallResult{}, rterr.New(rterr.KindPolicyViolation, opCallback, nil)
		}
		defer release()

		requestID := name + ":" + uuid.NewString()
		if d.monitor != nil {
			if err := d.monitor.RequestStarted(d.serverID, requestID); err != nil {
				return ToolCallResult{}, err
			}
			defer d.monitor.RequestCompleted(d.serverID, requestID)
		}

		callCtx, cancel := context.WithTimeout(ctx, d.toolTimeout)
		defer cancel()

		var args map[string]any
		if len(arguments) > 0 {
			if err := json.Unmarshal(arguments, &args); err != nil {
				return ToolCallResult{}, rterr.New(rterr.KindIO, opCallback, err)
			}
		}

		raw, err := d.transport.SendRequest(callCtx, MethodToolsCall, ToolsCallParams{Name: name, Arguments: args})
		if err != nil {
			d.logger.Error("tool call failed", "server_id", d.serverID, "tool", name, "error", err)
			return ToolCallResult{}, err
		}

		var result ToolsCallResult
		if err := json.Unmarshal(raw, &result); err != nil {
			d.logger.Error("tool call result decode failed", "server_id", d.serverID, "tool", name, "error", err)
			return ToolCallResult{}, rterr.New(rterr.KindIO, opCallback, err)
		}

		if result.IsError {
			d.logger.Warn("tool reported error result", "server_id", d.serverID, "tool", name)
		}
		return ToolCallResult{Content: joinTextContent(result.Content), IsError: result.IsError}, nil
	}
}
