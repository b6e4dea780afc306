package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arashivan/agentrt/rterr"
)

// Transport is the spec §4.5 contract shared by the process, HTTP and
// WebSocket variants: a correlated request/response call, a
// fire-and-forget notification, a heartbeat, and a close.
type Transport interface {
	// SendRequest issues method with params and blocks until a matching
	// response arrives or ctx's deadline expires.
	SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error)
	// SendNotification issues method with params without awaiting a reply.
	SendNotification(ctx context.Context, method string, params any) error
	// Ping sends a heartbeat request.
	Ping(ctx context.Context) error
	// Close tears down the transport's underlying connection/process.
	Close() error
}

const opTransport = "mcp.transport"

// pendingTable demultiplexes inbound responses to their waiting caller by
// request ID, shared by every transport implementation. Grounded on
// spec §4.5's "reader task demultiplexes by id, delivering to a per-
// request rendezvous" and on sdk-go's internal/sse.Scanner's
// line-oriented reader loop as the idiom for a background-goroutine
// reader feeding per-call channels.
type pendingTable struct {
	mu      sync.Mutex
	nextID  int64
	waiters map[int64]chan *Response
}

func newPendingTable() *pendingTable {
	return &pendingTable{waiters: make(map[int64]chan *Response)}
}

// register allocates a fresh request ID and a rendezvous channel for it.
func (t *pendingTable) register() (int64, chan *Response) {
	id := atomic.AddInt64(&t.nextID, 1)
	ch := make(chan *Response, 1)
	t.mu.Lock()
	t.waiters[id] = ch
	t.mu.Unlock()
	return id, ch
}

// deliver routes an inbound response to its waiter, if one is still
// pending. Responses with no matching waiter (late arrivals after a
// timeout removed the entry, or unsolicited notifications) are dropped.
func (t *pendingTable) deliver(resp *Response) {
	if resp.ID == nil {
		return
	}
	t.mu.Lock()
	ch, ok := t.waiters[*resp.ID]
	if ok {
		delete(t.waiters, *resp.ID)
	}
	t.mu.Unlock()
	if ok {
		ch <- resp
	}
}

// forget removes id's waiter without delivering, used when a deadline
// expires before a response arrives.
func (t *pendingTable) forget(id int64) {
	t.mu.Lock()
	delete(t.waiters, id)
	t.mu.Unlock()
}

// closeAll aborts every still-pending waiter, used when the transport is
// closed or its connection is lost without a reconnect policy.
func (t *pendingTable) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.waiters {
		close(ch)
		delete(t.waiters, id)
	}
}

// awaitResponse blocks on ch until a response arrives, ctx is cancelled,
// or the deadline passes, resolving to *rterr.Error on failure per spec
// §4.5's "expiry resolves the rendezvous with Timeout and removes the
// pending-id entry".
func awaitResponse(ctx context.Context, t *pendingTable, id int64, ch chan *Response) (json.RawMessage, error) {
	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, rterr.New(rterr.KindTransportClosed, opTransport, nil)
		}
		if resp.Error != nil {
			return nil, rterr.New(rterr.KindRPCError, opTransport, errors.New(resp.Error.Message)).
				WithCode(resp.Error.Code)
		}
		return resp.Result, nil
	case <-ctx.Done():
		t.forget(id)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, rterr.New(rterr.KindTimeout, opTransport, ctx.Err())
		}
		return nil, rterr.New(rterr.KindCancelled, opTransport, ctx.Err())
	}
}

// defaultRequestTimeout bounds a SendRequest call when the caller's
// context carries no deadline of its own.
const defaultRequestTimeout = 30 * time.Second

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultRequestTimeout)
}
