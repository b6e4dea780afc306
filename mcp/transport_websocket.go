package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/coder/websocket"

	"github.com/arashivan/agentrt/rterr"
)

// heartbeatInterval is the spec §4.5 WebSocket heartbeat period.
const heartbeatInterval = 30 * time.Second

// WebSocketTransport speaks one JSON message per text frame over a
// single duplex connection, reconnecting with exponential backoff on
// heartbeat failure. Grounded on
// MrWong99-glyphoxa/pkg/provider/s2s/openai/openai.go's session (dial,
// writeJSON via conn.Write, receiveLoop via conn.Read) for the
// coder/websocket idiom, generalized from a single-stream realtime
// session into a request/response-correlated JSON-RPC transport.
type WebSocketTransport struct {
	url           string
	authorization string

	mu      sync.Mutex
	conn    *websocket.Conn
	pending *pendingTable

	ctx    context.Context
	cancel context.CancelFunc

	onNotification func(*Response)

	closeOnce sync.Once
}

// NewWebSocketTransport dials url (a ws:// or wss:// endpoint) and starts
// its read and heartbeat loops. onNotification receives server-initiated
// notifications (messages with no id).
func NewWebSocketTransport(ctx context.Context, url, authorization string, onNotification func(*Response)) (*WebSocketTransport, error) {
	t := &WebSocketTransport{
		url:            url,
		authorization:  authorization,
		pending:        newPendingTable(),
		onNotification: onNotification,
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	conn, err := t.dial(ctx)
	if err != nil {
		t.cancel()
		return nil, err
	}
	t.conn = conn

	go t.readLoop()
	go t.heartbeatLoop()

	return t, nil
}

func (t *WebSocketTransport) dial(ctx context.Context) (*websocket.Conn, error) {
	var header http.Header
	if t.authorization != "" {
		header = http.Header{"Authorization": []string{t.authorization}}
	}
	conn, _, err := websocket.Dial(ctx, t.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, rterr.New(rterr.KindTransportClosed, opTransport, err)
	}
	return conn, nil
}

func (t *WebSocketTransport) readLoop() {
	for {
		conn := t.currentConn()
		if conn == nil {
			return
		}
		_, data, err := conn.Read(t.ctx)
		if err != nil {
			if t.ctx.Err() != nil {
				return
			}
			if !t.reconnect() {
				return
			}
			continue
		}
		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}
		if resp.ID != nil {
			t.pending.deliver(&resp)
		} else if t.onNotification != nil {
			t.onNotification(&resp)
		}
	}
}

// heartbeatLoop pings every heartbeatInterval; a failed ping triggers a
// reconnect per spec §4.5.
func (t *WebSocketTransport) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			if err := t.Ping(t.ctx); err != nil && t.ctx.Err() == nil {
				t.reconnect()
			}
		}
	}
}

// reconnect redials with exponential backoff (base 500ms, cap 30s,
// factor 2 per spec §4.5) until it succeeds or the transport is closed.
// Every still-pending request is failed, since there is no way to know
// which in-flight calls the old connection would have answered.
func (t *WebSocketTransport) reconnect() bool {
	t.pending.closeAll()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2
	b.MaxElapsedTime = 0 // retry until the transport is explicitly closed

	for {
		if t.ctx.Err() != nil {
			return false
		}
		conn, err := t.dial(t.ctx)
		if err == nil {
			t.mu.Lock()
			t.conn = conn
			t.pending = newPendingTable()
			t.mu.Unlock()
			return true
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return false
		}
		select {
		case <-t.ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
}

func (t *WebSocketTransport) currentConn() *websocket.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}

func (t *WebSocketTransport) currentPending() *pendingTable {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *WebSocketTransport) write(ctx context.Context, data []byte) error {
	conn := t.currentConn()
	if conn == nil {
		return rterr.New(rterr.KindTransportClosed, opTransport, nil)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return rterr.New(rterr.KindTransportClosed, opTransport, err)
	}
	return nil
}

// SendRequest implements Transport.
func (t *WebSocketTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	pending := t.currentPending()
	id, ch := pending.register()

	req, err := newRequest(&id, method, params)
	if err != nil {
		pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	if err := t.write(ctx, data); err != nil {
		pending.forget(id)
		return nil, err
	}
	return awaitResponse(ctx, pending, id, ch)
}

// SendNotification implements Transport.
func (t *WebSocketTransport) SendNotification(ctx context.Context, method string, params any) error {
	req, err := newRequest(nil, method, params)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	return t.write(ctx, data)
}

// Ping implements Transport.
func (t *WebSocketTransport) Ping(ctx context.Context) error {
	_, err := t.SendRequest(ctx, MethodPing, nil)
	return err
}

// Close stops the reconnect/heartbeat loops and closes the underlying
// connection.
func (t *WebSocketTransport) Close() error {
	var closeErr error
	t.closeOnce.Do(func() {
		t.cancel()
		t.pending.closeAll()
		conn := t.currentConn()
		if conn != nil {
			if err := conn.Close(websocket.StatusNormalClosure, "transport closed"); err != nil {
				closeErr = fmt.Errorf("close mcp websocket: %w", err)
			}
		}
	})
	return closeErr
}
