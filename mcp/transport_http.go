package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/arashivan/agentrt/rterr"
)

// HTTPTransport POSTs each request as a JSON-RPC envelope and optionally
// consumes a text/event-stream response for server-initiated
// notifications, per spec §4.5/§6. Grounded on
// sdk-go/internal/clientutils.DoJSON/DoSSE and
// sdk-go/internal/sse.Scanner, adapted from a single-response-stream
// client into one that demultiplexes by request id.
type HTTPTransport struct {
	url           string
	authorization string
	client        *http.Client
	pending       *pendingTable

	closeOnce sync.Once
	cancelSSE context.CancelFunc
}

// NewHTTPTransport constructs a transport POSTing to url. authorization,
// if non-empty, is sent verbatim as the Authorization header on every
// request.
func NewHTTPTransport(url, authorization string) *HTTPTransport {
	t := &HTTPTransport{
		url:           url,
		authorization: authorization,
		client:        http.DefaultClient,
		pending:       newPendingTable(),
	}
	return t
}

func (t *HTTPTransport) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if t.authorization != "" {
		req.Header.Set("Authorization", t.authorization)
	}
}

// SendRequest POSTs method/params and decodes either an inline JSON
// response or, when the server upgrades to text/event-stream, the first
// event addressed to this request's id.
func (t *HTTPTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	id, ch := t.pending.register()

	req, err := newRequest(&id, method, params)
	if err != nil {
		t.pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		t.pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.pending.forget(id)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, rterr.New(rterr.KindTimeout, opTransport, err)
		}
		return nil, rterr.New(rterr.KindTransportClosed, opTransport, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		t.pending.forget(id)
		return nil, rterr.New(rterr.KindRPCError, opTransport, fmt.Errorf("http %d: %s", resp.StatusCode, string(respBody)))
	}

	// Per spec §4.5, the POST response is either inline JSON or a
	// text/event-stream carrying the correlated response (and possibly
	// interleaved notifications) as separate events.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		go t.consumeSSEBody(resp.Body, nil)
		return awaitResponse(ctx, t.pending, id, ch)
	}

	defer resp.Body.Close()
	defer t.pending.forget(id)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	if rpcResp.Error != nil {
		return nil, rterr.New(rterr.KindRPCError, opTransport, fmt.Errorf("%s", rpcResp.Error.Message)).WithCode(rpcResp.Error.Code)
	}
	return rpcResp.Result, nil
}

// consumeSSEBody scans a text/event-stream body, delivering each decoded
// event either to the pending-response table (events carrying an id) or
// to onNotification (server-initiated notifications).
func (t *HTTPTransport) consumeSSEBody(body io.ReadCloser, onNotification func(*Response)) {
	defer body.Close()
	scanner := newLineScanner(body)
	for scanner.Scan() {
		data, ok := isSSEDataLine(scanner.Text())
		if !ok {
			continue
		}
		var evt Response
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			continue
		}
		if evt.ID != nil {
			t.pending.deliver(&evt)
		} else if onNotification != nil {
			onNotification(&evt)
		}
	}
}

// SendNotification POSTs method/params with no id, per the JSON-RPC 2.0
// notification shape; the server's response body (if any) is discarded.
func (t *HTTPTransport) SendNotification(ctx context.Context, method string, params any) error {
	req, err := newRequest(nil, method, params)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return rterr.New(rterr.KindTransportClosed, opTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Ping implements Transport.
func (t *HTTPTransport) Ping(ctx context.Context) error {
	_, err := t.SendRequest(ctx, MethodPing, nil)
	return err
}

// ListenSSE opens a long-lived GET against url and routes each decoded
// text/event-stream event to onNotification, until ctx is cancelled.
// Spec §4.5: "A background task consumes the SSE channel and routes
// notifications." Grounded on sdk-go/internal/sse.Scanner's line-by-line
// data: prefix parsing.
func (t *HTTPTransport) ListenSSE(ctx context.Context, onNotification func(*Response)) error {
	ctx, cancel := context.WithCancel(ctx)
	t.cancelSSE = cancel

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return rterr.New(rterr.KindTransportClosed, opTransport, err)
	}

	go t.consumeSSEBody(resp.Body, onNotification)
	return nil
}

// Close stops the SSE listener, if any.
func (t *HTTPTransport) Close() error {
	t.closeOnce.Do(func() {
		if t.cancelSSE != nil {
			t.cancelSSE()
		}
		t.pending.closeAll()
	})
	return nil
}

// isSSEDataLine reports whether line is an SSE "data: ..." line,
// returning its payload. Grounded on sdk-go/internal/sse.IsDataLine.
func isSSEDataLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if data, ok := strings.CutPrefix(line, "data: "); ok {
		return data, true
	}
	if data, ok := strings.CutPrefix(line, "data:"); ok {
		return strings.TrimSpace(data), true
	}
	return "", false
}
