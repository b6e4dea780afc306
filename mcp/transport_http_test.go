package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arashivan/agentrt/rterr"
)

// TestHTTPTransportInlineJSON exercises the classic (non-streaming) HTTP
// transport path: a POST whose response is a single inline JSON-RPC
// envelope, per spec §4.5.
func TestHTTPTransportInlineJSON(t *testing.T) {
	id := int64(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		id = *req.ID
		w.Header().Set("Content-Type", "application/json")
		resp := Response{JSONRPC: "2.0", ID: req.ID, Result: mustJSON(map[string]any{"method": req.Method})}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "")
	defer transport.Close()

	raw, err := transport.SendRequest(context.Background(), "ping", nil)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got["method"] != "ping" {
		t.Fatalf("expected echoed method %q, got %+v", "ping", got)
	}
	if id == 0 {
		t.Fatal("server never observed a request id")
	}
}

// TestHTTPTransportRPCError confirms a JSON-RPC error object surfaces as
// a KindRPCError carrying the server's message and code.
func TestHTTPTransportRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		resp := Response{JSONRPC: "2.0", ID: req.ID, Error: &RPCError{Code: -32601, Message: "method not found"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "")
	defer transport.Close()

	_, err := transport.SendRequest(context.Background(), "bogus", nil)
	if err == nil {
		t.Fatal("expected an error for a JSON-RPC error response")
	}
	var rpcErr *rterr.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected an *rterr.Error, got %T: %v", err, err)
	}
	if rpcErr.Code != -32601 {
		t.Fatalf("expected code -32601, got %d", rpcErr.Code)
	}
}

// TestHTTPTransportSSEUpgrade exercises the streamable-HTTP path: the
// POST response upgrades to text/event-stream carrying the correlated
// response as a single SSE event, per spec §4.5/§6.
func TestHTTPTransportSSEUpgrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		resp := Response{JSONRPC: "2.0", ID: req.ID, Result: mustJSON("streamed")}
		data, _ := json.Marshal(resp)
		_, _ = io.WriteString(w, "data: "+string(data)+"\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "")
	defer transport.Close()

	raw, err := transport.SendRequest(context.Background(), "tools/call", nil)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	var got string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got != "streamed" {
		t.Fatalf("expected %q, got %q", "streamed", got)
	}
}
