// Package mcp implements the MCP Transport (spec component C5) and MCP
// Client (spec component C6): a strict JSON-RPC 2.0 envelope, three wire
// transports (process/stdio, HTTP+SSE, WebSocket), and a client that
// drives the initialize → tools/list → callback-synthesis lifecycle.
//
// The teacher itself delegates MCP transport to
// modelcontextprotocol/go-sdk (see agent-go/mcp); this package is the
// hand-rolled equivalent the spec assigns to its own component, grounded
// on the teacher's client/toolkit shape and on sdk-go's HTTP/SSE request
// primitives for the transport internals.
package mcp

import "encoding/json"

// ProtocolVersion is sent as the "protocolVersion" field of every
// initialize request (spec §6).
const ProtocolVersion = "2025-06-18"

// Request is an outbound JSON-RPC 2.0 request or notification. A
// notification omits ID.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an inbound JSON-RPC 2.0 success or error response, or a
// server-initiated notification (ID nil, Method set).
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsNotification reports whether msg carries no ID and therefore cannot
// be correlated to a pending request.
func (r *Response) IsNotification() bool {
	return r.ID == nil
}

// RPCError is the JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func newRequest(id *int64, method string, params any) (*Request, error) {
	var raw json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return &Request{JSONRPC: "2.0", ID: id, Method: method, Params: raw}, nil
}

// Methods used by the MCP client (spec §6).
const (
	MethodInitialize    = "initialize"
	MethodInitialized   = "initialized"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodResourcesList = "resources/list"
	MethodPing          = "ping"
)
