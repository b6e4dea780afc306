package mcp

import "encoding/json"

// Tool is a server-advertised tool descriptor from tools/list (spec §6).
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolsListResult is the tools/list response.
type ToolsListResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ToolsListParams is the tools/list request body.
type ToolsListParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// ToolsCallParams is the tools/call request body.
type ToolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolsCallResult is the tools/call response.
type ToolsCallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// ResourceDescriptor is one entry from resources/list.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourcesListResult is the resources/list response.
type ResourcesListResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

// Implementation identifies the client or server side of the handshake.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities is sent as part of the initialize request.
type ClientCapabilities struct{}

// ServerCapabilities is returned as part of the initialize response; its
// exact shape is server-defined, so it is kept opaque here.
type ServerCapabilities map[string]any

// InitializeParams is the initialize request body (spec §6).
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult is the initialize response body.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
}

// Content is one block of an MCP tool-call result (spec §6 references
// tools/call; the content shape follows the MCP content-block union).
// Only the text variant is joined into the ToolCallback's string result
// (spec §4.6 step 5d). Only the type and text fields are decoded; the
// payload of any other variant is dropped.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
