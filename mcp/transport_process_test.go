package mcp

import (
	"context"
	"testing"
	"time"
)

// TestProcessTransportRoundTrip spawns `cat` as the child process, which
// echoes each written JSON-RPC line straight back over stdout. This
// exercises the real line-framed write/read loop (newline-terminated
// encoding, scanner-based decoding, id correlation through pendingTable)
// without depending on any actual MCP server binary.
func TestProcessTransportRoundTrip(t *testing.T) {
	transport, err := NewProcessTransport("cat", nil, nil)
	if err != nil {
		t.Fatalf("NewProcessTransport: %v", err)
	}
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// cat echoes the request frame verbatim, so the decoded "response"
	// carries this call's own method/params back; what matters here is
	// that SendRequest's id correlates with the echoed id and the call
	// does not time out.
	_, err = transport.SendRequest(ctx, "ping", nil)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
}

// TestProcessTransportStderrSink confirms stderr lines from the child
// reach the configured sink.
func TestProcessTransportStderrSink(t *testing.T) {
	lines := make(chan string, 4)
	transport, err := NewProcessTransport("sh", []string{"-c", "echo one-stderr-line >&2; cat"}, func(line string) {
		lines <- line
	})
	if err != nil {
		t.Fatalf("NewProcessTransport: %v", err)
	}
	defer transport.Close()

	select {
	case line := <-lines:
		if line != "one-stderr-line" {
			t.Fatalf("expected %q, got %q", "one-stderr-line", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stderr sink never received the child's stderr line")
	}
}
