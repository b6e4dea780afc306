package mcp

import (
	"context"
	"encoding/json"
	"sync"
)

// fakeTransport is an in-process Transport stub driven by a per-method
// handler table, used to exercise Client/callback logic without a real
// child process or network socket.
type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) (json.RawMessage, error)
	calls    []string
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func(json.RawMessage) (json.RawMessage, error))}
}

func (f *fakeTransport) on(method string, h func(params json.RawMessage) (json.RawMessage, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, method)
	h, ok := f.handlers[method]
	f.mu.Unlock()
	if !ok {
		return json.RawMessage(`{}`), nil
	}

	// Run the handler on its own goroutine so a slow handler cannot block
	// past the caller's context deadline, mirroring how every real
	// Transport's awaitResponse races the reader loop against ctx.Done().
	type outcome struct {
		result json.RawMessage
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := h(raw)
		done <- outcome{result, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTransport) SendNotification(ctx context.Context, method string, params any) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Ping(ctx context.Context) error {
	_, err := f.SendRequest(ctx, MethodPing, nil)
	return err
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
