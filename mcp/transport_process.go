package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/arashivan/agentrt/rterr"
)

// ProcessTransport spawns a child process and speaks line-delimited
// JSON-RPC over its stdin/stdout, per spec §4.5's process transport and
// §6's "one JSON object per line... UTF-8; trailing newline mandatory".
// Grounded on agent-go/mcp/transport.go's CommandTransport construction
// and sdk-go/internal/sse.Scanner's line-oriented reader loop, adapted
// from a single response stream into a demultiplexing reader task.
type ProcessTransport struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	pending *pendingTable

	writeMu sync.Mutex

	stderrSink func(line string)

	closeOnce sync.Once
	done      chan struct{}
}

// NewProcessTransport spawns command with args and starts its reader and
// stderr-drain goroutines. stderrSink receives each line of the child's
// stderr for the audit sink (spec §4.5); a nil sink discards them.
func NewProcessTransport(command string, args []string, stderrSink func(line string)) (*ProcessTransport, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}

	t := &ProcessTransport{
		cmd:        cmd,
		stdin:      stdin,
		pending:    newPendingTable(),
		stderrSink: stderrSink,
		done:       make(chan struct{}),
	}

	go t.readLoop(stdout)
	go t.drainStderr(stderr)

	return t, nil
}

func (t *ProcessTransport) readLoop(stdout io.Reader) {
	defer close(t.done)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 5*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		t.pending.deliver(&resp)
	}
	t.pending.closeAll()
}

func (t *ProcessTransport) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if t.stderrSink != nil {
			t.stderrSink(scanner.Text())
		}
	}
}

func (t *ProcessTransport) writeLine(req *Request) error {
	encoded, err := json.Marshal(req)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	encoded = append(encoded, '\n')

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.stdin.Write(encoded); err != nil {
		return rterr.New(rterr.KindTransportClosed, opTransport, err)
	}
	return nil
}

// SendRequest implements Transport.
func (t *ProcessTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	id, ch := t.pending.register()
	req, err := newRequest(&id, method, params)
	if err != nil {
		t.pending.forget(id)
		return nil, rterr.New(rterr.KindIO, opTransport, err)
	}
	if err := t.writeLine(req); err != nil {
		t.pending.forget(id)
		return nil, err
	}
	return awaitResponse(ctx, t.pending, id, ch)
}

// SendNotification implements Transport.
func (t *ProcessTransport) SendNotification(_ context.Context, method string, params any) error {
	req, err := newRequest(nil, method, params)
	if err != nil {
		return rterr.New(rterr.KindIO, opTransport, err)
	}
	return t.writeLine(req)
}

// Ping implements Transport.
func (t *ProcessTransport) Ping(ctx context.Context) error {
	_, err := t.SendRequest(ctx, MethodPing, nil)
	return err
}

// Close sends the exit notification, closes stdin, and waits for the
// child to exit, per spec §4.5's "Shutdown sends an exit notification
// and then closes stdin."
func (t *ProcessTransport) Close() error {
	var closeErr error
	t.closeOnce.Do(func() {
		_ = t.SendNotification(context.Background(), "exit", nil)
		if err := t.stdin.Close(); err != nil {
			closeErr = fmt.Errorf("close mcp process stdin: %w", err)
		}
		t.pending.closeAll()
		_ = t.cmd.Wait()
	})
	return closeErr
}
