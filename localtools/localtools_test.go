package localtools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/localtools"
	"github.com/arashivan/agentrt/sandbox"
	"github.com/arashivan/agentrt/tools"
)

func newExecutor(t *testing.T) (*tools.Executor, string) {
	t.Helper()
	root := t.TempDir()
	cfg, err := sandbox.NewConfig(root, nil, true)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return tools.New(sandbox.New(cfg), nil), root
}

func TestRegisterPublishesEveryTool(t *testing.T) {
	executor, _ := newExecutor(t)
	registry := agent.NewRegistry()
	localtools.Register(executor, registry)

	want := []string{"read", "write", "append", "cp", "touch", "ls", "grep", "sort", "find", "tree"}
	got := registry.Descriptors()
	if len(got) != len(want) {
		t.Fatalf("Descriptors() len = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("Descriptors()[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestWriteThenReadCallback(t *testing.T) {
	executor, _ := newExecutor(t)
	registry := agent.NewRegistry()
	localtools.Register(executor, registry)

	writeCB, _ := registry.Callback("write")
	_, err := writeCB(context.Background(), json.RawMessage(`{"path":"note.txt","content":"hello","create":true}`))
	if err != nil {
		t.Fatalf("write callback: %v", err)
	}

	readCB, _ := registry.Callback("read")
	result, err := readCB(context.Background(), json.RawMessage(`{"path":"note.txt"}`))
	if err != nil {
		t.Fatalf("read callback: %v", err)
	}
	if result.Content != "hello" {
		t.Fatalf("read content = %q, want %q", result.Content, "hello")
	}
}

func TestLsCallbackListsWrittenFile(t *testing.T) {
	executor, root := newExecutor(t)
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	registry := agent.NewRegistry()
	localtools.Register(executor, registry)

	lsCB, _ := registry.Callback("ls")
	result, err := lsCB(context.Background(), json.RawMessage(`{"path":"."}`))
	if err != nil {
		t.Fatalf("ls callback: %v", err)
	}

	var decoded tools.LsResult
	if err := json.Unmarshal([]byte(result.Content), &decoded); err != nil {
		t.Fatalf("decode ls content: %v", err)
	}
	if decoded.Total != 1 || decoded.Entries[0].Name != "a.txt" {
		t.Fatalf("ls result = %+v", decoded)
	}
}

func TestCpCallbackSymbolicLink(t *testing.T) {
	executor, root := newExecutor(t)
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	registry := agent.NewRegistry()
	localtools.Register(executor, registry)

	cpCB, _ := registry.Callback("cp")
	result, err := cpCB(context.Background(), json.RawMessage(`{"sources":["a.txt"],"dest":"a-link.txt","symbolic_link":true,"verbose":true}`))
	if err != nil {
		t.Fatalf("cp callback: %v", err)
	}

	var decoded tools.CpResult
	if err := json.Unmarshal([]byte(result.Content), &decoded); err != nil {
		t.Fatalf("decode cp content: %v", err)
	}
	if decoded.Count != 1 {
		t.Fatalf("cp result = %+v, want Count 1", decoded)
	}
	if len(decoded.VerboseLines) != 1 {
		t.Fatalf("cp result = %+v, want one VerboseLines entry", decoded)
	}

	info, err := os.Lstat(filepath.Join(root, "a-link.txt"))
	if err != nil {
		t.Fatalf("Lstat a-link.txt: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected a-link.txt to be a symlink, mode = %v", info.Mode())
	}
}

func TestReadOutsideSandboxPropagatesAsCallbackError(t *testing.T) {
	executor, _ := newExecutor(t)
	registry := agent.NewRegistry()
	localtools.Register(executor, registry)

	readCB, _ := registry.Callback("read")
	_, err := readCB(context.Background(), json.RawMessage(`{"path":"/etc/passwd"}`))
	if err == nil {
		t.Fatalf("expected an error reading outside the sandbox")
	}
}
