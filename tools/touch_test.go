package tools_test

import (
	"os"
	"testing"
	"time"

	"github.com/arashivan/agentrt/tools"
)

func TestTouchCreatesAbsentFile(t *testing.T) {
	e, root := newExecutor(t)
	path := root + "/new.txt"

	result, err := e.Touch([]string{path}, tools.TouchOptions{})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if result.Created != 1 || result.Count != 1 {
		t.Fatalf("result = %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestTouchNoCreateSkipsAbsentFile(t *testing.T) {
	e, root := newExecutor(t)
	path := root + "/missing.txt"

	result, err := e.Touch([]string{path}, tools.TouchOptions{NoCreate: true})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if result.Created != 0 || result.Count != 0 {
		t.Fatalf("result = %+v, want nothing touched or created", result)
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected file to remain absent")
	}
}

func TestTouchUpdatesReferenceTime(t *testing.T) {
	e, root := newExecutor(t)
	path := writeFile(t, root, "existing.txt", "content")
	ref := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	result, err := e.Touch([]string{path}, tools.TouchOptions{ReferenceTime: &ref})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if result.Created != 0 || result.Count != 1 {
		t.Fatalf("result = %+v", result)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.ModTime().Equal(ref) {
		t.Fatalf("ModTime = %v, want %v", info.ModTime(), ref)
	}
}

func TestTouchAccessOnlyPreservesModTime(t *testing.T) {
	e, root := newExecutor(t)
	path := writeFile(t, root, "existing.txt", "content")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	originalModTime := before.ModTime()

	ref := time.Date(2030, 6, 7, 8, 9, 10, 0, time.UTC)
	if _, err := e.Touch([]string{path}, tools.TouchOptions{AccessOnly: true, ReferenceTime: &ref}); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !after.ModTime().Equal(originalModTime) {
		t.Fatalf("ModTime changed to %v, want unchanged %v (AccessOnly falls back to existing mtime)", after.ModTime(), originalModTime)
	}
}
