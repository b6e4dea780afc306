package config_test

import (
	"strings"
	"testing"

	"github.com/arashivan/agentrt/config"
)

func TestBuildSandboxConfigUsesTempRoot(t *testing.T) {
	root := t.TempDir()
	yaml := "sandbox:\n  root: " + root + "\n  enforce: true\n"

	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	sbCfg, err := cfg.BuildSandboxConfig()
	if err != nil {
		t.Fatalf("BuildSandboxConfig: %v", err)
	}
	if sbCfg.Root.String() == "" {
		t.Fatalf("expected a non-empty canonical root")
	}
}

func TestBuildPolicyAppliesDecodedSubPolicies(t *testing.T) {
	const yaml = `
sandbox:
  root: /tmp/workspace
policy:
  id: demo
  strict_mode: true
  filesystem:
    allow_write: true
    blocked_extensions: [".exe"]
  process:
    allowed_commands: ["ls", "cat"]
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	sec := cfg.BuildPolicy(nil)
	if sec == nil {
		t.Fatalf("BuildPolicy returned nil")
	}
}
