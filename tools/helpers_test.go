package tools_test

import (
	"testing"

	"github.com/arashivan/agentrt/sandbox"
)

func newConfigWithReadonly(t *testing.T, root string, readonly []string) (*sandbox.Sandbox, error) {
	t.Helper()
	cfg, err := sandbox.NewConfig(root, readonly, true)
	if err != nil {
		return nil, err
	}
	return sandbox.New(cfg), nil
}
