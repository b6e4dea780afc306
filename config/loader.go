package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var validTransports = []string{transportStdio, transportHTTP, transportWebSocket}

// LoadRuntimeConfig reads the YAML configuration file at path and returns a
// validated RuntimeConfig (spec §A.3). It is a convenience wrapper around
// LoadFromReader.
func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML runtime config from r and validates the
// result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that cfg contains a coherent set of values, returning a
// joined error listing every hard failure found. Soft, informational
// concerns are logged rather than rejected.
func validate(cfg *RuntimeConfig) error {
	var errs []error

	if cfg.Sandbox.Root == "" {
		errs = append(errs, errors.New("sandbox.root is required"))
	}

	if cfg.Policy.ID == "" {
		slog.Warn("policy.id is empty; audit events will carry no policy identifier")
	}

	seenNames := make(map[string]int, len(cfg.McpServers))
	for i, srv := range cfg.McpServers {
		prefix := fmt.Sprintf("mcp_servers[%d]", i)
		if srv.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if prev, ok := seenNames[srv.Name]; ok {
			errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of mcp_servers[%d]", prefix, srv.Name, prev))
		} else {
			seenNames[srv.Name] = i
		}

		if srv.Transport != "" && !slices.Contains(validTransports, srv.Transport) {
			errs = append(errs, fmt.Errorf("%s.transport %q is invalid; valid values: %v", prefix, srv.Transport, validTransports))
			continue
		}
		switch srv.Transport {
		case transportStdio:
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("%s.command is required when transport is stdio", prefix))
			}
		case transportHTTP, transportWebSocket:
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("%s.url is required when transport is %s", prefix, srv.Transport))
			}
		}

		if srv.MaxConcurrentCalls < 0 {
			errs = append(errs, fmt.Errorf("%s.max_concurrent_calls must not be negative", prefix))
		}
		if srv.ToolTimeoutSecs() < 0 {
			errs = append(errs, fmt.Errorf("%s.tool_timeout_secs must not be negative", prefix))
		}
	}

	return errors.Join(errs...)
}

// ToolTimeoutSecs returns the configured tool timeout; validate reads it
// through this accessor.
func (b McpServerBinding) ToolTimeoutSecs() int {
	return b.ToolTimeoutSeconds
}
