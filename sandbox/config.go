// Package sandbox implements the filesystem containment layer (spec
// component C2): every path a tool touches is resolved to a canonical
// form and checked against a root directory and a read-only set before
// any OS call is allowed to proceed.
//
// Grounded on original_source/mistralrs-agent-tools/src/lib.rs
// (SandboxConfig, AgentTools.validate_path, AgentTools.is_readonly), with
// one deliberate deviation: the original's is_readonly does a per-path-
// -component string match ("does any component literally equal a
// configured readonly entry"), which misfires on an unrelated directory
// that happens to share a name with a protected one (e.g. a readonly
// entry "src" also matching some/other/src/file.txt). This package
// checks read-only membership by canonical path prefix instead.
package sandbox

import (
	"strings"

	"github.com/arashivan/agentrt/pathnorm"
	"github.com/arashivan/agentrt/rterr"
)

// Config describes a sandbox: a root directory tools may not escape, and
// a set of path fragments under that root which may be read but never
// written. Root is canonicalised once, at construction, so every later
// containment check is a plain string-prefix comparison.
type Config struct {
	// Root is the canonicalised sandbox root. All validated paths must
	// resolve to a location under Root when Enforce is true.
	Root pathnorm.CanonicalPath
	// Readonly holds the absolute paths that may be read but not written.
	// NewConfig builds them by joining fragments such as ".git" or
	// "vendor" onto Root.
	Readonly []string
	// Enforce, when false, disables the containment check entirely
	// (paths are still normalised and dot-resolved).
	Enforce bool
}

const configOp = "sandbox.NewConfig"

// NewConfig canonicalises root and returns a Config enforcing containment
// within it. readonly entries are interpreted relative to root.
func NewConfig(root string, readonly []string, enforce bool) (Config, error) {
	canonicalRoot, err := pathnorm.Normalize(root)
	if err != nil {
		return Config{}, rterr.New(rterr.KindInvalidPath, configOp, err).WithPath(root)
	}

	resolved := make([]string, 0, len(readonly))
	for _, fragment := range readonly {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		joined, err := pathnorm.Join(canonicalRoot.Value, fragment)
		if err != nil {
			return Config{}, rterr.New(rterr.KindInvalidPath, configOp, err).WithPath(fragment)
		}
		resolved = append(resolved, joined.Value)
	}

	return Config{Root: canonicalRoot, Readonly: resolved, Enforce: enforce}, nil
}
