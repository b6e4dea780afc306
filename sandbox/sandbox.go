package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arashivan/agentrt/pathnorm"
	"github.com/arashivan/agentrt/rterr"
)

// Sandbox is an immutable containment boundary. All of its methods are
// safe for concurrent use; a Sandbox holds no mutable state beyond its
// Config.
type Sandbox struct {
	cfg Config
}

// New wraps cfg in a Sandbox.
func New(cfg Config) *Sandbox {
	return &Sandbox{cfg: cfg}
}

// Config returns the sandbox's configuration.
func (s *Sandbox) Config() Config { return s.cfg }

// ValidateRead resolves path and checks it is contained within the
// sandbox root. It does not check the read-only set, since reading a
// read-only path is always permitted.
func (s *Sandbox) ValidateRead(path string) (pathnorm.CanonicalPath, error) {
	return s.validate("sandbox.validate_read", path, false)
}

// ValidateWrite resolves path, checks containment, and additionally
// rejects any path under the sandbox's read-only set.
func (s *Sandbox) ValidateWrite(path string) (pathnorm.CanonicalPath, error) {
	return s.validate("sandbox.validate_write", path, true)
}

// Exists reports whether path, once validated for read, exists on disk.
// A path outside the sandbox is reported as a validation error, not as
// "does not exist".
func (s *Sandbox) Exists(path string) (bool, error) {
	canonical, err := s.ValidateRead(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Lstat(canonical.Value); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, rterr.New(rterr.KindIO, "sandbox.exists", err).WithPath(canonical.Value)
	}
	return true, nil
}

// validate implements the five-step resolution algorithm: normalise to
// absolute, resolve symlinks on the longest existing ancestor, check
// containment, check the read-only set on writes, and return the
// canonical path. Grounded on AgentTools::validate_path in
// original_source/mistralrs-agent-tools/src/lib.rs.
func (s *Sandbox) validate(op, path string, checkReadonly bool) (pathnorm.CanonicalPath, error) {
	if path == "" {
		return pathnorm.CanonicalPath{}, rterr.New(rterr.KindEmptyPath, op, nil)
	}

	absolute := path
	if !pathnorm.IsAbsolute(path) {
		joined, err := pathnorm.Join(s.cfg.Root.Value, path)
		if err != nil {
			return pathnorm.CanonicalPath{}, rterr.New(rterr.KindInvalidPath, op, err).WithPath(path)
		}
		absolute = joined.Value
	}

	canonical, err := pathnorm.Normalize(absolute)
	if err != nil {
		return pathnorm.CanonicalPath{}, rterr.New(rterr.KindInvalidPath, op, err).WithPath(path)
	}

	resolved, err := resolveSymlinks(canonical.Value)
	if err != nil {
		return pathnorm.CanonicalPath{}, rterr.New(rterr.KindIO, op, err).WithPath(canonical.Value)
	}

	if s.cfg.Enforce && !withinRoot(resolved, s.cfg.Root.Value) {
		return pathnorm.CanonicalPath{}, rterr.New(rterr.KindOutsideSandbox, op, nil).WithPath(resolved)
	}

	if checkReadonly && isReadonly(resolved, s.cfg.Readonly) {
		return pathnorm.CanonicalPath{}, rterr.New(rterr.KindReadOnly, op, nil).WithPath(resolved)
	}

	return pathnorm.CanonicalPath{Value: resolved, LongPath: canonical.LongPath}, nil
}

// resolveSymlinks follows symlinks for the longest existing prefix of
// value, then rejoins whatever trailing components do not yet exist (the
// common case for a file about to be created). This mirrors
// AgentTools::validate_path's "canonicalize, or canonicalize the parent"
// fallback, generalized to walk up past however many trailing components
// are missing.
func resolveSymlinks(value string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(value); err == nil {
		return resolved, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	sep := separatorOf(value)
	trailing := make([]string, 0, 4)
	current := value
	for {
		parent := parentOf(current, sep)
		if parent == current {
			// Reached the root of the path without finding an existing
			// ancestor; nothing to canonicalize against.
			return value, nil
		}
		trailing = append(trailing, baseOf(current, sep))
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			for i := len(trailing) - 1; i >= 0; i-- {
				resolved = resolved + string(sep) + trailing[i]
			}
			return resolved, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		current = parent
	}
}

func separatorOf(value string) byte {
	if strings.ContainsRune(value, '\\') {
		return '\\'
	}
	return '/'
}

func parentOf(value string, sep byte) string {
	idx := strings.LastIndexByte(value, sep)
	if idx <= 0 {
		if strings.HasPrefix(value, string(sep)) {
			return string(sep)
		}
		return value
	}
	return value[:idx]
}

func baseOf(value string, sep byte) string {
	idx := strings.LastIndexByte(value, sep)
	if idx < 0 {
		return value
	}
	return value[idx+1:]
}

// withinRoot reports whether resolved is root itself or a descendant of
// it, comparing whole path components rather than raw byte prefixes (so
// that a root "/tmp/sb" does not spuriously contain "/tmp/sbox").
func withinRoot(resolved, root string) bool {
	if resolved == root {
		return true
	}
	sep := separatorOf(root)
	prefix := root
	if !strings.HasSuffix(prefix, string(sep)) {
		prefix += string(sep)
	}
	return strings.HasPrefix(resolved, prefix)
}

// isReadonly reports whether resolved is any configured readonly entry
// or a descendant of one, by canonical path prefix rather than the
// original's per-component name match.
func isReadonly(resolved string, readonly []string) bool {
	for _, entry := range readonly {
		if withinRoot(resolved, entry) {
			return true
		}
	}
	return false
}
