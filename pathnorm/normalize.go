package pathnorm

import (
	"strings"

	"github.com/arashivan/agentrt/rterr"
)

const (
	// maxPath is the classic Windows MAX_PATH limit; paths longer than
	// this (and not already long-path-prefixed) get the UNC long-path
	// prefix applied.
	maxPath = 260
	// longPathPrefix lifts the maxPath limit on Windows hosts.
	longPathPrefix = `\\?\`

	backslash = '\\'
	forward   = '/'
)

// CanonicalPath is a dialect-native path that has passed dot-resolution
// and separator normalisation. It never contains "." components or
// consecutive separators, and carries an uppercase drive letter on
// Windows hosts. An absolute input yields an absolute path with no ".."
// components; a relative input stays relative and keeps any leading ".."
// components that cannot be resolved without a base.
type CanonicalPath struct {
	// Value is the canonical, host-native path string.
	Value string
	// LongPath reports whether Value carries the long-path prefix
	// required to address it via host OS calls.
	LongPath bool
}

func (c CanonicalPath) String() string { return c.Value }

const op = "pathnorm.Normalize"

// Normalize maps input, in any supported dialect, to its canonical form.
// Normalize performs no I/O and never touches the filesystem.
func Normalize(input string) (CanonicalPath, error) {
	if input == "" {
		return CanonicalPath{}, rterr.New(rterr.KindEmptyPath, op, nil)
	}

	dialect := Detect(input)

	var (
		normalized string
		err        error
	)
	switch dialect {
	case Dos:
		normalized, err = normalizeDos(input)
	case DosForward:
		normalized, err = normalizeDosForward(input)
	case Wsl:
		normalized, err = normalizeWsl(input)
	case Cygwin:
		normalized, err = normalizeCygwin(input)
	case GitBashMangled:
		normalized, err = normalizeGitBashMangled(input)
	case Unc:
		normalized, err = normalizeUnc(input)
	case UnixLike:
		normalized, err = normalizeUnixLike(input)
	case Mixed:
		normalized, err = normalizeMixed(input)
	case Relative:
		normalized, err = normalizeRelative(input)
	default:
		return CanonicalPath{}, rterr.New(rterr.KindInvalidFormat, op, nil).WithPath(input)
	}
	if err != nil {
		return CanonicalPath{}, err
	}

	return applyLongPathPolicy(normalized), nil
}

func applyLongPathPolicy(normalized string) CanonicalPath {
	if strings.HasPrefix(normalized, longPathPrefix) {
		return CanonicalPath{Value: normalized, LongPath: true}
	}
	if len(normalized) > maxPath {
		return CanonicalPath{Value: longPathPrefix + normalized, LongPath: true}
	}
	return CanonicalPath{Value: normalized, LongPath: false}
}

func validateDriveLetter(c byte) (byte, error) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, rterr.New(rterr.KindInvalidDriveLetter, op, nil)
	}
	return c, nil
}

// cleanComponents removes redundant separators and resolves "."/".."
// components of an absolute path, failing if ".." would rise above the
// root. sep is the canonical separator to join with.
func cleanComponents(path string, sep byte, allowRiseAboveRoot bool) (string, error) {
	parts := splitAny(path, '\\', '/')
	resolved := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
				continue
			}
			if allowRiseAboveRoot {
				resolved = append(resolved, part)
				continue
			}
			return "", rterr.New(rterr.KindInvalidComponent, op, nil).WithPath(path)
		default:
			resolved = append(resolved, part)
		}
	}
	return strings.Join(resolved, string(sep)), nil
}

func splitAny(s string, seps ...byte) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		for _, sep := range seps {
			if byte(r) == sep {
				return true
			}
		}
		return false
	})
}

func normalizeDos(path string) (string, error) {
	drive, err := validateDriveLetter(path[0])
	if err != nil {
		return "", err
	}
	remainder := path[2:]
	result := string(drive) + ":"
	if remainder == "" {
		return result, nil
	}
	cleaned, err := cleanComponents(remainder, backslash, false)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return result, nil
	}
	return result + string(backslash) + cleaned, nil
}

func normalizeDosForward(path string) (string, error) {
	// identical structure to DOS; cleanComponents already treats both
	// separators as component boundaries.
	return normalizeDos(path)
}

func normalizeAfterPrefix(path string, prefixLen int) (string, error) {
	after := path[prefixLen:]
	if after == "" {
		return "", rterr.New(rterr.KindInvalidFormat, op, nil).WithPath(path)
	}
	drive, err := validateDriveLetter(after[0])
	if err != nil {
		return "", err
	}
	var remainder string
	if len(after) > 1 {
		remainder = after[1:]
		remainder = strings.TrimPrefix(remainder, "/")
		remainder = strings.TrimPrefix(remainder, "\\")
	}
	result := string(drive) + ":"
	if remainder == "" {
		return result, nil
	}
	cleaned, err := cleanComponents(remainder, backslash, false)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return result, nil
	}
	return result + string(backslash) + cleaned, nil
}

func normalizeWsl(path string) (string, error) {
	return normalizeAfterPrefix(path, len("/mnt/"))
}

func normalizeCygwin(path string) (string, error) {
	return normalizeAfterPrefix(path, len("/cygdrive/"))
}

// normalizeGitBashMangled strips the Git-for-Windows install prefix so
// that "C:\Program Files\Git\mnt\c\users\x" normalizes identically to
// the WSL path "/mnt/c/users/x", per spec.md §4.1.
func normalizeGitBashMangled(path string) (string, error) {
	for _, prefix := range gitBashInstallPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		idx := strings.Index(rest, "mnt")
		if idx < 0 {
			continue
		}
		afterMnt := rest[idx+len("mnt"):]
		afterMnt = strings.TrimPrefix(afterMnt, "\\")
		afterMnt = strings.TrimPrefix(afterMnt, "/")
		return normalizeAfterPrefix("/"+afterMnt, 1)
	}
	return "", rterr.New(rterr.KindInvalidFormat, op, nil).WithPath(path)
}

func normalizeUnc(path string) (string, error) {
	if len(path) < 7 {
		return "", rterr.New(rterr.KindInvalidFormat, op, nil).WithPath(path)
	}
	return path, nil
}

// normalizeUnixLike handles bare "//..." paths (spec.md priority rule 5),
// treated as POSIX-style absolute paths rather than Git Bash shorthand.
func normalizeUnixLike(path string) (string, error) {
	cleaned, err := cleanComponents(path, forward, false)
	if err != nil {
		return "", err
	}
	return "/" + cleaned, nil
}

func normalizeMixed(path string) (string, error) {
	replaced := strings.ReplaceAll(path, string(forward), string(backslash))
	if len(replaced) >= 2 && isASCIIAlpha(replaced[0]) && replaced[1] == ':' {
		return normalizeDos(replaced)
	}
	cleaned, err := cleanComponents(replaced, backslash, false)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(path, string(backslash)) || strings.HasPrefix(path, string(forward)) {
		return string(backslash) + cleaned, nil
	}
	return cleaned, nil
}

// normalizeRelative handles both POSIX-flavored inputs ("/relative/unix",
// "relative/path") and Windows-flavored relative inputs ("relative\win",
// "..\sibling"). Spec.md §4.1 calls this dialect "Unix-like without drive
// info", so the canonical separator tracks whichever separator the input
// actually used rather than forcing a Windows translation: a path that
// never contained a backslash stays forward-slash native, which matters
// for sandbox roots like "/tmp/sb" that must still resolve on a POSIX host.
func normalizeRelative(path string) (string, error) {
	absolute := strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`)
	sep := byte(forward)
	if strings.ContainsRune(path, backslash) {
		sep = backslash
	}
	replaced := path
	if sep == backslash {
		replaced = strings.ReplaceAll(path, string(forward), string(backslash))
	}
	cleaned, err := cleanComponents(replaced, sep, !absolute)
	if err != nil {
		return "", err
	}
	if absolute {
		return string(sep) + cleaned, nil
	}
	return cleaned, nil
}

// IsAbsolute reports whether path, interpreted by its detected dialect, is
// an absolute path.
func IsAbsolute(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, `\\`) {
		return true
	}
	if len(path) >= 3 && isASCIIAlpha(path[0]) && path[1] == ':' &&
		(path[2] == backslash || path[2] == forward) {
		return true
	}
	return strings.HasPrefix(path, "/")
}

// Join concatenates base and relative, honoring relative's own
// absoluteness (an absolute relative argument wins outright, matching
// filepath.Join-adjacent expectations), and returns the canonical form.
func Join(base, relative string) (CanonicalPath, error) {
	if IsAbsolute(relative) {
		return Normalize(relative)
	}

	baseCanonical, err := Normalize(base)
	if err != nil {
		return CanonicalPath{}, err
	}

	sep := byte(forward)
	if strings.ContainsRune(baseCanonical.Value, backslash) {
		sep = backslash
	}
	rel := relative
	if sep == backslash {
		rel = strings.ReplaceAll(relative, string(forward), string(backslash))
	} else {
		rel = strings.ReplaceAll(relative, string(backslash), string(forward))
	}
	joined := baseCanonical.Value
	if !strings.HasSuffix(joined, string(sep)) {
		joined += string(sep)
	}
	joined += rel

	return Normalize(joined)
}
