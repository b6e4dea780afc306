// Package pathnorm implements the path normaliser (spec component C1): a
// pure, OS-call-free mapping from any of several path dialects to one
// canonical, host-native form. Grounded on
// original_source/mistralrs-agent-tools/src/pathlib.rs and
// winutils/shared/winpath/src/detection.rs, generalized to the dialect
// priority list spec.md §4.1 specifies (which adds GitBashMangled and
// reclassifies bare "//" as UnixLike rather than Git Bash shorthand).
package pathnorm

import "strings"

// Dialect is the detected path-string flavor. Detection is a pure,
// byte-level classification with no OS interaction.
type Dialect int

const (
	Unknown Dialect = iota
	Dos
	DosForward
	Wsl
	Cygwin
	GitBashMangled
	Unc
	UnixLike
	Mixed
	Relative
)

func (d Dialect) String() string {
	switch d {
	case Dos:
		return "Dos"
	case DosForward:
		return "DosForward"
	case Wsl:
		return "Wsl"
	case Cygwin:
		return "Cygwin"
	case GitBashMangled:
		return "GitBashMangled"
	case Unc:
		return "Unc"
	case UnixLike:
		return "UnixLike"
	case Mixed:
		return "Mixed"
	case Relative:
		return "Relative"
	default:
		return "Unknown"
	}
}

// gitBashInstallPrefixes are the fixed set of Git-for-Windows installation
// prefixes detect() checks for before an embedded "\mnt\" or "/mnt/",
// per spec.md §4.1 priority rule 2.
var gitBashInstallPrefixes = []string{
	`C:\Program Files\Git`,
	`C:\Program Files (x86)\Git`,
	`C:/Program Files/Git`,
	`C:/Program Files (x86)/Git`,
}

// Detect classifies the dialect of a raw path string, following the
// priority order fixed by spec.md §4.1.
func Detect(input string) Dialect {
	if input == "" {
		return Unknown
	}

	if strings.HasPrefix(input, `\\?\`) {
		return Unc
	}

	for _, prefix := range gitBashInstallPrefixes {
		if !strings.HasPrefix(input, prefix) {
			continue
		}
		rest := input[len(prefix):]
		if strings.Contains(rest, `\mnt\`) || strings.Contains(rest, `/mnt/`) {
			return GitBashMangled
		}
	}

	if strings.HasPrefix(input, "/mnt/") && len(input) > len("/mnt/") {
		return Wsl
	}

	if strings.HasPrefix(input, "/cygdrive/") {
		return Cygwin
	}

	if strings.HasPrefix(input, "//") {
		return UnixLike
	}

	hasBackslash := strings.ContainsRune(input, '\\')
	hasForward := strings.ContainsRune(input, '/')
	if hasBackslash && hasForward {
		return Mixed
	}

	if len(input) >= 2 && isASCIIAlpha(input[0]) && input[1] == ':' {
		if hasForward {
			return DosForward
		}
		return Dos
	}

	if strings.HasPrefix(input, "/") {
		return Relative
	}

	return Relative
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
