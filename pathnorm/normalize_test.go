package pathnorm_test

import (
	"strings"
	"testing"

	"github.com/arashivan/agentrt/pathnorm"
	"github.com/arashivan/agentrt/rterr"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		input string
		want  pathnorm.Dialect
	}{
		{`\\?\C:\Users\x`, pathnorm.Unc},
		{`/mnt/c/users/x`, pathnorm.Wsl},
		{`/cygdrive/d/data`, pathnorm.Cygwin},
		{`C:\Program Files\Git\mnt\c\users\x`, pathnorm.GitBashMangled},
		{`//share/docs`, pathnorm.UnixLike},
		{`C:\a/b`, pathnorm.Mixed},
		{`C:\Users\x`, pathnorm.Dos},
		{`C:/Users/x`, pathnorm.DosForward},
		{`/relative/unix`, pathnorm.Relative},
		{`relative\win`, pathnorm.Relative},
	}
	for _, tc := range cases {
		if got := pathnorm.Detect(tc.input); got != tc.want {
			t.Errorf("Detect(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

// TestDialectRoundTrip implements spec.md §8 scenario S3.
func TestDialectRoundTrip(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`/mnt/c/users/x`, `C:\users\x`},
		{`/cygdrive/d/data`, `D:\data`},
		{`C:\Program Files\Git\mnt\c\users\x`, `C:\users\x`},
		{`c:\users\david`, `C:\users\david`},
		{`C:/Users/David`, `C:\Users\David`},
	}
	for _, tc := range cases {
		got, err := pathnorm.Normalize(tc.input)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tc.input, err)
		}
		if got.Value != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got.Value, tc.want)
		}
	}
}

// TestIdempotence implements spec.md §8 universal invariant 3.
func TestIdempotence(t *testing.T) {
	inputs := []string{
		`/mnt/c/users/x`,
		`C:\Users\David\Documents`,
		`C:/Users/David//Documents/../Pictures`,
		`relative/./path/../file.txt`,
	}
	for _, in := range inputs {
		first, err := pathnorm.Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", in, err)
		}
		second, err := pathnorm.Normalize(first.Value)
		if err != nil {
			t.Fatalf("Normalize(normalized %q) error: %v", first.Value, err)
		}
		if first.Value != second.Value {
			t.Errorf("not idempotent: Normalize(%q) = %q, Normalize(that) = %q", in, first.Value, second.Value)
		}
	}
}

func TestDotResolution(t *testing.T) {
	got, err := pathnorm.Normalize(`C:\a\b\..\c\.\d`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `C:\a\c\d`; got.Value != want {
		t.Fatalf("got %q, want %q", got.Value, want)
	}
}

func TestDotDotAboveRootFails(t *testing.T) {
	_, err := pathnorm.Normalize(`C:\..\escaped`)
	if !rterr.Is(err, rterr.KindInvalidComponent) {
		t.Fatalf("expected KindInvalidComponent, got %v", err)
	}
}

func TestDotDotPreservedOnRelative(t *testing.T) {
	got, err := pathnorm.Normalize(`..\sibling`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != `..\sibling` {
		t.Fatalf("got %q, want preserved leading ..", got.Value)
	}
}

func TestEmptyPath(t *testing.T) {
	_, err := pathnorm.Normalize("")
	if !rterr.Is(err, rterr.KindEmptyPath) {
		t.Fatalf("expected KindEmptyPath, got %v", err)
	}
}

func TestInvalidDriveLetter(t *testing.T) {
	_, err := pathnorm.Normalize(`/mnt/9/users`)
	if !rterr.Is(err, rterr.KindInvalidDriveLetter) {
		t.Fatalf("expected KindInvalidDriveLetter, got %v", err)
	}
}

func TestLongPathPrefixApplied(t *testing.T) {
	long := `C:\` + strings.Repeat("a", 300)
	got, err := pathnorm.Normalize(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.LongPath {
		t.Fatalf("expected LongPath=true for a %d-byte path", len(got.Value))
	}
	if !strings.HasPrefix(got.Value, `\\?\`) {
		t.Fatalf("expected long-path prefix, got %q", got.Value)
	}
}

// TestRelativePreservesPosixSeparators guards the sandbox's use case: a
// configured root like "/tmp/sb" must stay forward-slash native so it can
// be handed straight to host filesystem calls on a POSIX host, rather than
// being forced into a Windows drive-letter translation it never had.
func TestRelativePreservesPosixSeparators(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/tmp/sb", "/tmp/sb"},
		{"/tmp/sb/.git/config", "/tmp/sb/.git/config"},
		{"/tmp/sb/./a/../b", "/tmp/sb/b"},
	}
	for _, tc := range cases {
		got, err := pathnorm.Normalize(tc.input)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tc.input, err)
		}
		if got.Value != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got.Value, tc.want)
		}
	}
}

func TestJoinRoundTrip(t *testing.T) {
	root, err := pathnorm.Normalize(`C:\sandbox\root`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined, err := pathnorm.Join(root.Value, "sub/dir/file.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `C:\sandbox\root\sub\dir\file.txt`
	if joined.Value != want {
		t.Fatalf("got %q, want %q", joined.Value, want)
	}
}
