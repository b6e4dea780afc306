package tools

import "time"

// FileEntry describes one filesystem entry returned by Ls.
// Grounded on original_source/mistralrs-agent-tools/src/tools/file/ls.rs's
// FileEntry.
type FileEntry struct {
	Path       string
	Name       string
	IsDir      bool
	Size       int64
	ModifiedAt time.Time
	Mode       uint32
}

// LsResult is the outcome of an Ls call.
type LsResult struct {
	Entries   []FileEntry
	Total     int
	TotalSize int64
}

// LsOptions controls Ls traversal and filtering, per spec §4.4.
type LsOptions struct {
	All       bool
	Recursive bool
	SortBy    SortField
	Reverse   bool
}

// SortField selects the Ls ordering.
type SortField int

const (
	SortByName SortField = iota
	SortByModTime
)

// CpOptions mirrors the original cp.rs CpOptions, GNU-cp-ish semantics
// per spec §4.4.
type CpOptions struct {
	Recursive    bool
	Force        bool
	Interactive  bool
	Preserve     bool
	Link         bool
	SymbolicLink bool
	Update       bool
	Verbose      bool
}

// CpResult reports what Cp actually copied. BytesCopied is a
// SPEC_FULL.md C.2 supplement (original's progress.rs reports per-file
// byte counts). VerboseLines is populated only when CpOptions.Verbose is
// set, one "source -> dest" entry per source actually copied; a
// recursively copied directory contributes a single entry.
type CpResult struct {
	Copied       []string
	Count        int
	BytesCopied  int64
	VerboseLines []string
}

// TouchOptions mirrors touch.rs's TouchOptions.
type TouchOptions struct {
	NoCreate          bool
	AccessOnly        bool
	ModificationOnly  bool
	ReferenceTime     *time.Time
}

// TouchResult reports what Touch did.
type TouchResult struct {
	Touched []string
	Count   int
	Created int
}

// GrepOptions mirrors grep.rs's GrepOptions plus the context-window
// fields spec §4.4 names explicitly.
type GrepOptions struct {
	IgnoreCase    bool
	InvertMatch   bool
	FixedStrings  bool
	BeforeContext int
	AfterContext  int
	Recursive     bool
	LineNumber    bool
}

// GrepMatch is one matched line plus its sliding-window context.
type GrepMatch struct {
	Path       string
	LineNumber int
	Line       string
	Before     []string
	After      []string
}

// SortMode selects the Sort comparison, per spec §4.4.
type SortMode int

const (
	SortLexical SortMode = iota
	SortNumeric
	SortVersion
	SortMonth
	SortHumanNumeric
)

// SortOptions controls the Sort tool.
type SortOptions struct {
	Mode       SortMode
	Reverse    bool
	Unique     bool
	IgnoreCase bool
}

// FindOptions bounds a Find walk, per spec §4.4 and the original's
// FindOptions in search/mod.rs.
type FindOptions struct {
	MaxDepth     *int
	Include      []string
	Exclude      []string
	NamePattern  string
	IncludeHidden bool
}

// FindResult reports Find's matches, truncated if MaxResults was hit.
type FindResult struct {
	Entries   []string
	Truncated bool
}

// TreeOptions bounds a Tree walk.
type TreeOptions struct {
	MaxDepth *int
}

// TreeEntry is one node of a pre-order tree walk. Depth and Size are a
// SPEC_FULL.md C.5 supplement (original's tree/src/output.rs annotates
// nodes beyond a bare path sequence).
type TreeEntry struct {
	Path  string
	Depth int
	IsDir bool
	Size  int64
}

// TreeResult reports Tree's pre-order walk, truncated if MaxResults was
// hit.
type TreeResult struct {
	Entries   []TreeEntry
	Truncated bool
}

// MaxResults caps enumeration-style tools (Find, Tree, Grep, Ls
// recursive), per spec §4.4's "hard cap MAX_RESULTS".
const MaxResults = 1000

// MaxReadSize caps Read, per spec §4.4 ("reject if size > 5 MiB").
const MaxReadSize = 5 * 1024 * 1024
