package tools

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arashivan/agentrt/rterr"
)

const opFind = "tools.find"

// Find walks from root bounded by MaxDepth, Include/Exclude glob sets
// and a name regex, capped at MaxResults. Grounded on
// original_source/mistralrs-agent-tools/src/tools/search/mod.rs's find,
// adapted from the `ignore` crate's WalkBuilder onto filepath.WalkDir,
// which does not descend into symlinked directories.
func (e *Executor) Find(root string, opts FindOptions) (FindResult, error) {
	canonicalRoot, err := e.validateRead(opFind, root)
	if err != nil {
		return FindResult{}, err
	}

	var nameRe *regexp.Regexp
	if opts.NamePattern != "" {
		nameRe, err = regexp.Compile(opts.NamePattern)
		if err != nil {
			return FindResult{}, rterr.New(rterr.KindInvalidPath, opFind, err)
		}
	}

	var result FindResult
	walkErr := filepath.WalkDir(canonicalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if len(result.Entries) >= MaxResults {
			result.Truncated = true
			return filepath.SkipAll
		}

		if path != canonicalRoot {
			if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if opts.MaxDepth != nil {
				rel, _ := filepath.Rel(canonicalRoot, path)
				depth := strings.Count(rel, string(filepath.Separator)) + 1
				if depth > *opts.MaxDepth {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}
		}

		if path == canonicalRoot {
			return nil
		}

		if !matchesGlobSet(opts.Include, path) {
			return nil
		}
		if len(opts.Exclude) > 0 && matchesGlobSet(opts.Exclude, path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if nameRe != nil && !nameRe.MatchString(d.Name()) {
			return nil
		}

		result.Entries = append(result.Entries, path)
		return nil
	})
	if walkErr != nil {
		return FindResult{}, rterr.New(rterr.KindIO, opFind, walkErr).WithPath(canonicalRoot)
	}
	return result, nil
}

// matchesGlobSet reports true when patterns is empty (no filter) or path
// matches at least one glob in patterns.
func matchesGlobSet(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
