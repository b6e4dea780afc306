package tools

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"github.com/arashivan/agentrt/rterr"
)

const opGrep = "tools.grep"

// Grep searches pattern over paths, honoring the GrepOptions context
// window and invert/fixed-string/ignore-case flags. Grounded on
// original_source/mistralrs-agent-tools/src/tools/text/grep.rs's
// search_file, which this reimplements faithfully: before-context is a
// fixed-size sliding window, after-context is a post-match countdown
// that finalizes a pending match when either exhausted or another match
// arrives.
func (e *Executor) Grep(pattern string, paths []string, opts GrepOptions) ([]GrepMatch, error) {
	if len(paths) == 0 {
		return nil, rterr.New(rterr.KindInvalidPath, opGrep, errors.New("no paths provided"))
	}
	if pattern == "" {
		return nil, rterr.New(rterr.KindInvalidPath, opGrep, errors.New("empty pattern"))
	}

	expr := pattern
	if opts.FixedStrings {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.IgnoreCase {
		expr = "(?i)" + expr
	}
	matcher, err := regexp.Compile(expr)
	if err != nil {
		return nil, rterr.New(rterr.KindInvalidPath, opGrep, err)
	}

	var matches []GrepMatch
	for _, path := range paths {
		canonical, err := e.validateRead(opGrep, path)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(canonical)
		if err != nil {
			return nil, rterr.New(rterr.KindIO, opGrep, err).WithPath(canonical)
		}
		if info.IsDir() {
			if !opts.Recursive {
				return nil, rterr.New(rterr.KindInvalidPath, opGrep, errors.New("is a directory (use recursive option)")).WithPath(canonical)
			}
			if err := e.searchDirectory(matcher, canonical, opts, &matches); err != nil {
				return nil, err
			}
			continue
		}
		if err := searchFile(matcher, canonical, opts, &matches); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (e *Executor) searchDirectory(matcher *regexp.Regexp, dir string, opts GrepOptions, matches *[]GrepMatch) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return rterr.New(rterr.KindIO, opGrep, err).WithPath(dir)
	}
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		if _, err := e.Sandbox.ValidateRead(entryPath); err != nil {
			continue
		}
		if entry.IsDir() {
			if err := e.searchDirectory(matcher, entryPath, opts, matches); err != nil {
				return err
			}
			continue
		}
		if err := searchFile(matcher, entryPath, opts, matches); err != nil {
			return err
		}
		if len(*matches) >= MaxResults {
			return nil
		}
	}
	return nil
}

func searchFile(matcher *regexp.Regexp, path string, opts GrepOptions, matches *[]GrepMatch) error {
	f, err := os.Open(path)
	if err != nil {
		return rterr.New(rterr.KindIO, opGrep, err).WithPath(path)
	}
	defer f.Close()

	before := make([]string, 0, opts.BeforeContext)
	var pending *GrepMatch
	afterRemaining := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if !utf8.ValidString(line) {
			return rterr.New(rterr.KindIO, opGrep, errors.New("file is not valid UTF-8")).WithPath(path)
		}

		isMatch := matcher.MatchString(line) != opts.InvertMatch

		if isMatch {
			if pending != nil {
				*matches = append(*matches, *pending)
				pending = nil
			}

			gm := GrepMatch{
				Path:       path,
				LineNumber: lineNum,
				Line:       line,
				Before:     append([]string(nil), before...),
			}
			if opts.AfterContext > 0 {
				pending = &gm
				afterRemaining = opts.AfterContext
			} else {
				*matches = append(*matches, gm)
			}
			before = before[:0]
		} else {
			if afterRemaining > 0 {
				pending.After = append(pending.After, line)
				afterRemaining--
				if afterRemaining == 0 {
					*matches = append(*matches, *pending)
					pending = nil
				}
			}
			if opts.BeforeContext > 0 {
				before = append(before, line)
				if len(before) > opts.BeforeContext {
					before = before[1:]
				}
			}
		}

		if len(*matches) >= MaxResults {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return rterr.New(rterr.KindIO, opGrep, err).WithPath(path)
	}
	if pending != nil {
		*matches = append(*matches, *pending)
	}
	return nil
}
