package tools

import (
	"bufio"
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/arashivan/agentrt/rterr"
)

const opSort = "tools.sort"

// Sort reads every line of paths and returns them newline-joined,
// ordered per opts.Mode. Grounded on
// original_source/mistralrs-agent-tools/src/tools/text/sort.rs.
func (e *Executor) Sort(paths []string, opts SortOptions) (string, error) {
	if len(paths) == 0 {
		return "", rterr.New(rterr.KindInvalidPath, opSort, errors.New("no paths provided"))
	}

	var lines []string
	for _, path := range paths {
		canonical, err := e.validateRead(opSort, path)
		if err != nil {
			return "", err
		}
		f, err := os.Open(canonical)
		if err != nil {
			return "", rterr.New(rterr.KindIO, opSort, err).WithPath(canonical)
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		scanErr := scanner.Err()
		f.Close()
		if scanErr != nil {
			return "", rterr.New(rterr.KindIO, opSort, scanErr).WithPath(canonical)
		}
	}

	sortLines(lines, opts)

	if opts.Unique {
		lines = dedupAdjacent(lines)
	}
	return strings.Join(lines, "\n"), nil
}

func sortLines(lines []string, opts SortOptions) {
	var less func(i, j int) bool
	switch opts.Mode {
	case SortNumeric:
		less = func(i, j int) bool { return compareNumeric(lines[i], lines[j]) < 0 }
	case SortVersion:
		less = func(i, j int) bool { return compareVersion(lines[i], lines[j]) < 0 }
	case SortMonth:
		less = func(i, j int) bool { return compareMonth(lines[i], lines[j]) < 0 }
	case SortHumanNumeric:
		less = func(i, j int) bool { return compareHumanNumeric(lines[i], lines[j]) < 0 }
	default:
		if opts.IgnoreCase {
			less = func(i, j int) bool { return strings.ToLower(lines[i]) < strings.ToLower(lines[j]) }
		} else {
			less = func(i, j int) bool { return lines[i] < lines[j] }
		}
	}
	sort.SliceStable(lines, less)
	if opts.Reverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
}

func dedupAdjacent(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	out := lines[:1]
	for _, line := range lines[1:] {
		if line != out[len(out)-1] {
			out = append(out, line)
		}
	}
	return out
}

func compareNumeric(a, b string) int {
	an, aErr := strconv.ParseFloat(strings.TrimSpace(a), 64)
	bn, bErr := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// versionPart is one token of a version-sort split: a run of digits
// (compared numerically) or a run of non-digits (compared lexically).
type versionPart struct {
	isNumber bool
	number   uint64
	text     string
}

func splitVersion(s string) []versionPart {
	var parts []versionPart
	var numBuf, textBuf strings.Builder

	flushText := func() {
		if textBuf.Len() > 0 {
			parts = append(parts, versionPart{text: textBuf.String()})
			textBuf.Reset()
		}
	}
	flushNum := func() {
		if numBuf.Len() > 0 {
			if n, err := strconv.ParseUint(numBuf.String(), 10, 64); err == nil {
				parts = append(parts, versionPart{isNumber: true, number: n})
			}
			numBuf.Reset()
		}
	}

	for _, r := range s {
		if r >= '0' && r <= '9' {
			flushText()
			numBuf.WriteRune(r)
		} else {
			flushNum()
			textBuf.WriteRune(r)
		}
	}
	flushNum()
	flushText()
	return parts
}

// compareVersion implements natural-sort ordering: number parts compare
// numerically, text parts compare lexically, and a number-vs-text
// mismatch always orders the number first.
func compareVersion(a, b string) int {
	ap, bp := splitVersion(a), splitVersion(b)
	n := len(ap)
	if len(bp) < n {
		n = len(bp)
	}
	for i := 0; i < n; i++ {
		x, y := ap[i], bp[i]
		switch {
		case x.isNumber && y.isNumber:
			switch {
			case x.number < y.number:
				return -1
			case x.number > y.number:
				return 1
			}
		case !x.isNumber && !y.isNumber:
			if c := strings.Compare(x.text, y.text); c != 0 {
				return c
			}
		case x.isNumber:
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(ap) < len(bp):
		return -1
	case len(ap) > len(bp):
		return 1
	default:
		return 0
	}
}

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

func compareMonth(a, b string) int {
	am, aOk := monthNames[strings.ToLower(strings.TrimSpace(a))]
	bm, bOk := monthNames[strings.ToLower(strings.TrimSpace(b))]
	switch {
	case aOk && bOk:
		return am - bm
	case aOk:
		return -1
	case bOk:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// parseHumanNumeric parses a trailing K/M/G/T multiplier (powers of
// 1024), per spec §4.4.
func parseHumanNumeric(s string) (float64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	multiplier := 1.0
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case 'G':
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	case 'T':
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n * multiplier, true
}

func compareHumanNumeric(a, b string) int {
	av, aOk := parseHumanNumeric(a)
	bv, bOk := parseHumanNumeric(b)
	switch {
	case aOk && bOk:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case aOk:
		return -1
	case bOk:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
