package tools

import (
	"os"
	"time"

	"github.com/arashivan/agentrt/rterr"
)

const opTouch = "tools.touch"

// Touch creates each path if absent (unless NoCreate), then sets its
// atime/mtime to the reference time (or now), honoring AccessOnly and
// ModificationOnly. Grounded on
// original_source/mistralrs-agent-tools/src/tools/file/touch.rs.
func (e *Executor) Touch(paths []string, opts TouchOptions) (TouchResult, error) {
	if len(paths) == 0 {
		return TouchResult{}, rterr.New(rterr.KindInvalidPath, opTouch, nil)
	}

	refTime := time.Now()
	if opts.ReferenceTime != nil {
		refTime = *opts.ReferenceTime
	}

	var result TouchResult
	for _, path := range paths {
		canonical, err := e.validateWrite(opTouch, path, 0)
		if err != nil {
			return TouchResult{}, err
		}

		_, statErr := os.Stat(canonical)
		existed := statErr == nil
		if !existed {
			if opts.NoCreate {
				continue
			}
			f, err := os.OpenFile(canonical, os.O_WRONLY|os.O_CREATE, 0o644)
			if err != nil {
				return TouchResult{}, rterr.New(rterr.KindIO, opTouch, err).WithPath(canonical)
			}
			f.Close()
			result.Created++
		}

		if err := setTimes(canonical, refTime, opts); err != nil {
			return TouchResult{}, err
		}
		result.Touched = append(result.Touched, canonical)
	}

	result.Count = len(result.Touched)
	return result, nil
}

// setTimes sets atime/mtime via os.Chtimes. os.FileInfo exposes only
// ModTime portably, so the "only touch one of atime/mtime" flags fall
// back to the existing mtime as a stand-in for the untouched timestamp
// rather than the platform-specific atime stdlib cannot read.
func setTimes(path string, refTime time.Time, opts TouchOptions) error {
	atime, mtime := refTime, refTime
	if opts.AccessOnly || opts.ModificationOnly {
		info, err := os.Stat(path)
		if err != nil {
			return rterr.New(rterr.KindIO, opTouch, err).WithPath(path)
		}
		current := info.ModTime()
		if opts.AccessOnly {
			mtime = current
		}
		if opts.ModificationOnly {
			atime = current
		}
	}
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return rterr.New(rterr.KindIO, opTouch, err).WithPath(path)
	}
	return nil
}
