package tools

import (
	"os"
	"path/filepath"

	"github.com/arashivan/agentrt/rterr"
)

const opWrite = "tools.write"

// WriteOptions controls Write's create/overwrite semantics, per spec
// §4.4.
type WriteOptions struct {
	Create    bool
	Overwrite bool
}

// Write validates path for writing, creates parent directories, and
// writes content, honoring Create/Overwrite. An exclusive lock is held
// for the duration of the write, and the file is fsync'd before the
// lock is released.
func (e *Executor) Write(path, content string, opts WriteOptions) error {
	canonical, err := e.validateWrite(opWrite, path, int64(len(content)))
	if err != nil {
		return err
	}

	lock := e.locks.forPath(canonical)
	lock.Lock()
	defer lock.Unlock()

	_, statErr := os.Stat(canonical)
	exists := statErr == nil
	if exists && !opts.Overwrite {
		return rterr.New(rterr.KindAlreadyExists, opWrite, nil).WithPath(canonical)
	}
	if !exists && !opts.Create {
		return rterr.New(rterr.KindIO, opWrite, nil).WithPath(canonical)
	}

	if dir := filepath.Dir(canonical); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rterr.New(rterr.KindIO, opWrite, err).WithPath(dir)
		}
	}

	return writeAndSync(opWrite, canonical, []byte(content), os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func writeAndSync(op, path string, data []byte, flag int) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return rterr.New(rterr.KindIO, op, err).WithPath(path)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return rterr.New(rterr.KindIO, op, err).WithPath(path)
	}
	if err := f.Sync(); err != nil {
		return rterr.New(rterr.KindIO, op, err).WithPath(path)
	}
	return nil
}
