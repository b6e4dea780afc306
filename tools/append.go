package tools

import (
	"os"
	"path/filepath"

	"github.com/arashivan/agentrt/rterr"
)

const opAppend = "tools.append"

// Append validates path for writing and appends content, creating the
// file and its parent directories if necessary. As Write, an exclusive
// lock is held for the duration and the file is fsync'd before release.
func (e *Executor) Append(path, content string) error {
	canonical, err := e.validateWrite(opAppend, path, int64(len(content)))
	if err != nil {
		return err
	}

	lock := e.locks.forPath(canonical)
	lock.Lock()
	defer lock.Unlock()

	if dir := filepath.Dir(canonical); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rterr.New(rterr.KindIO, opAppend, err).WithPath(dir)
		}
	}

	return writeAndSync(opAppend, canonical, []byte(content), os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}
