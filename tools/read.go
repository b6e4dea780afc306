package tools

import (
	"errors"
	"os"
	"unicode/utf8"

	"github.com/arashivan/agentrt/rterr"
)

const opRead = "tools.read"

// Read validates path for reading, rejects files over MaxReadSize, and
// returns their contents as UTF-8 text. A shared (read) lock is held for
// the duration of the read, per spec §4.4.
func (e *Executor) Read(path string) (string, error) {
	canonical, err := e.validateRead(opRead, path)
	if err != nil {
		return "", err
	}

	lock := e.locks.forPath(canonical)
	lock.RLock()
	defer lock.RUnlock()

	info, err := os.Stat(canonical)
	if err != nil {
		return "", rterr.New(rterr.KindIO, opRead, err).WithPath(canonical)
	}
	if info.Size() > MaxReadSize {
		return "", rterr.New(rterr.KindFileTooLarge, opRead, nil).WithPath(canonical)
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return "", rterr.New(rterr.KindIO, opRead, err).WithPath(canonical)
	}
	if !utf8.Valid(data) {
		return "", rterr.New(rterr.KindIO, opRead, errors.New("file is not valid UTF-8")).WithPath(canonical)
	}
	return string(data), nil
}
