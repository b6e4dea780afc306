package mcp

import (
	"bufio"
	"io"
)

// sseMaxLineSize mirrors sdk-go/internal/sse.Scanner's MaxScanTokenSize:
// an SSE event line carries a full JSON-RPC payload and so needs more
// headroom than bufio.Scanner's 64KiB default.
const sseMaxLineSize = 5 * 1024 * 1024

// newLineScanner returns a bufio.Scanner sized for SSE event lines,
// grounded on sdk-go/internal/sse.NewScanner.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), sseMaxLineSize)
	return scanner
}
