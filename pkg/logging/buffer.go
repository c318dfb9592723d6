package logging

import (
	"strings"
	"sync"
)

// captureDepth is how many lines a capture keeps.
const captureDepth = 32

// LogCaptureWriter is an io.Writer remembering the most recent lines.
type LogCaptureWriter struct {
	mu    sync.RWMutex
	lines [captureDepth]string
	next  int
	count int
}

// GlobalLogCapture holds the latest INFO+ server log lines.
var GlobalLogCapture = &LogCaptureWriter{}

// GlobalEventCapture holds the latest flight event lines.
var GlobalEventCapture = &LogCaptureWriter{}

// Write implements io.Writer. Each call is stored as one line.
func (w *LogCaptureWriter) Write(p []byte) (n int, err error) {
	line := strings.TrimRight(string(p), "\n")

	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines[w.next] = line
	w.next = (w.next + 1) % captureDepth
	if w.count < captureDepth {
		w.count++
	}
	return len(p), nil
}

// GetLastLine returns the most recent line, or "" before the first write.
func (w *LogCaptureWriter) GetLastLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.count == 0 {
		return ""
	}
	return w.lines[(w.next-1+captureDepth)%captureDepth]
}

// Recent returns up to n lines, oldest first.
func (w *LogCaptureWriter) Recent(n int) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if n > w.count {
		n = w.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	start := (w.next - n + captureDepth) % captureDepth
	for i := range out {
		out[i] = w.lines[(start+i)%captureDepth]
	}
	return out
}
