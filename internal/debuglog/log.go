// Package debuglog implements the mutator's line-buffered diagnostic
// sink (spec.md §6 env vars DEBUG/PROJECT_ROOT/FUZZER_QUIET), adapted
// from the source's function-local-static log file plus a quiet-mode
// null sink.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
)

// Log is one open, line-buffered diagnostic sink. Each record is
// flushed immediately (spec.md §5 "one writer, line-buffered, flushed
// after each record").
type Log struct {
	mu    sync.Mutex
	file  *os.File  // non-nil only when runtime.log is the sink; owns Close.
	sink  io.Writer // where records actually go: file, os.Stderr, or nil (quiet).
	trace bool
	quiet bool
}

// Open creates workdir/logs (prefixed by PROJECT_ROOT when set) and
// opens runtime.log for append. Failure to open downgrades to os.Stderr
// rather than aborting (spec.md §7, IOError is non-fatal): the IOError
// is reported once to stderr and every subsequent record goes there too.
func Open() *Log {
	l := &Log{
		trace: os.Getenv("DEBUG") == "1",
		quiet: isQuiet(),
	}
	if l.quiet {
		return l
	}

	dir := "workdir/logs"
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		dir = filepath.Join(root, "workdir", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.fallbackToStderr(mutatorerr.Wrap(mutatorerr.IOError, dir, "cannot create log directory", err))
		return l
	}

	logPath := filepath.Join(dir, "runtime.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.fallbackToStderr(mutatorerr.Wrap(mutatorerr.IOError, logPath, "cannot open log file", err))
		return l
	}
	l.file = f
	l.sink = f
	fmt.Fprintf(f, "\n=== session started (pid=%d) ===\n", os.Getpid())
	f.Sync()
	return l
}

// fallbackToStderr reports ioErr once and routes all further records to
// os.Stderr instead of silently dropping them.
func (l *Log) fallbackToStderr(ioErr error) {
	fmt.Fprintf(os.Stderr, "isa-mutator: %v; logging to stderr\n", ioErr)
	l.sink = os.Stderr
}

func isQuiet() bool {
	v := os.Getenv("FUZZER_QUIET")
	return v != "" && (v[0] == '1' || v[0] == 'y' || v[0] == 'Y')
}

func (l *Log) write(prefix, format string, args ...interface{}) {
	if l == nil || l.quiet || l.sink == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.sink, prefix)
	fmt.Fprintf(l.sink, format, args...)
	fmt.Fprintln(l.sink)
	if l.file != nil {
		l.file.Sync()
	}
}

// Info logs an informational record.
func (l *Log) Info(format string, args ...interface{}) { l.write("[INFO] ", format, args...) }

// Warn logs a warning record.
func (l *Log) Warn(format string, args ...interface{}) { l.write("[WARN] ", format, args...) }

// Error logs an error record.
func (l *Log) Error(format string, args ...interface{}) { l.write("[ERROR] ", format, args...) }

// Debug logs a trace-level record, only when DEBUG=1.
func (l *Log) Debug(format string, args ...interface{}) {
	if l == nil || !l.trace {
		return
	}
	l.write("[DEBUG] ", format, args...)
}

// TraceEnabled reports whether DEBUG=1 was set at Open time.
func (l *Log) TraceEnabled() bool {
	return l != nil && l.trace
}

// Illegal records a before/after hex dump for a mutation the legality
// oracle rejected. Only emitted when DEBUG=1 (spec.md §4.G step 4).
func (l *Log) Illegal(source string, before, after uint32) {
	if l == nil || !l.trace || l.quiet || l.sink == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.sink, "[ILLEGAL] %s()\n  before = 0x%08x\n  after  = 0x%08x\n", source, before, after)
	if l.file != nil {
		l.file.Sync()
	}
}

// Close releases the underlying file handle, if any.
func (l *Log) Close() {
	if l == nil || l.file == nil {
		return
	}
	l.file.Close()
}
