package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// linePrefixLayout is the timestamp prefix of every log line. The full line
// format "YYYY-MM-DD HH:MM:SS - <message>" is a compatibility contract with
// the log this tool has written since its first version; do not change it.
const linePrefixLayout = "2006-01-02 15:04:05"

// DefaultMaxLogSize is the byte size past which the log file is rotated.
const DefaultMaxLogSize int64 = 1 << 20

// FileLogger appends log lines to a single file. When the file grows past
// the configured cap it is renamed to "<path>.old" and restarted, so the
// log never grows without bound on an unattended host.
type FileLogger struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	f       *os.File
	now     func() time.Time
}

// NewFileLogger opens (or creates) the log file at path for appending.
// A maxSize of 0 falls back to DefaultMaxLogSize.
func NewFileLogger(path string, maxSize int64) (*FileLogger, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxLogSize
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	return &FileLogger{
		path:    path,
		maxSize: maxSize,
		f:       f,
		now:     time.Now,
	}, nil
}

// Info appends an informational line.
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("", format, args...)
}

// Warning appends a line with a [WARNING] marker.
func (l *FileLogger) Warning(format string, args ...interface{}) {
	l.write("[WARNING] ", format, args...)
}

// Error appends a line with an [ERROR] marker.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args...)
}

// Close closes the underlying file. Safe to call multiple times.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

func (l *FileLogger) write(marker, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	l.rotateLocked()
	line := fmt.Sprintf("%s - %s%s\n", l.now().Format(linePrefixLayout), marker, fmt.Sprintf(format, args...))
	// Log writes are best-effort; there is no channel to report their
	// failure through.
	_, _ = l.f.WriteString(line)
}

// rotateLocked renames the log to "<path>.old" once it exceeds maxSize and
// reopens a fresh file. Rotation failures leave the current file in place.
func (l *FileLogger) rotateLocked() {
	st, err := l.f.Stat()
	if err != nil || st.Size() < l.maxSize {
		return
	}
	if err := l.f.Close(); err != nil {
		return
	}
	l.f = nil
	if err := os.Rename(l.path, l.path+".old"); err != nil && !os.IsNotExist(err) {
		// Fall through and reopen anyway; worst case we keep appending.
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	l.f = f
}

// Ensure FileLogger satisfies the Logger interface.
var _ Logger = (*FileLogger)(nil)
