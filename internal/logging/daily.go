package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tipctl/internal/errors"
)

const dayLayout = "2006-01-02"

// DailyWriter appends to <dir>/<prefix>-YYYY-MM-DD.log and moves to a new
// file when the local date changes.
type DailyWriter struct {
	mu sync.Mutex

	dir    string
	prefix string
	now    func() time.Time

	f          *os.File
	currentDay string
	closed     bool
}

// NewDailyWriter opens today's file, creating dir when needed. now may be nil.
func NewDailyWriter(dir, prefix string, now func() time.Time) (*DailyWriter, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.ConfigError("log directory is empty").
			WithSuggestion("Set TIPCTL_LOG_DIR or logDir in the configuration file")
	}
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.FileErrorWithCause("failed to create log directory", err).
			WithContext("dir", dir)
	}

	w := &DailyWriter{dir: dir, prefix: prefix, now: now}
	if err := w.openLocked(dayKey(now())); err != nil {
		return nil, err
	}
	return w, nil
}

// Path returns the file currently written to.
func (w *DailyWriter) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pathFor(w.currentDay)
}

func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, os.ErrClosed
	}
	if day := dayKey(w.now()); day != w.currentDay {
		if err := w.f.Close(); err != nil {
			return 0, err
		}
		if err := w.openLocked(day); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

func (w *DailyWriter) openLocked(day string) error {
	path := w.pathFor(day)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return errors.FileErrorWithCause("failed to open log file", err).
			WithContext("path", path)
	}
	w.f = f
	w.currentDay = day
	return nil
}

func (w *DailyWriter) pathFor(day string) string {
	return filepath.Join(w.dir, w.prefix+"-"+day+".log")
}

func dayKey(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}
