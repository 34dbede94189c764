package log

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/babarot/xtrash/internal/config"
	"github.com/babarot/xtrash/internal/fs"
	"github.com/docker/go-units"
)

const backupTimeFormat = "20060102-150405"

// RotateWriter appends to a log file. Once the file would grow past the
// configured size it is renamed to "<path>.<timestamp>", with the same "_N"
// suffixes the trash uses when two rotations share a second, and only the
// newest backups are kept.
type RotateWriter struct {
	mu       sync.Mutex
	file     *os.File
	size     int64
	maxSize  int64
	maxFiles int
	path     string
	now      func() time.Time
}

type RotateOption func(*RotateWriter)

// WithClock stamps backups with now instead of time.Now
func WithClock(now func() time.Time) RotateOption {
	return func(w *RotateWriter) {
		w.now = now
	}
}

func NewRotateWriter(path string, cfg config.RotationConfig, opts ...RotateOption) (*RotateWriter, error) {
	maxSize, err := units.FromHumanSize(cfg.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid max size format: %w", err)
	}

	w := &RotateWriter{
		maxSize:  maxSize,
		maxFiles: cfg.MaxFiles,
		path:     path,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotateWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *RotateWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotateWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// rotate runs with w.mu held
func (w *RotateWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	dir, base := filepath.Split(w.path)
	name := fs.FreeName(dir, base+"."+w.now().Format(backupTimeFormat), fs.MoveOptions{})
	if err := os.Rename(w.path, filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := w.prune(); err != nil {
		return err
	}
	return w.open()
}

// Backups returns the rotated files of the log, oldest first
func (w *RotateWriter) Backups() ([]string, error) {
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return nil, err
	}
	slices.SortFunc(matches, func(a, b string) int {
		ta, na := backupOrder(w.path, a)
		tb, nb := backupOrder(w.path, b)
		return cmp.Or(cmp.Compare(ta, tb), cmp.Compare(na, nb))
	})
	return matches, nil
}

func (w *RotateWriter) prune() error {
	if w.maxFiles <= 0 {
		return nil
	}
	backups, err := w.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= w.maxFiles {
		return nil
	}
	for _, path := range backups[:len(backups)-w.maxFiles] {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// backupOrder splits "<path>.<timestamp>_<n>" into its sort keys
func backupOrder(path, backup string) (string, int) {
	stamp := strings.TrimPrefix(backup, path+".")
	i := strings.LastIndex(stamp, "_")
	if i < 0 {
		return stamp, 0
	}
	n, err := strconv.Atoi(stamp[i+1:])
	if err != nil {
		return stamp, 0
	}
	return stamp[:i], n
}
