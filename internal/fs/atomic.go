package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrExist is returned by WriteFileAtomic when the target is already present
var ErrExist = errors.New("file already exists")

// CreateExclusive creates a new file with O_EXCL flag to ensure atomic creation.
// Returns error if the file already exists.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// SafeWriter writes into a hidden temporary file next to its destination
// and only makes the content visible under the final name on Commit.
type SafeWriter struct {
	path     string
	file     *os.File
	finished bool
}

// NewSafeWriter creates the temporary file in dir
func NewSafeWriter(dir, prefix string) (*SafeWriter, error) {
	path := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", prefix, uuid.NewString()))
	f, err := CreateExclusive(path, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &SafeWriter{path: path, file: f}, nil
}

// Write writes data to the temporary file
func (w *SafeWriter) Write(p []byte) (int, error) {
	if w.finished {
		return 0, errors.New("write to finished writer")
	}
	return w.file.Write(p)
}

// Commit syncs the temporary file and renames it to dst. It refuses to
// replace an existing dst.
func (w *SafeWriter) Commit(dst string) error {
	if w.finished {
		return errors.New("commit finished writer")
	}
	w.finished = true

	if err := w.file.Sync(); err != nil {
		w.discard()
		return fmt.Errorf("sync file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		w.discard()
		return fmt.Errorf("close file: %w", err)
	}
	if Exists(dst) {
		_ = os.Remove(w.path)
		return fmt.Errorf("%w: %s", ErrExist, dst)
	}
	if err := os.Rename(w.path, dst); err != nil {
		_ = os.Remove(w.path)
		return fmt.Errorf("rename to destination: %w", err)
	}
	return nil
}

// Cleanup removes the temporary file unless it has been committed
func (w *SafeWriter) Cleanup() {
	if w.finished {
		return
	}
	w.finished = true
	w.discard()
}

func (w *SafeWriter) discard() {
	_ = w.file.Close()
	_ = os.Remove(w.path)
}

// WriteFileAtomic writes data to path through a SafeWriter so readers never
// observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	w, err := NewSafeWriter(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return err
	}
	defer w.Cleanup()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	return w.Commit(path)
}
