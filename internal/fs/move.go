package fs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds the "_N" suffix search before Move gives up on
// counting and picks a random suffix.
const DefaultMaxAttempts = 10000

// MoveOptions specifies options for move operations
type MoveOptions struct {
	// Into treats dst as "directory + file name" even if dst is an existing
	// directory, so the source never ends up nested inside it.
	Into bool

	// MaxAttempts caps the numbered suffixes tried. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// Reserved reports names in the destination directory that must not be
	// used even though nothing exists there yet.
	Reserved func(name string) bool
}

// Move renames src to dst without ever overwriting anything and returns the
// path that was actually used.
//
// If dst is an existing directory, src is moved into it under its own name.
// Missing parent directories are created. When the destination name is
// taken, "_1", "_2", ... is appended to the file name until a free one is
// found. The move is a single rename(2); there is no copy fallback.
func Move(src, dst string, opts MoveOptions) (string, error) {
	if src == "" || dst == "" {
		return "", ErrInvalidPath
	}

	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &MoveError{Op: "stat", Src: src, Dst: dst, Err: ErrSourceNotFound}
		}
		return "", &MoveError{Op: "stat", Src: src, Dst: dst, Err: err}
	}

	dir, name := splitDestination(src, dst, opts.Into)
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", &MoveError{Op: "validate", Src: src, Dst: dst, Err: ErrInvalidDestination}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &MoveError{Op: "create_parent", Src: src, Dst: dst, Err: err}
	}

	target := filepath.Join(dir, FreeName(dir, name, opts))

	if err := os.Rename(src, target); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			err = fmt.Errorf("%w: %s", ErrCrossDevice, describeDevices(src, dir))
		}
		return "", &MoveError{Op: "rename", Src: src, Dst: target, Err: err}
	}

	slog.Debug("file moved", "from", src, "to", target)
	return target, nil
}

// FreeName returns the first of name, name_1, name_2, ... that is neither
// present in dir nor reserved. After opts.MaxAttempts tries it falls back to
// a UUID suffix.
func FreeName(dir, name string, opts MoveOptions) string {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	taken := func(candidate string) bool {
		if Exists(filepath.Join(dir, candidate)) {
			return true
		}
		return opts.Reserved != nil && opts.Reserved(candidate)
	}

	if !taken(name) {
		return name
	}
	for i := 1; i <= maxAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !taken(candidate) {
			return candidate
		}
	}

	slog.Warn("suffix attempts exhausted, using random suffix", "dir", dir, "name", name, "attempts", maxAttempts)
	for {
		candidate := fmt.Sprintf("%s_%s", name, uuid.NewString())
		if !taken(candidate) {
			return candidate
		}
	}
}

func splitDestination(src, dst string, into bool) (string, string) {
	if !into {
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			return dst, filepath.Base(src)
		}
	}
	return filepath.Dir(dst), filepath.Base(dst)
}

func describeDevices(src, dstDir string) string {
	srcMount, err1 := MountPoint(src)
	dstMount, err2 := MountPoint(dstDir)
	if err1 != nil || err2 != nil {
		return "source and destination are on different filesystems"
	}
	return fmt.Sprintf("%s is mounted on %s but the destination is on %s", src, srcMount, dstMount)
}
