package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve makes path absolute by joining it onto cwd and collapsing "." and
// ".." segments. It never touches the filesystem.
func Resolve(path, cwd string) string {
	if path == "" {
		return filepath.Clean(cwd)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return filepath.Clean(path)
}

// Canonicalize resolves path like Resolve and then follows symlinks, so the
// path must exist.
func Canonicalize(path, cwd string) (string, error) {
	abs := Resolve(path, cwd)
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Path: abs, Err: err}
	}
	return resolved, nil
}

// Contains reports whether child is parent itself or lies below it.
// Both paths are expected to be clean and absolute.
func Contains(parent, child string) bool {
	if parent == child {
		return true
	}
	prefix := parent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(child, prefix)
}

// IsDirectChild reports whether child sits immediately inside dir
func IsDirectChild(dir, child string) bool {
	return child != dir && filepath.Dir(child) == dir
}

// Exists reports whether anything, including a dangling symlink, is at path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsUnsafePath checks if the given path is unsafe to remove
func IsUnsafePath(path string) bool {
	// First check the original path before any normalization
	// This preserves the original input like "." or ".."
	originalBase := filepath.Base(path)
	if originalBase == "." || originalBase == ".." {
		return true
	}

	if filepath.Clean(path) == "/" {
		return true
	}

	return strings.HasPrefix(path, "//")
}
