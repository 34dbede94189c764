package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateExclusive(t *testing.T) {
	dir := createTempDir(t)
	testPath := filepath.Join(dir, "testfile.txt")

	// First create should succeed
	f, err := CreateExclusive(testPath, 0o644)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	f.Close()

	// Second create should fail (file already exists)
	if _, err := CreateExclusive(testPath, 0o644); err == nil {
		t.Fatal("Expected error when creating existing file, got nil")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := createTempDir(t)
	path := filepath.Join(dir, "report.txt.trashinfo")

	if err := WriteFileAtomic(path, []byte("content\n")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if got := readFile(t, path); got != "content\n" {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the committed file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicRefusesOverwrite(t *testing.T) {
	dir := createTempDir(t)
	path := filepath.Join(dir, "existing")
	createTestFile(t, path, "keep me")

	err := WriteFileAtomic(path, []byte("replacement"))
	if !errors.Is(err, ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	if got := readFile(t, path); got != "keep me" {
		t.Errorf("existing file was overwritten: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestSafeWriterCleanup(t *testing.T) {
	dir := createTempDir(t)

	w, err := NewSafeWriter(dir, "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	w.Cleanup()

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files after cleanup, got %d", len(entries))
	}
	if _, err := w.Write([]byte("more")); err == nil {
		t.Error("expected write after cleanup to fail")
	}
}

func TestDirSize(t *testing.T) {
	dir := createTempDir(t)
	createTestFile(t, filepath.Join(dir, "a"), "12345")
	createTestFile(t, filepath.Join(dir, "sub", "b"), "123")

	size, err := DirSize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if size != 8 {
		t.Errorf("DirSize = %d, want 8", size)
	}

	size, err = DirSize(filepath.Join(dir, "a"))
	if err != nil {
		t.Fatal(err)
	}
	if size != 5 {
		t.Errorf("DirSize(file) = %d, want 5", size)
	}
}

func TestAcquireLock(t *testing.T) {
	dir := createTempDir(t)
	path := filepath.Join(dir, ".lock")

	l, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	// released locks can be taken again
	l, err = AcquireLock(path)
	if err != nil {
		t.Fatalf("second AcquireLock failed: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("double release should be a no-op, got %v", err)
	}
}
