package debug

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLogsShowsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := os.WriteFile(path, []byte("first\nsecond\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Logs(context.Background(), &buf, path, true, false); err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	if buf.String() != "first\nsecond\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestLogsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	err := Logs(context.Background(), &bytes.Buffer{}, path, false, false)
	if !errors.Is(err, ErrLoggingDisabled) {
		t.Errorf("expected ErrLoggingDisabled, got %v", err)
	}

	err = Logs(context.Background(), &bytes.Buffer{}, path, true, false)
	if !errors.Is(err, ErrNoLogFile) {
		t.Errorf("expected ErrNoLogFile, got %v", err)
	}
}

func TestLogsLiveRequiresLogging(t *testing.T) {
	err := Logs(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "debug.log"), false, true)
	if !errors.Is(err, ErrLoggingDisabled) {
		t.Errorf("expected ErrLoggingDisabled, got %v", err)
	}
}
