package table

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func testEntries(t *testing.T) []trash.Entry {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("plain text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deleted := time.Date(2024, 5, 18, 12, 0, 0, 0, time.Local)
	return []trash.Entry{
		{TrashedPath: file, Info: trash.NewInfo("/home/u/notes.txt", deleted)},
		{TrashedPath: filepath.Join(dir, "gone"), Info: trash.NewInfo("/home/u/gone", deleted)},
	}
}

func TestPrintEntries(t *testing.T) {
	entries := testEntries(t)
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.Local)

	var buf bytes.Buffer
	err := PrintEntries(context.Background(), &buf, entries, PrintOptions{
		ShowRelativeTime: true,
		ShowSize:         true,
		Long:             true,
		Now:              now,
	})
	if err != nil {
		t.Fatalf("PrintEntries failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Deleted At", "Size", "Type", "Path", "Trashed As",
		"2024-05-18 12:00:00", "(2 days ago)",
		"/home/u/notes.txt", "11 B", "text/plain",
		"/home/u/gone", "missing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintEntriesMinimal(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintEntries(context.Background(), &buf, testEntries(t), PrintOptions{}); err != nil {
		t.Fatalf("PrintEntries failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Size") || strings.Contains(out, "ago") {
		t.Errorf("optional columns should be hidden:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 3 {
		t.Errorf("expected header and 2 rows, got %d lines:\n%s", got, out)
	}
}

func TestComputeSizesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := computeSizes(ctx, testEntries(t), func(string) (int64, error) { return 1, nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
