package trash

import (
	"os"
	"path/filepath"
	"time"
)

// Entry is a trashed file: the join of files/<name> and info/<name>.trashinfo
type Entry struct {
	// TrashedPath is the absolute path of the content under files/
	TrashedPath string

	// Info is the decoded sidecar
	Info Info
}

// GetName returns the original base name of the file
func (e Entry) GetName() string {
	return filepath.Base(e.Info.OriginalPath)
}

// GetPath returns the current path in trash
func (e Entry) GetPath() string {
	return e.TrashedPath
}

// GetDeletedAt returns when the file was trashed
func (e Entry) GetDeletedAt() time.Time {
	return e.Info.DeletionDate
}

// GetOriginalPath returns where the file was trashed from
func (e Entry) GetOriginalPath() string {
	return e.Info.OriginalPath
}

// Exists checks if the content still exists in the trash
func (e Entry) Exists() bool {
	_, err := os.Lstat(e.TrashedPath)
	return err == nil
}

// IsDir indicates if the trashed content is a directory
func (e Entry) IsDir() bool {
	fi, err := os.Lstat(e.TrashedPath)
	return err == nil && fi.IsDir()
}

// EntryResult is the outcome of reading one sidecar during enumeration.
// Exactly one of Entry (when Err is nil) or Err is meaningful.
type EntryResult struct {
	Entry    Entry
	InfoPath string
	Err      error
}

// Partition splits enumeration results into entries and per-entry errors
func Partition(results []EntryResult) ([]Entry, []error) {
	var (
		entries []Entry
		errs    []error
	)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		entries = append(entries, r.Entry)
	}
	return entries, errs
}
