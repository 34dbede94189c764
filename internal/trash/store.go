// Package trash implements an XDG-style trash can: a files/ directory holding
// trashed content and an info/ directory holding one .trashinfo sidecar per
// trashed file.
package trash

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/babarot/xtrash/internal/fs"
)

// ErrNotOrphan is returned by Forget when the entry still has content
var ErrNotOrphan = errors.New("trashed content still exists")

const lockFileName = ".lock"

// Store owns a trash root for the lifetime of the process
type Store struct {
	root     string
	filesDir string
	infoDir  string
	cwd      string
	now      func() time.Time
	attempts int
}

// Open prepares the trash root, creating files/ and info/ if needed
func Open(opts Options) (*Store, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, newError(KindPath, "open", opts.Root, err)
	}

	s := &Store{
		root:     opts.Root,
		filesDir: filepath.Join(opts.Root, "files"),
		infoDir:  filepath.Join(opts.Root, "info"),
		cwd:      opts.Cwd,
		now:      opts.Now,
		attempts: opts.MaxAttempts,
	}

	if err := os.MkdirAll(s.filesDir, 0o700); err != nil {
		return nil, newError(KindIO, "open", s.filesDir, fmt.Errorf("failed to create files directory: %w", err))
	}
	if err := os.MkdirAll(s.infoDir, 0o700); err != nil {
		return nil, newError(KindIO, "open", s.infoDir, fmt.Errorf("failed to create info directory: %w", err))
	}

	slog.Debug("trash store opened", "root", s.root, "cwd", s.cwd)
	return s, nil
}

// Root returns the trash root directory
func (s *Store) Root() string { return s.root }

// FilesDir returns the directory holding trashed content
func (s *Store) FilesDir() string { return s.filesDir }

// InfoDir returns the directory holding .trashinfo sidecars
func (s *Store) InfoDir() string { return s.infoDir }

// Cwd returns the working directory the store resolves paths against
func (s *Store) Cwd() string { return s.cwd }

// Trash moves path into the trash and records where it came from. It returns
// the path of the content inside files/, which carries a "_N" suffix when
// the name was already taken.
func (s *Store) Trash(path string) (string, error) {
	const op = "trash"
	abs := fs.Resolve(path, s.cwd)

	if err := s.checkExists(op, abs); err != nil {
		return "", err
	}
	if fs.Contains(abs, s.root) || fs.Contains(s.root, abs) {
		return "", newError(KindTrashingTrashCan, op, abs, nil)
	}
	if fs.Contains(abs, s.cwd) {
		return "", newError(KindTrashingCwd, op, abs, nil)
	}

	data, err := NewInfo(abs, s.now()).MarshalText()
	if err != nil {
		return "", newError(KindPath, op, abs, err)
	}

	lock, err := s.lock(op)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	trashed, err := fs.Move(abs, filepath.Join(s.filesDir, filepath.Base(abs)), fs.MoveOptions{
		Into:        true,
		MaxAttempts: s.attempts,
		Reserved:    s.hasInfo,
	})
	if err != nil {
		return "", moveError(op, abs, err)
	}

	infoPath := s.infoPath(filepath.Base(trashed))
	if err := fs.WriteFileAtomic(infoPath, data); err != nil {
		// put the content back so no entry is left without metadata
		if rbErr := os.Rename(trashed, abs); rbErr != nil {
			slog.Error("failed to roll back trashed file", "path", trashed, "original", abs, "error", rbErr)
		}
		return "", newError(KindIO, op, abs, fmt.Errorf("failed to write trash info: %w", err))
	}

	slog.Info("trashed file", "path", abs, "trashed", trashed)
	return trashed, nil
}

// Restore moves a trashed file back to its original location and removes its
// sidecar. If something now occupies the original location, the restored
// file gets a "_N" suffix instead. It returns the restored path.
func (s *Store) Restore(trashedPath string) (string, error) {
	const op = "restore"
	abs := fs.Resolve(trashedPath, s.cwd)

	if !fs.IsDirectChild(s.filesDir, abs) {
		return "", newError(KindNotFound, op, abs, fmt.Errorf("not a trashed file in %s", s.filesDir))
	}
	if err := s.checkExists(op, abs); err != nil {
		return "", err
	}

	lock, err := s.lock(op)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	infoPath := s.infoPath(filepath.Base(abs))
	info, err := loadInfo(infoPath)
	if err != nil {
		return "", err
	}
	dst := filepath.Clean(info.OriginalPath)
	if fs.Contains(s.root, dst) {
		return "", newError(KindTrashingTrashCan, op, abs,
			fmt.Errorf("original path %s lies inside the trash can", info.OriginalPath))
	}

	restored, err := fs.Move(abs, dst, fs.MoveOptions{
		Into:        true,
		MaxAttempts: s.attempts,
	})
	if err != nil {
		return "", moveError(op, abs, err)
	}

	if err := os.Remove(infoPath); err != nil {
		slog.Error("restored file but failed to remove its trash info", "restored", restored, "info", infoPath, "error", err)
		return restored, newError(KindIO, op, abs, fmt.Errorf("failed to remove trash info: %w", err))
	}

	slog.Info("restored file", "trashed", abs, "restored", restored)
	return restored, nil
}

// Erase permanently deletes path. Directories are removed recursively. If
// path is a trashed file, its sidecar is deleted as well.
func (s *Store) Erase(path string) error {
	const op = "erase"
	abs := fs.Resolve(path, s.cwd)

	if err := s.checkExists(op, abs); err != nil {
		return err
	}
	if fs.Contains(abs, s.cwd) {
		return newError(KindTrashingCwd, op, abs, nil)
	}
	if fs.Contains(abs, s.root) || abs == s.filesDir || abs == s.infoDir {
		return newError(KindTrashingTrashCan, op, abs, nil)
	}

	lock, err := s.lock(op)
	if err != nil {
		return err
	}
	defer lock.Release()

	if fs.IsDirectChild(s.filesDir, abs) {
		infoPath := s.infoPath(filepath.Base(abs))
		if err := os.Remove(infoPath); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return newError(KindIO, op, abs, fmt.Errorf("failed to remove trash info: %w", err))
			}
			slog.Warn("trashed file had no trash info", "path", abs)
		}
	}

	fi, err := os.Lstat(abs)
	if err != nil {
		return newError(KindIO, op, abs, err)
	}
	if fi.IsDir() {
		err = os.RemoveAll(abs)
	} else {
		err = os.Remove(abs)
	}
	if err != nil {
		return newError(KindIO, op, abs, err)
	}

	slog.Info("erased file", "path", abs)
	return nil
}

// IsTrashed reports whether path is files/ or lies inside it. It only looks
// at the path, not at the filesystem.
func (s *Store) IsTrashed(path string) bool {
	return fs.Contains(s.filesDir, fs.Resolve(path, s.cwd))
}

// Entries lists every sidecar in info/. A sidecar that cannot be read or
// parsed yields a result with Err set instead of aborting the listing.
//
// Results are ordered by deletion date, oldest first, with ties broken by
// trashed path. Failed results come last, in sidecar name order.
func (s *Store) Entries() ([]EntryResult, error) {
	dirEntries, err := os.ReadDir(s.infoDir)
	if err != nil {
		return nil, newError(KindIO, "list", s.infoDir, err)
	}

	results := make([]EntryResult, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, InfoExt) {
			continue
		}

		infoPath := filepath.Join(s.infoDir, name)
		stem := strings.TrimSuffix(name, InfoExt)
		if stem == "" {
			results = append(results, EntryResult{
				InfoPath: infoPath,
				Err:      newError(KindPath, "list", infoPath, errors.New(".trashinfo file without file stem")),
			})
			continue
		}

		info, err := loadInfo(infoPath)
		if err != nil {
			results = append(results, EntryResult{InfoPath: infoPath, Err: err})
			continue
		}
		results = append(results, EntryResult{
			Entry:    Entry{TrashedPath: filepath.Join(s.filesDir, stem), Info: info},
			InfoPath: infoPath,
		})
	}

	slices.SortStableFunc(results, compareResults)
	return results, nil
}

// Orphans returns the entries whose content is missing from files/
func (s *Store) Orphans() ([]EntryResult, error) {
	results, err := s.Entries()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(results, func(r EntryResult) bool {
		return r.Err != nil || r.Entry.Exists()
	}), nil
}

// Forget deletes the sidecar of an entry whose content no longer exists
func (s *Store) Forget(entry Entry) error {
	const op = "forget"
	abs := fs.Resolve(entry.TrashedPath, s.cwd)
	if !fs.IsDirectChild(s.filesDir, abs) {
		return newError(KindNotFound, op, abs, fmt.Errorf("not a trashed file in %s", s.filesDir))
	}

	lock, err := s.lock(op)
	if err != nil {
		return err
	}
	defer lock.Release()

	if fs.Exists(abs) {
		return newError(KindIO, op, abs, ErrNotOrphan)
	}
	if err := os.Remove(s.infoPath(filepath.Base(abs))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(KindNotFound, op, abs, err)
		}
		return newError(KindIO, op, abs, err)
	}
	return nil
}

func (s *Store) infoPath(name string) string {
	return filepath.Join(s.infoDir, name+InfoExt)
}

func (s *Store) hasInfo(name string) bool {
	return fs.Exists(s.infoPath(name))
}

func (s *Store) checkExists(op, abs string) error {
	if _, err := os.Lstat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(KindNotFound, op, abs, nil)
		}
		return newError(KindIO, op, abs, err)
	}
	return nil
}

func (s *Store) lock(op string) (*fs.Lock, error) {
	l, err := fs.AcquireLock(filepath.Join(s.root, lockFileName))
	if err != nil {
		return nil, newError(KindIO, op, s.root, err)
	}
	return l, nil
}

func moveError(op, path string, err error) error {
	if errors.Is(err, fs.ErrSourceNotFound) {
		return newError(KindNotFound, op, path, err)
	}
	return newError(KindIO, op, path, err)
}

func compareResults(a, b EntryResult) int {
	switch {
	case a.Err != nil && b.Err != nil:
		return cmp.Compare(a.InfoPath, b.InfoPath)
	case a.Err != nil:
		return 1
	case b.Err != nil:
		return -1
	}
	if c := a.Entry.Info.DeletionDate.Compare(b.Entry.Info.DeletionDate); c != 0 {
		return c
	}
	return cmp.Compare(a.Entry.TrashedPath, b.Entry.TrashedPath)
}
