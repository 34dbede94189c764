package trash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store *Store
	root  string
	cwd   string
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := t.TempDir()
	env := &testEnv{
		root: filepath.Join(base, "Trash"),
		cwd:  filepath.Join(base, "home"),
		now:  testNow,
	}
	require.NoError(t, os.MkdirAll(env.cwd, 0o755))

	s, err := Open(Options{
		Root: env.root,
		Cwd:  env.cwd,
		Now:  func() time.Time { return env.now },
	})
	require.NoError(t, err)
	env.store = s
	return env
}

func (e *testEnv) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.cwd, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenCreatesLayout(t *testing.T) {
	env := newTestEnv(t)

	for _, dir := range []string{env.store.FilesDir(), env.store.InfoDir()} {
		fi, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}
	require.Equal(t, env.root, env.store.Root())
	require.Equal(t, filepath.Join(env.root, "files"), env.store.FilesDir())
	require.Equal(t, filepath.Join(env.root, "info"), env.store.InfoDir())
}

func TestOpenRejectsRelativeRoot(t *testing.T) {
	_, err := Open(Options{Root: "relative/Trash", Cwd: t.TempDir()})
	require.Error(t, err)
	require.Equal(t, KindPath, KindOf(err))
}

func TestTrashReportScenario(t *testing.T) {
	env := newTestEnv(t)
	original := env.write(t, "report.txt", "quarterly numbers")

	trashed, err := env.store.Trash("report.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(env.root, "files", "report.txt"), trashed)
	require.NoFileExists(t, original)

	data, err := os.ReadFile(filepath.Join(env.root, "info", "report.txt.trashinfo"))
	require.NoError(t, err)
	require.Equal(t, "[Trash Info]\nPath="+original+"\nDeletionDate=2024-05-20T12:00:00\n", string(data))

	content, err := os.ReadFile(trashed)
	require.NoError(t, err)
	require.Equal(t, "quarterly numbers", string(content))

	// a second file with the same name gets a suffix
	env.write(t, "report.txt", "revised numbers")
	second, err := env.store.Trash("report.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(env.root, "files", "report.txt_1"), second)
	require.FileExists(t, filepath.Join(env.root, "info", "report.txt_1.trashinfo"))

	// erasing the first removes content and sidecar
	require.NoError(t, env.store.Erase(trashed))
	require.NoFileExists(t, trashed)
	require.NoFileExists(t, filepath.Join(env.root, "info", "report.txt.trashinfo"))
	require.FileExists(t, second)
}

func TestTrashRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	original := env.write(t, "notes/todo.md", "- write tests")

	trashed, err := env.store.Trash(original)
	require.NoError(t, err)
	require.True(t, env.store.IsTrashed(trashed))

	results, err := env.store.Entries()
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	entry := results[0].Entry
	require.Equal(t, trashed, entry.TrashedPath)
	require.Equal(t, original, entry.GetOriginalPath())
	require.Equal(t, "todo.md", entry.GetName())
	require.True(t, entry.GetDeletedAt().Equal(testNow))
	require.True(t, entry.Exists())
}

func TestTrashRestoreInverse(t *testing.T) {
	env := newTestEnv(t)
	original := env.write(t, "project/src/main.go", "package main")
	dir := filepath.Join(env.cwd, "project")

	trashed, err := env.store.Trash(dir)
	require.NoError(t, err)
	require.NoDirExists(t, dir)

	restored, err := env.store.Restore(trashed)
	require.NoError(t, err)
	require.Equal(t, dir, restored)

	content, err := os.ReadFile(original)
	require.NoError(t, err)
	require.Equal(t, "package main", string(content))
	require.NoFileExists(t, filepath.Join(env.root, "info", "project.trashinfo"))

	results, err := env.store.Entries()
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRestoreCreatesMissingParents(t *testing.T) {
	env := newTestEnv(t)
	original := env.write(t, "a/b/c.txt", "deep")

	trashed, err := env.store.Trash(original)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(env.cwd, "a")))

	restored, err := env.store.Restore(trashed)
	require.NoError(t, err)
	require.Equal(t, original, restored)
	require.FileExists(t, original)
}

func TestRestoreConflict(t *testing.T) {
	env := newTestEnv(t)
	original := env.write(t, "data", "old")

	trashed, err := env.store.Trash(original)
	require.NoError(t, err)

	// something new now lives at the original location, as a directory
	require.NoError(t, os.Mkdir(original, 0o755))

	restored, err := env.store.Restore(trashed)
	require.NoError(t, err)
	require.Equal(t, original+"_1", restored)
	require.DirExists(t, original)

	content, err := os.ReadFile(restored)
	require.NoError(t, err)
	require.Equal(t, "old", string(content))
}

func TestRestoreErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("outside files directory", func(t *testing.T) {
		path := env.write(t, "plain.txt", "x")
		_, err := env.store.Restore(path)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := env.store.Restore(filepath.Join(env.store.FilesDir(), "ghost"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing sidecar", func(t *testing.T) {
		path := filepath.Join(env.store.FilesDir(), "nometa")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := env.store.Restore(path)
		require.Error(t, err)
		require.Equal(t, KindIO, KindOf(err))
		require.FileExists(t, path)
	})

	t.Run("malformed sidecar", func(t *testing.T) {
		path := filepath.Join(env.store.FilesDir(), "broken")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "broken.trashinfo"), []byte("garbage"), 0o644))
		_, err := env.store.Restore(path)
		require.ErrorIs(t, err, ErrParse)

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
	})

	t.Run("original path inside trash", func(t *testing.T) {
		path := filepath.Join(env.store.FilesDir(), "loop")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		info := NewInfo(filepath.Join(env.root, "files", "elsewhere"), testNow)
		data, err := info.MarshalText()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "loop.trashinfo"), data, 0o644))

		_, err = env.store.Restore(path)
		require.ErrorIs(t, err, ErrTrashingTrashCan)
	})

	t.Run("original path reaching into trash through dot-dot", func(t *testing.T) {
		path := filepath.Join(env.store.FilesDir(), "sneaky")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		data := "[Trash Info]\nPath=" + env.cwd + "/../Trash/files/elsewhere\nDeletionDate=2024-05-20T12:00:00\n"
		require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "sneaky.trashinfo"), []byte(data), 0o644))

		_, err := env.store.Restore(path)
		require.ErrorIs(t, err, ErrTrashingTrashCan)
		require.FileExists(t, path)
		require.NoFileExists(t, filepath.Join(env.store.FilesDir(), "elsewhere"))
		require.FileExists(t, filepath.Join(env.store.InfoDir(), "sneaky.trashinfo"))
	})

	t.Run("original path with dot segments is restored clean", func(t *testing.T) {
		path := filepath.Join(env.store.FilesDir(), "dotted")
		require.NoError(t, os.WriteFile(path, []byte("d"), 0o644))
		data := "[Trash Info]\nPath=" + env.cwd + "/sub/../dotted.txt\nDeletionDate=2024-05-20T12:00:00\n"
		require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "dotted.trashinfo"), []byte(data), 0o644))

		restored, err := env.store.Restore(path)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(env.cwd, "dotted.txt"), restored)
		require.FileExists(t, restored)
	})
}

func TestTrashGuards(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name string
		path string
		want error
	}{
		{name: "trash root", path: env.root, want: ErrTrashingTrashCan},
		{name: "files directory", path: env.store.FilesDir(), want: ErrTrashingTrashCan},
		{name: "ancestor of trash root", path: filepath.Dir(env.root), want: ErrTrashingTrashCan},
		{name: "working directory", path: ".", want: ErrTrashingCwd},
		{name: "missing file", path: "nope.txt", want: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.store.Trash(tc.path)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("ancestor of working directory", func(t *testing.T) {
		sub := filepath.Join(env.cwd, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))

		s, err := Open(Options{Root: env.root, Cwd: sub, Now: func() time.Time { return testNow }})
		require.NoError(t, err)

		_, err = s.Trash("..")
		require.ErrorIs(t, err, ErrTrashingCwd)
		require.DirExists(t, env.cwd)
	})

	t.Run("file inside trash", func(t *testing.T) {
		path := env.write(t, "victim", "x")
		trashed, err := env.store.Trash(path)
		require.NoError(t, err)

		_, err = env.store.Trash(trashed)
		require.ErrorIs(t, err, ErrTrashingTrashCan)
		require.True(t, IsGuard(err))
	})
}

func TestEraseGuards(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name string
		path string
		want error
	}{
		{name: "trash root", path: env.root, want: ErrTrashingTrashCan},
		{name: "files directory", path: env.store.FilesDir(), want: ErrTrashingTrashCan},
		{name: "info directory", path: env.store.InfoDir(), want: ErrTrashingTrashCan},
		{name: "working directory", path: env.cwd, want: ErrTrashingCwd},
		{name: "missing file", path: "nope.txt", want: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.store.Erase(tc.path)
			require.ErrorIs(t, err, tc.want)
		})
	}
	require.DirExists(t, env.store.FilesDir())
	require.DirExists(t, env.store.InfoDir())
}

func TestEraseNonTrashedPath(t *testing.T) {
	env := newTestEnv(t)
	file := env.write(t, "loose.txt", "bye")
	dir := filepath.Join(env.cwd, "tree")
	env.write(t, "tree/leaf/file", "bye")

	require.NoError(t, env.store.Erase(file))
	require.NoFileExists(t, file)

	require.NoError(t, env.store.Erase(dir))
	require.NoDirExists(t, dir)
}

func TestEraseTrashedWithoutSidecar(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.store.FilesDir(), "stray")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.NoError(t, env.store.Erase(path))
	require.NoFileExists(t, path)
}

func TestTrashReservesNamesWithSidecar(t *testing.T) {
	env := newTestEnv(t)

	// a sidecar without content still claims its name
	require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "log.txt.trashinfo"), []byte("[Trash Info]\n"), 0o644))
	path := env.write(t, "log.txt", "x")

	trashed, err := env.store.Trash(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(env.store.FilesDir(), "log.txt_1"), trashed)
}

func TestTrashRejectsNewlineInPath(t *testing.T) {
	env := newTestEnv(t)
	path := env.write(t, "bad\nname", "x")

	_, err := env.store.Trash(path)
	require.ErrorIs(t, err, ErrPath)
	require.FileExists(t, path)
}

func TestEntriesResilience(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "good.txt", "ok")
	_, err := env.store.Trash("good.txt")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "bad.trashinfo"), []byte("[Trash Info]\nPath=relative\nDeletionDate=2024-01-01T00:00:00\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.store.InfoDir(), "notes.txt"), []byte("ignored"), 0o644))

	results, err := env.store.Entries()
	require.NoError(t, err)
	require.Len(t, results, 2)

	entries, errs := Partition(results)
	require.Len(t, entries, 1)
	require.Len(t, errs, 1)
	require.Equal(t, "good.txt", entries[0].GetName())
	require.ErrorIs(t, errs[0], ErrParse)

	// failures sort last
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
}

func TestEntriesOrder(t *testing.T) {
	env := newTestEnv(t)

	for i, name := range []string{"c", "a", "b"} {
		env.now = testNow.Add(time.Duration(i) * time.Hour)
		env.write(t, name, name)
		_, err := env.store.Trash(name)
		require.NoError(t, err)
	}
	// same second as "b", so the trashed path decides
	env.write(t, "aa", "aa")
	_, err := env.store.Trash("aa")
	require.NoError(t, err)

	results, err := env.store.Entries()
	require.NoError(t, err)

	entries, errs := Partition(results)
	require.Empty(t, errs)
	require.Equal(t, []string{"c", "a", "aa", "b"}, names(entries))
}

func TestOrphansAndForget(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "kept", "x")
	env.write(t, "lost", "x")

	_, err := env.store.Trash("kept")
	require.NoError(t, err)
	lost, err := env.store.Trash("lost")
	require.NoError(t, err)
	require.NoError(t, os.Remove(lost))

	orphans, err := env.store.Orphans()
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	require.Equal(t, lost, orphans[0].Entry.TrashedPath)

	results, err := env.store.Entries()
	require.NoError(t, err)
	entries, _ := Partition(results)
	for _, e := range entries {
		if e.TrashedPath != lost {
			require.ErrorIs(t, env.store.Forget(e), ErrNotOrphan)
		}
	}

	require.NoError(t, env.store.Forget(orphans[0].Entry))
	require.NoFileExists(t, filepath.Join(env.store.InfoDir(), "lost.trashinfo"))

	orphans, err = env.store.Orphans()
	require.NoError(t, err)
	require.Empty(t, orphans)
}

func TestIsTrashed(t *testing.T) {
	env := newTestEnv(t)

	require.True(t, env.store.IsTrashed(filepath.Join(env.store.FilesDir(), "x")))
	require.True(t, env.store.IsTrashed(filepath.Join(env.store.FilesDir(), "x", "y")))
	require.True(t, env.store.IsTrashed(env.store.FilesDir()))
	require.False(t, env.store.IsTrashed(env.root))
	require.False(t, env.store.IsTrashed(filepath.Join(env.store.InfoDir(), "x.trashinfo")))
	require.False(t, env.store.IsTrashed(filepath.Join(env.cwd, "x")))
}
