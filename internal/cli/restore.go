package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/babarot/xtrash/internal/fs"
	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/ui"
)

func (c CLI) Restore(args []string) error {
	slog.Debug("cli.restore started")
	defer slog.Debug("cli.restore finished")

	var (
		targets []trash.Entry
		errs    []error
	)

	if len(args) > 0 {
		for _, arg := range args {
			entry, err := c.lookup(arg)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			targets = append(targets, entry)
		}
	} else {
		picked, err := c.pickForRestore()
		if err != nil {
			return err
		}
		targets = picked
	}

	for _, entry := range targets {
		restored, err := c.store.Restore(entry.TrashedPath)
		if err != nil {
			errs = append(errs, explain(err))
			continue
		}
		if c.verbose() {
			fmt.Fprintf(c.stdout, "restored '%s'\n", restored)
		}
	}

	return errors.Join(errs...)
}

// lookup accepts either a path inside the trash or the original path of a
// trashed file. For the latter the most recently trashed match wins.
func (c CLI) lookup(arg string) (trash.Entry, error) {
	abs := fs.Resolve(arg, c.store.Cwd())
	if c.store.IsTrashed(abs) {
		return trash.Entry{TrashedPath: abs}, nil
	}

	entries, err := c.entries()
	if err != nil {
		return trash.Entry{}, err
	}
	var (
		found trash.Entry
		ok    bool
	)
	for _, e := range entries {
		if filepath.Clean(e.GetOriginalPath()) != abs || !e.Exists() {
			continue
		}
		if !ok || !e.GetDeletedAt().Before(found.GetDeletedAt()) {
			found, ok = e, true
		}
	}
	if !ok {
		return trash.Entry{}, fmt.Errorf("cannot restore %s: %w", abs, trash.ErrNotFound)
	}
	return found, nil
}

func (c CLI) pickForRestore() ([]trash.Entry, error) {
	filterOpts, err := c.filterOptions(c.option.Restore.OlderThan, c.store.Cwd(), scopeBrowse)
	if err != nil {
		return nil, err
	}

	entries, err := c.entries()
	if err != nil {
		return nil, err
	}
	entries = trash.Filter(entries, filterOpts)
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "no files to restore")
		return nil, nil
	}

	picked, err := c.pick("Restore", entries)
	if err != nil {
		if errors.Is(err, ui.ErrCanceled) {
			fmt.Fprintln(c.stdout, "canceled")
			return nil, nil
		}
		if errors.Is(err, ui.ErrNotTTY) {
			return nil, fmt.Errorf("cannot pick files to restore: %w (pass trashed paths as arguments)", err)
		}
		return nil, err
	}
	return picked, nil
}
