package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/utils/log"
)

func (c CLI) Erase(args []string) error {
	slog.Debug("cli.erase started")
	defer slog.Debug("cli.erase finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	ok, err := c.confirmed(fmt.Sprintf("Permanently erase %s?", plural(len(args), "file")), c.option.Erase.NoConfirm)
	if err != nil || !ok {
		return err
	}

	var errs []error
	for _, arg := range args {
		if err := c.store.Erase(arg); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Important("erased", "path", arg)
		if c.verbose() {
			fmt.Fprintf(c.stdout, "erased '%s'\n", arg)
		}
	}
	return errors.Join(errs...)
}

func (c CLI) Empty() error {
	slog.Debug("cli.empty started")
	defer slog.Debug("cli.empty finished")

	opt := c.option.Empty
	filterOpts, err := c.filterOptions(opt.OlderThan, "", scopeAll)
	if err != nil {
		return err
	}

	entries, err := c.entries()
	if err != nil {
		return err
	}
	entries = trash.Filter(entries, filterOpts)
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "trash is empty")
		return nil
	}

	ok, err := c.confirmed(fmt.Sprintf("Empty trash? %s will be erased permanently", plural(len(entries), "file")), opt.NoConfirm)
	if err != nil || !ok {
		return err
	}
	return c.eraseEntries(entries)
}

func (c CLI) eraseEntries(entries []trash.Entry) error {
	var errs []error
	for _, e := range entries {
		if err := c.store.Erase(e.TrashedPath); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Important("erased", "path", e.TrashedPath, "original", e.GetOriginalPath())
		if c.verbose() {
			fmt.Fprintf(c.stdout, "erased '%s'\n", e.GetOriginalPath())
		}
	}
	return errors.Join(errs...)
}
