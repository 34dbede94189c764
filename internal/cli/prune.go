package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/ui/table"
	"github.com/babarot/xtrash/internal/utils/log"
)

var ErrInvalidArgument = errors.New("prune requires exactly one PATTERN argument (or --orphans)")

// Prune erases trashed files whose path in the trash matches a regular
// expression. With --orphans it removes trash info files left without content.
func (c CLI) Prune(ctx context.Context, args []string) error {
	slog.Debug("cli.prune started")
	defer slog.Debug("cli.prune finished")

	opt := c.option.Prune
	if opt.Orphans {
		if len(args) > 0 {
			return errors.New("--orphans takes no arguments")
		}
		return c.pruneOrphans()
	}

	if len(args) != 1 || args[0] == "" {
		return ErrInvalidArgument
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", args[0], err)
	}

	filterOpts, err := c.filterOptions(opt.OlderThan, "", scopeAll)
	if err != nil {
		return err
	}
	filterOpts.Pattern = re

	entries, err := c.entries()
	if err != nil {
		return err
	}
	entries = trash.Filter(entries, filterOpts)
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "no matching files")
		return nil
	}

	if err := table.PrintEntries(ctx, c.stdout, entries, table.PrintOptions{
		ShowRelativeTime: c.config.List.RelativeTime,
		Long:             true,
		Now:              filterOpts.Now,
	}); err != nil {
		return err
	}

	ok, err := c.confirmed(fmt.Sprintf("Permanently delete %s?", plural(len(entries), "file")), opt.NoConfirm)
	if err != nil || !ok {
		return err
	}
	return c.eraseEntries(entries)
}

func (c CLI) pruneOrphans() error {
	orphans, err := c.store.Orphans()
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Fprintln(c.stdout, "No orphaned metadata files found.")
		return nil
	}

	table.PrintOrphans(c.stdout, orphans)

	ok, err := c.confirmed(fmt.Sprintf("Remove %s?", plural(len(orphans), "orphaned metadata file")), c.option.Prune.NoConfirm)
	if err != nil || !ok {
		return err
	}

	var errs []error
	for _, r := range orphans {
		if err := c.store.Forget(r.Entry); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Important("forgot orphan", "info", r.InfoPath)
		if c.verbose() {
			fmt.Fprintf(c.stdout, "removed '%s'\n", r.InfoPath)
		}
	}
	return errors.Join(errs...)
}
