package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/ui/table"
)

func (c CLI) List(ctx context.Context, args []string) error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	if len(args) > 0 {
		return errors.New("list takes no arguments")
	}

	opt := c.option.List
	dir := c.store.Cwd()
	if opt.All {
		dir = ""
	}
	filterOpts, err := c.filterOptions(opt.OlderThan, dir, scopeBrowse)
	if err != nil {
		return err
	}

	entries, err := c.entries()
	if err != nil {
		return err
	}
	entries = trash.Filter(entries, filterOpts)
	if len(entries) == 0 {
		slog.Debug("no entries to list")
		return nil
	}

	return table.PrintEntries(ctx, c.stdout, entries, table.PrintOptions{
		ShowRelativeTime: c.config.List.RelativeTime,
		ShowSize:         c.config.List.ShowSize || opt.Size,
		Long:             opt.Long,
		Now:              filterOpts.Now,
	})
}
