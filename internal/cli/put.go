package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/xtrash/internal/fs"
	"github.com/babarot/xtrash/internal/trash"
)

func (c CLI) Put(args []string) error {
	slog.Debug("cli.put started")
	defer slog.Debug("cli.put finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	var errs []error
	for _, arg := range args {
		if fs.IsUnsafePath(arg) {
			errs = append(errs, fmt.Errorf("refusing to remove '.' or '..' directory: skipping %q", arg))
			continue
		}

		trashed, err := c.store.Trash(arg)
		if err != nil {
			if c.option.Put.Force && trash.IsNotFound(err) {
				slog.Debug("ignoring nonexistent file", "path", arg)
				continue
			}
			if trash.IsGuard(err) {
				slog.Warn("refused to trash protected path", "path", arg, "kind", trash.KindOf(err).String())
			}
			errs = append(errs, explain(err))
			continue
		}

		slog.Debug("put", "path", arg, "trashed", trashed)
		if c.verbose() {
			fmt.Fprintf(c.stdout, "trashed '%s'\n", arg)
		}
	}

	return errors.Join(errs...)
}

// explain adds a hint to failures a user cannot act on from the message alone
func explain(err error) error {
	if fs.IsCrossDevice(err) {
		return fmt.Errorf("%w (the trash can is on another filesystem and files are never copied)", err)
	}
	return err
}
