package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/babarot/xtrash/internal/config"
	"github.com/babarot/xtrash/internal/env"
	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/ui"
	"github.com/babarot/xtrash/internal/utils/debug"
	"github.com/babarot/xtrash/internal/utils/log"
	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/muesli/termenv"
	"github.com/rs/xid"
)

type Option struct {
	Config  string `long:"config" description:"Path to config file" value-name:"PATH"`
	Verbose bool   `short:"v" long:"verbose" description:"Explain what is being done"`

	Meta MetaOption `group:"Meta Options"`

	Put     PutOption     `command:"put" alias:"rm" description:"Move files to the trash"`
	List    ListOption    `command:"list" alias:"ls" description:"List files trashed from the current directory"`
	Restore RestoreOption `command:"restore" description:"Restore trashed files to their original location"`
	Erase   EraseOption   `command:"erase" alias:"delete" description:"Permanently delete files"`
	Empty   EmptyOption   `command:"empty" description:"Permanently delete everything in the trash"`
	Prune   PruneOption   `command:"prune" description:"Permanently delete trashed files matching a pattern"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

// PutOption provides compatibility with rm command options
type PutOption struct {
	Force       bool `short:"f" long:"force" description:"Ignore nonexistent files"`
	Interactive bool `short:"i" description:"(dummy) prompt before every removal"`
	Recursive   bool `short:"r" long:"recursive" description:"(dummy) directories are always trashed with their contents"`
	Recursive2  bool `short:"R" description:"(dummy) same as -r"`
	Directory   bool `short:"d" long:"dir" description:"(dummy) remove empty directories"`
}

type ListOption struct {
	OlderThan string `long:"older-than" value-name:"AGE" description:"Only files trashed at least AGE ago (e.g. 10, 2w, \"3 months\")"`
	All       bool   `short:"a" long:"all" description:"Include files trashed from any directory"`
	Long      bool   `short:"l" long:"long" description:"Show content type and location in the trash"`
	Size      bool   `short:"s" long:"size" description:"Show the size of each file"`
}

type RestoreOption struct {
	OlderThan string `long:"older-than" value-name:"AGE" description:"Only offer files trashed at least AGE ago"`
}

type EraseOption struct {
	NoConfirm bool `long:"no-confirm" description:"Do not ask before erasing"`
}

type EmptyOption struct {
	OlderThan string `long:"older-than" value-name:"AGE" description:"Only erase files trashed at least AGE ago"`
	NoConfirm bool   `long:"no-confirm" description:"Do not ask before erasing"`
}

type PruneOption struct {
	OlderThan string `long:"older-than" value-name:"AGE" description:"Only erase files trashed at least AGE ago"`
	NoConfirm bool   `long:"no-confirm" description:"Do not ask before erasing"`
	Orphans   bool   `long:"orphans" description:"Remove trash info files whose content is gone"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	store   *trash.Store

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	confirm func(prompt string) (bool, error)
	pick    func(title string, entries []trash.Entry) ([]trash.Entry, error)
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

func Run(ctx context.Context, v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[OPTIONS] [COMMAND] [FILE...]"
	parser.SubcommandsOptional = true
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	var mirror io.Writer
	if env.XTRASH_DEBUG {
		mirror = os.Stderr
	}
	closer, err := log.Setup(cfg.Logging, env.XTRASH_LOG_PATH, mirror, "run_id", runID())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: logging disabled: %v\n", v.AppName, err)
	}
	defer closer.Close()

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	switch {
	case opt.Meta.Version:
		fmt.Fprint(os.Stdout, v.Print())
		return nil
	case opt.Meta.Debug != "":
		return debug.Logs(ctx, os.Stdout, env.XTRASH_LOG_PATH, cfg.Logging.Enabled, opt.Meta.Debug == "live")
	}

	if termenv.EnvNoColor() {
		color.NoColor = true
	}

	store, err := trash.Open(trash.Options{})
	if err != nil {
		return err
	}

	c := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		store:   store,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
		confirm: ui.Confirm,
		pick:    ui.PickEntries,
	}

	var command string
	if parser.Active != nil {
		command = parser.Active.Name
	}
	if command == "" && len(args) == 0 {
		parser.WriteHelp(os.Stdout)
		return nil
	}

	if err := c.Run(ctx, command, args); err != nil {
		slog.Error("exit", "command", command, "error", err)
		return err
	}
	return nil
}

// Run dispatches to the subcommand. Bare arguments without a command are trashed.
func (c CLI) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "", "put":
		return c.Put(args)
	case "list":
		return c.List(ctx, args)
	case "restore":
		return c.Restore(args)
	case "erase":
		return c.Erase(args)
	case "empty":
		return c.Empty()
	case "prune":
		return c.Prune(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c CLI) verbose() bool {
	return c.option.Verbose || c.config.Core.Verbose
}

// confirmed asks before destructive operations unless the user opted out
func (c CLI) confirmed(prompt string, noConfirm bool) (bool, error) {
	if noConfirm || !c.config.Core.Confirm {
		return true, nil
	}
	ok, err := c.confirm(prompt)
	if err != nil {
		if errors.Is(err, ui.ErrNotTTY) {
			return false, fmt.Errorf("cannot ask for confirmation: %w (pass --no-confirm to skip)", err)
		}
		return false, err
	}
	if !ok {
		fmt.Fprintln(c.stdout, "canceled")
	}
	return ok, nil
}

// entries loads the trash listing, reporting unreadable entries as warnings
func (c CLI) entries() ([]trash.Entry, error) {
	results, err := c.store.Entries()
	if err != nil {
		return nil, err
	}
	entries, errs := trash.Partition(results)
	for _, err := range errs {
		slog.Warn("skipping unreadable trash entry", "error", err)
		fmt.Fprintf(c.stderr, "%s: warning: %v\n", c.version.AppName, err)
	}
	return entries, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
