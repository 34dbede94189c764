package debug

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
)

var (
	ErrLoggingDisabled = errors.New("logging is not enabled in config")
	ErrNoLogFile       = errors.New("no log file exists yet")
)

// Logs prints the log file at path to w. With live set it follows new
// entries until ctx is cancelled instead.
func Logs(ctx context.Context, w io.Writer, path string, enabled, live bool) error {
	if live {
		return tailLiveLogs(ctx, w, path, enabled)
	}
	return showExistingLogs(w, path, enabled)
}

func tailLiveLogs(ctx context.Context, w io.Writer, path string, enabled bool) error {
	if !enabled {
		return fmt.Errorf("%w: enable logging in config for live debugging", ErrLoggingDisabled)
	}

	shouldFollow := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	t, err := tail.TailFile(path, tail.Config{
		ReOpen:    shouldFollow,
		Follow:    shouldFollow,
		MustExist: true,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		},
	})
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: try running some commands with logging enabled", ErrNoLogFile)
		}
		return err
	}
	defer t.Cleanup()

	slog.Info("live tail started", "path", path)

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}

func showExistingLogs(w io.Writer, path string, enabled bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !enabled {
				return fmt.Errorf("%w: enable logging to create log files", ErrLoggingDisabled)
			}
			return fmt.Errorf("%w: try running some commands first", ErrNoLogFile)
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	return scanner.Err()
}
