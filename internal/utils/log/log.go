package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/babarot/xtrash/internal/config"
	charmlog "github.com/charmbracelet/log"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
)

var (
	defaultLoggerOnce sync.Once
	defaultLogger     atomic.Pointer[slog.Logger]
)

// New creates a new logger with the given options
func New(opts ...Option) *slog.Logger {
	o := DefaultOptions()
	o.Apply(opts...)

	if o.OutputFunc != nil {
		if w, err := o.OutputFunc(); err == nil {
			o.Writer = w
		}
	}

	handler := charmlog.NewWithOptions(o.Writer, o.Options)
	handler.SetStyles(o.Styles) // Always set styles to ensure level definitions

	var h slog.Handler = handler
	if o.Mirror != nil {
		h = slogmulti.Fanout(
			handler,
			tint.NewHandler(o.Mirror, &tint.Options{
				Level:      slog.LevelDebug,
				TimeFormat: time.Kitchen,
				NoColor:    !isTerminal(o.Mirror),
			}),
		)
	}

	logger := slog.New(h)
	if len(o.Attrs) > 0 {
		logger = logger.With(o.Attrs...)
	}

	if o.Default {
		charmlog.SetDefault(handler)
		slog.SetDefault(logger)
		defaultLogger.Store(logger)
	}

	return logger
}

// Default returns the default logger instance
func Default() *slog.Logger {
	defaultLoggerOnce.Do(func() {
		if defaultLogger.Load() == nil {
			defaultLogger.Store(New(AsDefault()))
		}
	})
	return defaultLogger.Load()
}

// Reset resets all global state (useful for testing)
func Reset() {
	defaultLoggerOnce = sync.Once{}
	defaultLogger.Store(nil)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the process-wide logger described by cfg, writing to a
// rotated file at path. With logging disabled every record is discarded.
// A non-nil mirror additionally gets every record, whatever cfg says.
// The returned closer releases the log file.
func Setup(cfg config.LoggingConfig, path string, mirror io.Writer, attrs ...any) (io.Closer, error) {
	discard := func() {
		New(UseOutput(io.Discard), UseLevel(FatalLevel), UseMirror(mirror), UseAttrs(attrs...), AsDefault())
	}
	if !cfg.Enabled {
		discard()
		return nopCloser{}, nil
	}

	w, err := NewRotateWriter(path, cfg.Rotation)
	if err != nil {
		discard()
		return nopCloser{}, err
	}

	New(
		UseOutput(w),
		UseLevel(ParseLevel(cfg.Level)),
		UseMirror(mirror),
		UseAttrs(attrs...),
		AsDefault(),
	)
	return w, nil
}

// Important logs above warn so the record survives any configured level
func Important(msg string, args ...any) {
	Default().Log(context.Background(), slog.Level(ImportantLevel), msg, args...)
}
