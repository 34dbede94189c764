package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Options carries everything a Store would otherwise read from process-wide
// state, so callers and tests can point it at any root, directory and clock.
type Options struct {
	// Root is the trash directory holding files/ and info/.
	// Empty means $XDG_DATA_HOME/Trash.
	Root string

	// Cwd is used to resolve relative paths and for the TrashingCwd guard.
	// Empty means the process working directory.
	Cwd string

	// Now stamps deletion dates. Nil means time.Now.
	Now func() time.Time

	// MaxAttempts bounds the "_N" suffix search when names collide
	MaxAttempts int
}

// DefaultRoot returns the per-user trash directory
func DefaultRoot() string {
	return filepath.Join(xdg.DataHome, "Trash")
}

func (o Options) withDefaults() (Options, error) {
	if o.Root == "" {
		o.Root = DefaultRoot()
	}
	if !filepath.IsAbs(o.Root) {
		return o, fmt.Errorf("trash root must be an absolute path: %s", o.Root)
	}
	o.Root = filepath.Clean(o.Root)

	if o.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("failed to get current directory: %w", err)
		}
		o.Cwd = cwd
	}
	if !filepath.IsAbs(o.Cwd) {
		return o, fmt.Errorf("working directory must be an absolute path: %s", o.Cwd)
	}
	o.Cwd = filepath.Clean(o.Cwd)

	if o.Now == nil {
		o.Now = time.Now
	}
	return o, nil
}
