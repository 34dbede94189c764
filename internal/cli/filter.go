package cli

import (
	"fmt"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/utils/duration"
)

type filterScope int

const (
	// scopeAll sees every entry, as needed by empty and prune
	scopeAll filterScope = iota

	// scopeBrowse applies the configured include/exclude rules, as for list and restore
	scopeBrowse
)

// filterOptions builds the entry filter from --older-than and the config
func (c CLI) filterOptions(olderThan string, dir string, scope filterScope) (trash.FilterOptions, error) {
	opts := trash.FilterOptions{
		Now: c.now(),
		Dir: dir,
	}

	if olderThan != "" {
		d, err := duration.Parse(olderThan)
		if err != nil {
			return opts, fmt.Errorf("invalid age %q: %w", olderThan, err)
		}
		opts.OlderThan = d
	}

	if scope == scopeBrowse {
		if within := c.config.Filter.Include.Within; within != "" {
			d, err := duration.Parse(within)
			if err != nil {
				return opts, fmt.Errorf("invalid filter.include.within %q: %w", within, err)
			}
			opts.Within = d
		}
		opts.Exclude = c.config.Filter.Exclude
	}

	return opts, nil
}
