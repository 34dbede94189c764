package trash

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/babarot/xtrash/internal/config"
	"github.com/babarot/xtrash/internal/fs"
	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// Filterable defines the interface that trashed files must implement to be filtered
type Filterable interface {
	// GetName returns the original name of the file
	GetName() string
	// GetPath returns the current path in trash
	GetPath() string
	// GetOriginalPath returns where the file was trashed from
	GetOriginalPath() string
	// GetDeletedAt returns when the file was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds filtering configuration
type FilterOptions struct {
	// Now is the reference time for age filters. Zero means time.Now().
	Now time.Time

	// OlderThan keeps only items trashed at least this long ago
	OlderThan time.Duration

	// Within keeps only items trashed less than this long ago
	Within time.Duration

	// Dir keeps only items whose original path lies under this directory
	Dir string

	// Pattern keeps only items whose trashed path matches
	Pattern *regexp.Regexp

	Exclude config.ExcludeConfig

	// SizeFunc computes item sizes for the size exclusion. Nil means fs.DirSize.
	SizeFunc func(string) (int64, error)
}

// Age returns how long ago the item was trashed, relative to now
func Age[T Filterable](item T, now time.Time) time.Duration {
	return now.Sub(item.GetDeletedAt())
}

// Filter applies filtering rules to a slice of items
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	items = filterByDir(items, opts.Dir)
	items = filterByPattern(items, opts.Pattern)
	items = filterByAge(items, now, opts.OlderThan, opts.Within)

	items = rejectByNames(items, opts.Exclude.Files)
	items = rejectByPatterns(items, opts.Exclude.Patterns)
	items = rejectByGlobs(items, opts.Exclude.Globs)

	sizeFunc := opts.SizeFunc
	if sizeFunc == nil {
		sizeFunc = fs.DirSize
	}
	return rejectBySize(items, opts.Exclude.Size, sizeFunc)
}

func filterByDir[T Filterable](items []T, dir string) []T {
	if dir == "" {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return fs.Contains(dir, filepath.Clean(item.GetOriginalPath()))
	})
}

func filterByPattern[T Filterable](items []T, re *regexp.Regexp) []T {
	if re == nil {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return re.MatchString(item.GetPath())
	})
}

func filterByAge[T Filterable](items []T, now time.Time, olderThan, within time.Duration) []T {
	if olderThan <= 0 && within <= 0 {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		age := Age(item, now)
		if olderThan > 0 && age < olderThan {
			return false
		}
		if within > 0 && age >= within {
			return false
		}
		return true
	})
}

func rejectByNames[T Filterable](items []T, excludeFiles []string) []T {
	if len(excludeFiles) == 0 {
		return items
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return lo.Contains(excludeFiles, item.GetName())
	})
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("skipping invalid exclude pattern", "pattern", pattern, "error", err)
			continue
		}
		res = append(res, re)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(res, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	})
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	matchers := make([]glob.Glob, 0, len(globs))
	for _, g := range globs {
		m, err := glob.Compile(g)
		if err != nil {
			slog.Warn("skipping invalid exclude glob", "glob", g, "error", err)
			continue
		}
		matchers = append(matchers, m)
	}

	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(matchers, func(m glob.Glob) bool {
			return m.Match(item.GetName())
		})
	})
}

func rejectBySize[T Filterable](items []T, size config.SizeConfig, dirSize func(string) (int64, error)) []T {
	if size.Min == "" && size.Max == "" {
		return items
	}

	var filtered []T
	for _, item := range items {
		n, err := dirSize(item.GetPath())
		if err != nil {
			slog.Debug("cannot size item, skipping", "path", item.GetPath(), "error", err)
			continue
		}

		include := true
		if size.Min != "" {
			if min, err := units.FromHumanSize(size.Min); err == nil && n <= min {
				include = false
			}
		}
		if size.Max != "" {
			if max, err := units.FromHumanSize(size.Max); err == nil && max <= n {
				include = false
			}
		}
		if include {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
