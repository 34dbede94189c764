package config

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/babarot/xtrash/internal/utils/duration"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

var sizeRe = regexp.MustCompile(`^\d+(B|KB|MB|GB|TB|PB)$`)

// validateSize validates the size format (e.g., "10MB", "1GB"); empty is acceptable
func validateSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return value == "" || sizeRe.MatchString(value)
}

// validateLevel accepts the slog level names
func validateLevel(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	return value == "" || slices.Contains([]string{"debug", "info", "warn", "error"}, value)
}

func validateDuration(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	_, err := duration.Parse(value)
	return err == nil
}

func validateRegex(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

func validateGlob(fl validator.FieldLevel) bool {
	_, err := glob.Compile(fl.Field().String())
	return err == nil
}

// Deprecation contains metadata about field deprecation
type Deprecation struct {
	DeprecatedAt time.Time
	RemovalDate  time.Time
	Alternative  string
	StrictMode   bool
}

var deprecations = map[string]Deprecation{
	"within_days": {
		DeprecatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		RemovalDate:  time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
		Alternative:  "filter.include.within",
	},
}

// validateDeprecated warns about deprecated fields that are set, and fails
// for those that are already retired
func validateDeprecated(fl validator.FieldLevel) bool {
	if fl.Field().IsZero() {
		return true
	}

	name := fl.FieldName()
	info, exists := deprecations[name]
	if !exists {
		printDeprecation(name, nil, false)
		return true
	}

	if info.StrictMode {
		printDeprecation(name, &info, true)
		return false
	}

	printDeprecation(name, &info, false)
	return true
}
