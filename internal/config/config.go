package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/xtrash/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    CoreConfig    `yaml:"core"`
	List    ListConfig    `yaml:"list"`
	Filter  FilterConfig  `yaml:"filter"`
	Logging LoggingConfig `yaml:"logging"`
}

type CoreConfig struct {
	// Verbose prints a line for every file trashed, restored or erased
	Verbose bool `yaml:"verbose"`
	// Confirm asks before erase, empty and prune
	Confirm bool `yaml:"confirm"`
}

type ListConfig struct {
	RelativeTime bool `yaml:"relative_time"`
	ShowSize     bool `yaml:"show_size"`
}

type FilterConfig struct {
	Include IncludeConfig `yaml:"include"`
	Exclude ExcludeConfig `yaml:"exclude"`
}

type IncludeConfig struct {
	// Within hides entries trashed longer ago than this (e.g. "30d"). Empty shows all.
	Within string `yaml:"within" validate:"validDuration"`

	// Period is the number of days, replaced by Within
	Period int `yaml:"within_days,omitempty" validate:"deprecated"`
}

type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns" validate:"dive,validRegex"`
	Globs    []string   `yaml:"globs" validate:"dive,validGlob"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"validSize"`
	Max string `yaml:"max" validate:"validSize"`
}

type LoggingConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"validLevel"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"required,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"gte=1"`
}

type configError struct {
	configPath string
	parser     parser
	err        error
}

type parser struct{}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(NewDefaultConfig())
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't read the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.XTRASH_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (e configError) Unwrap() error {
	return e.err
}

func (p parser) ensureConfigFile(path string) error {
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return configError{configPath: path, parser: p, err: err}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return configError{configPath: path, parser: p, err: err}
		}
		defer f.Close()

		if _, err := f.WriteString(p.getDefaultConfigContents()); err != nil {
			return configError{configPath: path, parser: p, err: err}
		}
	}
	return nil
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) readConfigFile(path string) (Config, error) {
	cfg := *NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{configPath: path, parser: p, err: err}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return cfg, err
		}
		for _, verr := range verrs {
			return cfg, fmt.Errorf("validation error: field %s, %q is invalid", verr.Namespace(), verr.Value())
		}
	}

	cfg.Filter.Include.migrate()
	return cfg, nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validLevel", validateLevel)
	_ = validate.RegisterValidation("validDuration", validateDuration)
	_ = validate.RegisterValidation("validRegex", validateRegex)
	_ = validate.RegisterValidation("validGlob", validateGlob)
	_ = validate.RegisterValidation("deprecated", validateDeprecated)

	return parser{}
}

// Parse loads the config file at path. An empty path means the default
// location, where a config with default values is created if missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	if path == "" {
		path = env.XTRASH_CONFIG_PATH
		if err := parser.ensureConfigFile(path); err != nil {
			return Config{}, parsingError{err: err}
		}
	}
	slog.Debug("config file found", "config-file", path)

	cfg, err := parser.readConfigFile(path)
	if err != nil {
		return cfg, parsingError{err: err}
	}
	return cfg, nil
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Verbose: false,
			Confirm: true,
		},
		List: ListConfig{
			RelativeTime: true,
			ShowSize:     false,
		},
		Filter: FilterConfig{
			Include: IncludeConfig{
				Within: "",
			},
			Exclude: ExcludeConfig{
				Files: []string{
					// In macOS, .DS_Store is a file that stores custom attributes of its
					// containing folder, such as folder view options, icon positions,
					// and other visual information
					".DS_Store",
				},
				Patterns: []string{},
				Globs:    []string{},
			},
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Rotation: RotationConfig{
				MaxSize:  "10MB",
				MaxFiles: 3,
			},
		},
	}
}

func (i *IncludeConfig) migrate() {
	if i.Period > 0 && i.Within == "" {
		i.Within = fmt.Sprintf("%dd", i.Period)
	}
	i.Period = 0
}
