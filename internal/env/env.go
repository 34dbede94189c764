package env

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "xtrash"

var (
	XTRASH_CONFIG_PATH string

	XTRASH_LOG_PATH string

	// XTRASH_DEBUG mirrors every log record to stderr
	XTRASH_DEBUG bool
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	XTRASH_CONFIG_PATH = os.Getenv("XTRASH_CONFIG_PATH")
	if XTRASH_CONFIG_PATH == "" {
		XTRASH_CONFIG_PATH = filepath.Join(xdg.ConfigHome, appName, "config.yaml")
	}

	XTRASH_LOG_PATH = os.Getenv("XTRASH_LOG_PATH")
	if XTRASH_LOG_PATH == "" {
		XTRASH_LOG_PATH = filepath.Join(xdg.DataHome, appName, "debug.log")
	}

	XTRASH_DEBUG = os.Getenv("XTRASH_DEBUG") != ""
}
