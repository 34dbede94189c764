package cli

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const appURL = "https://github.com/babarot/xtrash"

type Version struct {
	AppName   string
	Version   string
	Revision  string
	BuildDate string
}

func (v Version) Print() string {
	var s strings.Builder
	switch v.Version {
	case "", "unset", "unknown", "develop":
		if info, ok := debug.ReadBuildInfo(); ok {
			v.Version = info.Main.Version
		}
	}
	fmt.Fprintf(&s, "%s - move files to the XDG trash can\n", v.AppName)
	fmt.Fprintln(&s, appURL)
	fmt.Fprintln(&s)
	fmt.Fprintf(&s, "version: %s\n", v.Version)
	fmt.Fprintf(&s, "revision: %s\n", v.Revision)
	fmt.Fprintf(&s, "buildDate: %s\n", v.BuildDate)
	return s.String()
}
