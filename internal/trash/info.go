package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	trashInfoHeader = "[Trash Info]"
	pathKey         = "Path="
	dateKey         = "DeletionDate="
	timeFormat      = "2006-01-02T15:04:05"

	// InfoExt is the extension of sidecar files in info/
	InfoExt = ".trashinfo"
)

// Info represents the contents of a .trashinfo file
type Info struct {
	// OriginalPath is the absolute path the file was trashed from
	OriginalPath string

	// DeletionDate is when the file was moved to trash, in local time with
	// second precision
	DeletionDate time.Time
}

// NewInfo returns an Info with the date truncated to what the file format can hold
func NewInfo(path string, deletedAt time.Time) Info {
	return Info{
		OriginalPath: path,
		DeletionDate: deletedAt.Local().Truncate(time.Second),
	}
}

// ParseInfo decodes a .trashinfo file. It accepts exactly the three lines
// written by MarshalText, optionally followed by a single newline.
func ParseInfo(data []byte) (Info, error) {
	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		return Info{}, &ParseError{Reason: fmt.Sprintf("expected 3 lines, found %d", len(lines))}
	}

	if lines[0] != trashInfoHeader {
		return Info{}, &ParseError{Line: 1, Reason: fmt.Sprintf("expected %q header", trashInfoHeader)}
	}

	path, ok := strings.CutPrefix(lines[1], pathKey)
	if !ok {
		return Info{}, &ParseError{Line: 2, Reason: "expected Path= entry"}
	}
	if path == "" {
		return Info{}, &ParseError{Line: 2, Reason: "empty Path"}
	}
	if !filepath.IsAbs(path) {
		return Info{}, &ParseError{Line: 2, Reason: fmt.Sprintf("Path %q is not absolute", path)}
	}

	value, ok := strings.CutPrefix(lines[2], dateKey)
	if !ok {
		return Info{}, &ParseError{Line: 3, Reason: "expected DeletionDate= entry"}
	}
	// time.Parse would accept fractional seconds after the seconds field
	if len(value) != len(timeFormat) {
		return Info{}, &ParseError{Line: 3, Reason: fmt.Sprintf("invalid DeletionDate %q", value)}
	}
	date, err := time.ParseInLocation(timeFormat, value, time.Local)
	if err != nil {
		return Info{}, &ParseError{Line: 3, Reason: fmt.Sprintf("invalid DeletionDate %q", value)}
	}

	return Info{OriginalPath: path, DeletionDate: date}, nil
}

// MarshalText encodes the info in .trashinfo format, newline terminated
func (i Info) MarshalText() ([]byte, error) {
	if strings.ContainsAny(i.OriginalPath, "\n\r") {
		return nil, fmt.Errorf("path %q cannot be stored in trash info: contains a newline", i.OriginalPath)
	}
	if !filepath.IsAbs(i.OriginalPath) {
		return nil, fmt.Errorf("path %q cannot be stored in trash info: not absolute", i.OriginalPath)
	}
	return []byte(i.String() + "\n"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (i *Info) UnmarshalText(text []byte) error {
	info, err := ParseInfo(text)
	if err != nil {
		return err
	}
	*i = info
	return nil
}

// String returns the three .trashinfo lines without the final newline
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(trashInfoHeader + "\n")
	b.WriteString(pathKey + i.OriginalPath + "\n")
	b.WriteString(dateKey + i.DeletionDate.In(time.Local).Format(timeFormat))
	return b.String()
}

// Equal reports whether both infos describe the same deletion
func (i Info) Equal(o Info) bool {
	return i.OriginalPath == o.OriginalPath && i.DeletionDate.Equal(o.DeletionDate)
}

// loadInfo reads and parses a .trashinfo file
func loadInfo(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, newError(KindIO, "read info", path, err)
	}
	info, err := ParseInfo(data)
	if err != nil {
		return Info{}, newError(KindParse, "read info", path, err)
	}
	return info, nil
}
