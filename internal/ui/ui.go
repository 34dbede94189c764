// Package ui holds the interactive prompts of the command line
package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/babarot/xtrash/internal/trash"
	"github.com/babarot/xtrash/internal/ui/picker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	// ErrNotTTY is returned by prompts when there is no terminal to ask
	ErrNotTTY = errors.New("not running in a terminal")

	// ErrCanceled is returned when the user quits a prompt
	ErrCanceled = errors.New("canceled by user")
)

// IsInteractive reports whether both stdin and stdout are terminals
func IsInteractive() bool {
	isTTY := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return isTTY(os.Stdin.Fd()) && isTTY(os.Stdout.Fd())
}

// PickEntries lets the user choose among entries
func PickEntries(title string, entries []trash.Entry) ([]trash.Entry, error) {
	if !IsInteractive() {
		return nil, ErrNotTTY
	}

	items := make([]picker.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem(e)
	}

	m := picker.New(title, items)
	if _, err := tea.NewProgram(&m).Run(); err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	if m.Canceled() {
		return nil, ErrCanceled
	}

	var chosen []trash.Entry
	for _, i := range m.Chosen() {
		chosen = append(chosen, entries[i])
	}
	return chosen, nil
}

func entryItem(e trash.Entry) picker.Item {
	name := e.GetName()
	if e.IsDir() {
		name += string(filepath.Separator)
	}
	return picker.Item{
		Title:       name,
		Description: fmt.Sprintf("%s, %s", filepath.Dir(e.GetOriginalPath()), humanize.Time(e.GetDeletedAt())),
	}
}
