package ui

import (
	"fmt"
	"log/slog"

	"github.com/babarot/xtrash/internal/ui/confirm"
	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a yes/no question on the terminal. Anything but an explicit
// yes counts as no.
func Confirm(prompt string) (bool, error) {
	if !IsInteractive() {
		return false, ErrNotTTY
	}

	m := confirm.New(prompt)
	if _, err := tea.NewProgram(&m).Run(); err != nil {
		slog.Error("confirm failed", "error", err)
		return false, fmt.Errorf("confirm prompt: %w", err)
	}

	slog.Debug("confirm answered", "prompt", prompt, "decision", m.Selected())
	return m.Selected().IsAccepted(), nil
}
