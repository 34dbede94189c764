package confirm

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		def      Decision
		want     Decision
		finished bool
	}{
		{name: "yes", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, def: Denied, want: Accepted, finished: true},
		{name: "upper yes", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, def: Denied, want: Accepted, finished: true},
		{name: "no", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, def: Accepted, want: Denied, finished: true},
		{name: "enter takes default", msg: tea.KeyMsg{Type: tea.KeyEnter}, def: Accepted, want: Accepted, finished: true},
		{name: "ctrl+c denies", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, def: Accepted, want: Denied, finished: true},
		{name: "other keys are ignored", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, def: Accepted, want: Undecided, finished: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("Erase 3 files?")
			m.DefaultValue = tt.def

			cmd := press(&m, tt.msg)
			if got := m.Selected(); got != tt.want {
				t.Errorf("Selected() = %v, want %v", got, tt.want)
			}
			if (cmd != nil) != tt.finished {
				t.Errorf("finished = %v, want %v", cmd != nil, tt.finished)
			}
		})
	}
}

func TestView(t *testing.T) {
	m := New("Erase 3 files?")
	if !strings.Contains(m.View(), "Erase 3 files?") || !strings.Contains(m.View(), "y/N") {
		t.Errorf("unexpected view: %q", m.View())
	}

	press(&m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !strings.Contains(m.View(), "yes") {
		t.Errorf("answered view should show the answer: %q", m.View())
	}
}
