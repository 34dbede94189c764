// Package picker is a multi-select list for choosing trash entries
package picker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	ellipsis      = "…"
	defaultWidth  = 80
	defaultHeight = 12
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("#AD58B4")).Foreground(lipgloss.Color("#EEEEEE"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AD58B4")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FB458"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Item is one row of the picker
type Item struct {
	Title       string
	Description string
}

// Model is a bubbletea model for picking any number of items
type Model struct {
	Title string
	Items []Item

	cursor   int
	offset   int
	selected map[int]bool
	width    int
	height   int
	help     help.Model
	done     bool
	canceled bool
}

// New creates a picker over items
func New(title string, items []Item) Model {
	return Model{
		Title:    title,
		Items:    items,
		selected: make(map[int]bool),
		width:    defaultWidth,
		height:   defaultHeight,
		help:     help.New(),
	}
}

// Canceled reports whether the user quit without confirming
func (m *Model) Canceled() bool {
	return m.canceled
}

// Chosen returns the indices of the selected items in order. If the user
// confirmed without selecting anything, the item under the cursor is chosen.
func (m *Model) Chosen() []int {
	if m.canceled || !m.done || len(m.Items) == 0 {
		return nil
	}
	var idx []int
	for i := range m.Items {
		if m.selected[i] {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		idx = []int{m.cursor}
	}
	slices.Sort(idx)
	return idx
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-4, 1)
		m.help.Width = msg.Width
		m.scroll()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Enter):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.Items)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(m.Items) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, keys.All):
			all := len(m.selectedIndices()) != len(m.Items)
			for i := range m.Items {
				m.selected[i] = all
			}
		}
		m.scroll()
	}
	return m, nil
}

func (m *Model) selectedIndices() []int {
	var idx []int
	for i, ok := range m.selected {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *Model) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	header := fmt.Sprintf("%s (%d/%d selected)", m.Title, len(m.selectedIndices()), len(m.Items))
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.Items))
	textWidth := max(m.width-6, 10)
	for i := m.offset; i < end; i++ {
		item := m.Items[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ] "
		if m.selected[i] {
			check = selectedStyle.Render("[x] ")
		}

		line := item.Title
		if item.Description != "" {
			line += "  " + descStyle.Render(item.Description)
		}
		b.WriteString(cursor + check + ansi.Truncate(line, textWidth, ellipsis) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}
