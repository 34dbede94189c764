package confirm

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jimschubert/answer/colors"
)

// Decision is an enumeration of decisions available in the confirmation bubble
type Decision int

const (
	// Undecided indicates the state in which a user has not made a selection
	Undecided Decision = iota

	// Accepted indicates the user has provided a positive response
	Accepted

	// Denied indicates the user has provided a negative response
	Denied
)

// String satisfies the fmt.Stringer interface
func (d Decision) String() string {
	return [...]string{
		"undecided",
		"accepted",
		"denied",
	}[d]
}

// IsAccepted is a helper to indicate the positive confirmation state was selected
func (d Decision) IsAccepted() bool {
	return d == Accepted
}

// Styles holds relevant styles used for rendering
type Styles struct {
	PromptPrefix lipgloss.Style
	Prompt       lipgloss.Style
	Answer       lipgloss.Style
	Placeholder  lipgloss.Style
}

type keyMap struct {
	Yes     key.Binding
	No      key.Binding
	Default key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Yes:     key.NewBinding(key.WithKeys("y", "Y")),
	No:      key.NewBinding(key.WithKeys("n", "N")),
	Default: key.NewBinding(key.WithKeys("enter")),
	Cancel:  key.NewBinding(key.WithKeys("ctrl+c", "esc", "q")),
}

// Model asks a yes/no question and finishes on a single key press
type Model struct {
	// PromptPrefix is an indicator rendered before the prompt, separately styled
	PromptPrefix string

	// Prompt is the question shown to the user
	Prompt string

	// DefaultValue is chosen when the user just hits enter
	DefaultValue Decision

	Styles Styles

	selected Decision
	done     bool
}

// New creates a new model with default settings
func New(prompt string) Model {
	return Model{
		PromptPrefix: "?",
		Prompt:       prompt,
		DefaultValue: Denied,
		Styles: Styles{
			PromptPrefix: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.PromptPrefix)),
			Prompt:       lipgloss.NewStyle().Bold(true),
			Answer:       lipgloss.NewStyle().Foreground(lipgloss.Color("#5FB458")),
			Placeholder:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Placeholder)),
		},
	}
}

// Selected retrieves the user-selected Decision value
func (m *Model) Selected() Decision {
	return m.selected
}

// Init satisfies the tea.Model interface
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update satisfies the tea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Yes):
		m.selected = Accepted
	case key.Matches(keyMsg, keys.No), key.Matches(keyMsg, keys.Cancel):
		m.selected = Denied
	case key.Matches(keyMsg, keys.Default):
		m.selected = m.DefaultValue
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

// View satisfies the tea.Model interface
func (m *Model) View() string {
	var b strings.Builder
	if m.PromptPrefix != "" {
		b.WriteString(m.Styles.PromptPrefix.Render(m.PromptPrefix))
		b.WriteString(" ")
	}
	b.WriteString(m.Styles.Prompt.Render(m.Prompt))
	b.WriteString(" ")

	if m.done {
		answer := "no"
		if m.selected.IsAccepted() {
			answer = "yes"
		}
		b.WriteString(m.Styles.Answer.Render(answer))
		b.WriteString("\n")
		return b.String()
	}

	hint := "y/N"
	if m.DefaultValue == Accepted {
		hint = "Y/n"
	}
	b.WriteString(m.Styles.Placeholder.Render(hint))
	return b.String()
}
