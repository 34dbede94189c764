package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// deprecationOutput receives notices about deprecated config fields
var deprecationOutput io.Writer = os.Stderr

var (
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F080"))

	boxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#CCCCCC"))
)

// printDeprecation renders a boxed notice for a deprecated field. Retired
// fields are reported as errors, others as warnings.
func printDeprecation(field string, info *Deprecation, retired bool) {
	header := warningStyle.Render("Warning: ") + fmt.Sprintf("config field '%s' is deprecated", field)
	if retired {
		header = errorStyle.Render("Error: ") + fmt.Sprintf("config field '%s' is no longer supported", field)
	}

	lines := []string{header}
	if info != nil {
		if info.Alternative != "" {
			lines = append(lines, fmt.Sprintf("Use '%s' instead", fieldStyle.Render(info.Alternative)))
		}
		if !info.DeprecatedAt.IsZero() {
			lines = append(lines, noteStyle.Render("Deprecated since: "+info.DeprecatedAt.Format("2006-01-02")))
		}
		if !info.RemovalDate.IsZero() {
			lines = append(lines, noteStyle.Render(lo.Ternary(
				retired,
				"Removed at: ",
				"Planned removal: ",
			)+info.RemovalDate.Format("2006-01-02")))
		}
	}

	fmt.Fprintln(deprecationOutput, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
