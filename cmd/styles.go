package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for terminal output
var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	commentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// styleComment colors a commented document line by line. Rendering the
// whole block would pad every line to the widest one.
func styleComment(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = commentStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
