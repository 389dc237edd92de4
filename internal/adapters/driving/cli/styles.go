package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colour palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourError   = lipgloss.Color("#F38BA8")
	colourWarning = lipgloss.Color("#F9E2AF")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colourSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourError)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
)

// heading writes text underlined with dashes, the way every section of the
// downloader is introduced.
func heading(w io.Writer, style lipgloss.Style, text string) {
	_, _ = io.WriteString(w, style.Render(text)+"\n")
	_, _ = io.WriteString(w, mutedStyle.Render(strings.Repeat("-", lipgloss.Width(text)))+"\n")
}

// banner writes an error heading followed by a blank line.
func banner(w io.Writer, text string) {
	_, _ = io.WriteString(w, "\n")
	heading(w, errorStyle, text)
	_, _ = io.WriteString(w, "\n")
}
