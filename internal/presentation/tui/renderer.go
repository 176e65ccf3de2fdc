package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// It auto-detects the terminal background for styling.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether stdout is attached to a terminal. Markdown
// rendering and banners are suppressed when output is piped.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
