// Package tui holds the terminal renditions of the quiz and the wake-up
// widget, built on Bubble Tea.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Options configures the terminal programs.
type Options struct {
	// Context carries the localizer used for UI labels.
	Context context.Context
	NoColor bool
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

var (
	colorAccent  = lipgloss.Color("204")
	colorMuted   = lipgloss.Color("244")
	colorCorrect = lipgloss.Color("35")
	colorWrong   = lipgloss.Color("160")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, style lipgloss.Style) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxStyle(noColor bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
	if !noColor {
		s = s.BorderForeground(colorAccent)
	}
	return s
}
