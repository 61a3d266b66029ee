package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pavelanni/greeting/internal/effects"
	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/wakeup"
)

const (
	// sparkleFor is how long the confetti row stays after a burst.
	sparkleFor = 600 * time.Millisecond
	barWidth   = 40
)

// WakeUpModel is the terminal wake-up widget.
type WakeUpModel struct {
	counter      *wakeup.Counter
	content      model.WakeUp
	bar          progress.Model
	opts         Options
	now          time.Time
	sparkleUntil time.Time
	sparkles     int
}

// NewWakeUpModel constructs the widget. Extra counter options, such as a
// fixed message picker, are passed through.
func NewWakeUpModel(c model.WakeUp, opts Options, counterOpts ...wakeup.Option) WakeUpModel {
	opts = opts.withDefaults()
	return WakeUpModel{
		counter: wakeup.New(c.Messages, counterOpts...),
		content: c,
		bar: progress.New(
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
			progress.WithGradient("#f6c453", "#e88aa5"),
		),
		opts: opts,
		now:  opts.Now(),
	}
}

// expiryMsg fires when a message or the special message is due.
type expiryMsg time.Time

func (m WakeUpModel) Init() tea.Cmd { return nil }

// Update handles clicks (space or enter) and expiry ticks.
func (m WakeUpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter":
			m.now = m.opts.Now()
			res := m.counter.Click(m.now)
			if res.Confetti {
				m.sparkleUntil = m.now.Add(sparkleFor)
				m.sparkles = int(effects.ClickBurst().ParticleCount)
			}
			return m, m.schedule()
		}
	case expiryMsg:
		m.now = time.Time(typed)
		m.counter.Expire(m.now)
		return m, m.schedule()
	}
	return m, nil
}

// schedule arms one tick for the next change; nothing is armed when the
// widget is idle.
func (m WakeUpModel) schedule() tea.Cmd {
	next, ok := m.counter.NextEvent(m.now)
	if m.sparkleUntil.After(m.now) && (!ok || m.sparkleUntil.Before(next)) {
		next, ok = m.sparkleUntil, true
	}
	if !ok {
		return nil
	}
	return tea.Tick(next.Sub(m.now), func(t time.Time) tea.Msg { return expiryMsg(t) })
}

// Counter exposes the underlying counter.
func (m WakeUpModel) Counter() *wakeup.Counter { return m.counter }

// View renders the widget.
func (m WakeUpModel) View() string {
	ctx, noColor := m.opts.Context, m.opts.NoColor
	c := m.counter

	var b strings.Builder
	b.WriteString(stylize(m.content.Title, noColor, fg(colorAccent).Bold(true)))
	if m.content.Subtitle != "" {
		b.WriteString("\n" + stylize(m.content.Subtitle, noColor, fg(colorMuted)))
	}
	b.WriteString("\n\n")
	b.WriteString(appI18n.T(ctx, "EnergyLevel") + ": " + strconv.Itoa(c.Energy()) + "%\n")
	b.WriteString(m.energyBar())
	b.WriteString("\n")
	if c.FullyCharged() {
		b.WriteString(stylize(appI18n.T(ctx, "FullyCharged"), noColor, fg(colorCorrect).Bold(true)))
	} else {
		b.WriteString(appI18n.T(ctx, "Charging"))
	}
	b.WriteString("\n" + stylize(appI18n.Tp(ctx, "ClicksSoFar", c.Clicks()), noColor, fg(colorMuted)) + "\n")

	if m.sparkleUntil.After(m.now) {
		b.WriteString("\n" + confettiRow(m.sparkles, noColor) + "\n")
	}
	for _, msg := range c.Messages() {
		b.WriteString("\n» " + msg.Text)
	}
	if c.FunFactsVisible() && len(m.content.FunFacts) > 0 {
		b.WriteString("\n\n" + stylize(appI18n.T(ctx, "FunFacts"), noColor, lipgloss.NewStyle().Bold(true)))
		for _, f := range m.content.FunFacts {
			b.WriteString("\n• " + f)
		}
	}
	if c.SpecialVisible(m.now) {
		b.WriteString("\n\n" + stylize(m.content.SpecialTitle, noColor, fg(colorAccent).Bold(true)))
		for _, line := range m.content.SpecialMessage {
			b.WriteString("\n" + line)
		}
	}

	help := stylize("[space] "+appI18n.T(ctx, "ClickForEnergy")+" · q", noColor, fg(colorMuted))
	return lipgloss.JoinVertical(lipgloss.Left, boxStyle(noColor).Render(b.String()), help)
}

var confettiColors = []lipgloss.Color{"204", "220", "117", "156", "213"}

func confettiRow(n int, noColor bool) string {
	var b strings.Builder
	for i := range n {
		b.WriteString(stylize("*", noColor, fg(confettiColors[i%len(confettiColors)])))
	}
	return b.String()
}

// energyBar uses the progress bubble, or plain ASCII without colors.
func (m WakeUpModel) energyBar() string {
	ratio := float64(m.counter.Energy()) / float64(wakeup.MaxEnergy)
	if !m.opts.NoColor {
		return m.bar.ViewAs(ratio)
	}
	filled := int(ratio * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
