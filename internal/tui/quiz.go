package tui

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/quiz"
)

// QuizModel plays the quiz in the terminal. The Bubble Tea update loop is
// the only owner of the session.
type QuizModel struct {
	session  *quiz.Session
	intro    model.QuizIntro
	opts     Options
	width    int
	confetti int // particles of the last opening-show burst
}

// NewQuizModel constructs a quiz program over items.
func NewQuizModel(items []model.QuizItem, intro model.QuizIntro, opts Options) QuizModel {
	return QuizModel{
		session: quiz.New(items),
		intro:   intro,
		opts:    opts.withDefaults(),
	}
}

// Init does nothing; the quiz only reacts to keys.
func (m QuizModel) Init() tea.Cmd { return nil }

// Update maps keys to quiz transitions.
func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
	case BurstMsg:
		m.confetti = int(math.Round(typed.ParticleCount))
	case ShowDoneMsg:
		m.confetti = 0
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a", "A", "left", "1":
			m.session.Select(0)
		case "b", "B", "right", "2":
			m.session.Select(1)
		case "enter", " ", "n":
			if m.session.Finished() {
				m.session.Reset()
			} else {
				m.session.Advance()
			}
		case "r":
			m.session.Reset()
		}
	}
	return m, nil
}

// Snapshot exposes the current quiz view.
func (m QuizModel) Snapshot() quiz.View { return m.session.Snapshot() }

// View renders the quiz card.
func (m QuizModel) View() string {
	ctx, noColor := m.opts.Context, m.opts.NoColor
	v := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(stylize(m.intro.Title, noColor, fg(colorAccent).Bold(true)))
	b.WriteString("\n\n")

	if v.State == quiz.StateFinished {
		b.WriteString(stylize(appI18n.T(ctx, "AllDone"), noColor, lipgloss.NewStyle().Bold(true)))
		b.WriteString("\n")
		b.WriteString(appI18n.Td(ctx, "YouGot", map[string]any{"Score": v.Score, "Total": v.Total}))
		b.WriteString("\n")
		if m.intro.ResultMsg != "" {
			b.WriteString("\n" + m.intro.ResultMsg + "\n")
		}
		if m.intro.ResultSig != "" {
			b.WriteString(stylize(m.intro.ResultSig, noColor, fg(colorMuted).Italic(true)) + "\n")
		}
		b.WriteString("\n" + stylize("[enter] "+appI18n.T(ctx, "PlayAgain"), noColor, fg(colorAccent)))
	} else {
		header := appI18n.Td(ctx, "QuestionNofM", map[string]any{"N": v.Position, "Total": v.Total}) +
			"  ·  " + appI18n.Td(ctx, "Score", map[string]any{"Score": v.Score})
		b.WriteString(stylize(header, noColor, fg(colorMuted)))
		b.WriteString("\n\n")
		b.WriteString(stylize(v.Item.Prompt, noColor, lipgloss.NewStyle().Bold(true)))
		b.WriteString("\n\n")
		for _, o := range v.Options {
			b.WriteString(renderOption(o, noColor))
			b.WriteString("\n")
		}
		if v.HasAnswer {
			style := fg(colorCorrect)
			if !v.Correct {
				style = fg(colorWrong)
			}
			b.WriteString("\n" + stylize(v.Feedback, noColor, style) + "\n")
			label := appI18n.T(ctx, "Next")
			if v.IsLast {
				label = appI18n.T(ctx, "SeeResult")
			}
			b.WriteString("\n" + stylize("[enter] "+label, noColor, fg(colorAccent)))
		}
	}

	card := boxStyle(noColor)
	if m.width > 4 {
		card = card.Width(min(m.width-4, 72))
	}
	help := stylize(appI18n.T(ctx, "TerminalHelp"), noColor, fg(colorMuted))
	return lipgloss.JoinVertical(lipgloss.Left, confettiRow(m.confetti, noColor), card.Render(b.String()), help)
}

func renderOption(o quiz.OptionView, noColor bool) string {
	line := o.Letter + ". " + o.Label
	switch o.Mark {
	case quiz.MarkCorrect:
		return stylize("✓ "+line, noColor, fg(colorCorrect).Bold(true))
	case quiz.MarkWrong:
		return stylize("✗ "+line, noColor, fg(colorWrong))
	case quiz.MarkDimmed:
		return stylize("  "+line, noColor, fg(colorMuted))
	default:
		return "  " + line
	}
}
