package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/greeting/internal/effects"
	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/wakeup"
)

var items = []model.QuizItem{
	{ID: 1, Prompt: "Who wakes up first?", Options: []string{"Me", "You"}, Correct: 1, Explanation: "Always you.", WrongExplanation: "Nope, you."},
	{ID: 2, Prompt: "Who cooks?", Options: []string{"Me", "You"}, Correct: 0, Explanation: "Yes.", WrongExplanation: "No."},
}

func testOptions(t *testing.T, now func() time.Time) Options {
	t.Helper()
	require.NoError(t, appI18n.Init("en"))
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer("en"))
	return Options{Context: ctx, NoColor: true, Now: now}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestQuizModelPlaysThrough(t *testing.T) {
	m := tea.Model(NewQuizModel(items, model.QuizIntro{Title: "How well do you know us?"}, testOptions(t, nil)))

	view := m.View()
	assert.Contains(t, view, "Question 1 of 2")
	assert.Contains(t, view, "Who wakes up first?")
	assert.NotContains(t, view, "[enter]")

	m = press(t, m, runes("b"))
	view = m.View()
	assert.Contains(t, view, "✓ B. You")
	assert.Contains(t, view, "Always you.")
	assert.Contains(t, view, "[enter] Next")

	m = press(t, m, enter, runes("b"))
	view = m.View()
	assert.Contains(t, view, "Question 2 of 2")
	assert.Contains(t, view, "✗ B. You")
	assert.Contains(t, view, "✓ A. Me")
	assert.Contains(t, view, "See your result")

	m = press(t, m, enter)
	view = m.View()
	assert.Contains(t, view, "All done!")
	assert.Contains(t, view, "You got 1 / 2")

	m = press(t, m, enter)
	assert.Contains(t, m.View(), "Question 1 of 2")
	assert.Equal(t, 0, m.(QuizModel).Snapshot().Score)
}

func TestQuizModelIgnoresInvalidInput(t *testing.T) {
	m := tea.Model(NewQuizModel(items, model.QuizIntro{}, testOptions(t, nil)))

	m = press(t, m, enter, runes("x"))
	v := m.(QuizModel).Snapshot()
	assert.Equal(t, 1, v.Position)
	assert.False(t, v.HasAnswer)

	m = press(t, m, runes("a"), runes("b"))
	v = m.(QuizModel).Snapshot()
	assert.Equal(t, 0, v.Score)
	assert.Equal(t, "Nope, you.", v.Feedback)
}

func TestQuizModelQuit(t *testing.T) {
	m := NewQuizModel(items, model.QuizIntro{}, testOptions(t, nil))
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestWakeUpModel(t *testing.T) {
	clk := &clock{t: time.Date(2025, time.December, 19, 8, 0, 0, 0, time.UTC)}
	content := model.WakeUp{
		Title:          "Wake up!",
		Messages:       []string{"Coffee is brewing"},
		FunFacts:       []string{"Otters hold hands"},
		SpecialTitle:   "You did it",
		SpecialMessage: []string{"Good morning"},
	}
	m := tea.Model(NewWakeUpModel(content, testOptions(t, clk.now), wakeup.WithPicker(func(int) int { return 0 })))

	assert.Contains(t, m.View(), "0 clicks so far")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd, "a click arms an expiry tick")
	view := m.View()
	assert.Contains(t, view, "1 click so far")
	assert.Contains(t, view, "Energy Level: 10%")
	assert.Contains(t, view, "Coffee is brewing")
	assert.Contains(t, view, strings.Repeat("*", 30))

	// Once the message has expired nothing else is pending.
	m, cmd = m.Update(expiryMsg(clk.t.Add(wakeup.MessageLifetime)))
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Coffee is brewing")
	assert.NotContains(t, m.View(), "***")

	for range wakeup.SpecialClicks - 1 {
		m, _ = m.Update(enter)
	}
	view = m.View()
	assert.Contains(t, view, "FULLY CHARGED")
	assert.Contains(t, view, "Otters hold hands")
	assert.NotContains(t, view, "You did it")

	m, _ = m.Update(expiryMsg(clk.t.Add(wakeup.SpecialDelay)))
	assert.Contains(t, m.View(), "You did it")
	assert.Contains(t, m.View(), "Good morning")
}

func TestQuizModelShowsOpeningConfetti(t *testing.T) {
	m := tea.Model(NewQuizModel(items, model.QuizIntro{}, testOptions(t, nil)))
	assert.NotContains(t, m.View(), "*")

	m, _ = m.Update(BurstMsg{Options: effects.Options{ParticleCount: 17.6}})
	assert.Contains(t, m.View(), strings.Repeat("*", 18))

	m, _ = m.Update(ShowDoneMsg{})
	assert.NotContains(t, m.View(), "*")
}

func TestPlayShowForwardsBursts(t *testing.T) {
	show := effects.Show{Interval: time.Millisecond, Duration: 3 * time.Millisecond, MaxParticles: 20}
	var msgs []tea.Msg
	require.NoError(t, PlayShow(context.Background(), show, func(msg tea.Msg) { msgs = append(msgs, msg) }))
	require.Len(t, msgs, 5)
	assert.IsType(t, BurstMsg{}, msgs[0])
	assert.IsType(t, ShowDoneMsg{}, msgs[4])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msgs = nil
	require.NoError(t, PlayShow(ctx, effects.OpeningShow, func(msg tea.Msg) { msgs = append(msgs, msg) }))
	assert.Equal(t, []tea.Msg{ShowDoneMsg{}}, msgs)
}
