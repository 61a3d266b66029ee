package views

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/greeting/internal/content"
	"github.com/pavelanni/greeting/internal/effects"
	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/quiz"
	"github.com/pavelanni/greeting/internal/wakeup"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	require.NoError(t, appI18n.Init("en"))
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer("en"))
	ctx = model.ContextWithBasePath(ctx, "/love")
	return model.ContextWithCSRFToken(ctx, "tok123")
}

func renderString(t *testing.T, ctx context.Context, c interface {
	Render(context.Context, io.Writer) error
}) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestIndexPage(t *testing.T) {
	ctx := testCtx(t)
	c := content.Default()
	s := quiz.New(c.Quiz)

	html := renderString(t, ctx, IndexPage(IndexData{
		Content:  c,
		Quiz:     QuizData{View: s.Snapshot(), Intro: c.QuizIntro},
		Hearts:   effects.Hearts(15, nil),
		Confetti: effects.OpeningShow.Plan(nil),
	}))

	assert.Contains(t, html, "A little something for "+c.Recipient)
	assert.Contains(t, html, c.Hero.Headline)
	assert.Contains(t, html, "Question 1 of 15")
	assert.Contains(t, html, `action="/love/quiz/select/1"`)
	assert.Contains(t, html, `value="tok123"`)
	assert.Contains(t, html, `href="/love/wakeup"`)
	assert.Equal(t, 15, bytes.Count([]byte(html), []byte(`class="heart"`)))
	assert.Contains(t, html, `"particleCount"`)
}

func TestQuizCardAnswered(t *testing.T) {
	ctx := testCtx(t)
	items := content.Default().Quiz[:1]
	s := quiz.New(items)
	wrong := 1 - items[0].Correct
	s.Select(wrong)

	html := renderString(t, ctx, QuizCard(QuizData{View: s.Snapshot()}))
	assert.Contains(t, html, "option wrong")
	assert.Contains(t, html, "option correct")
	assert.Contains(t, html, " disabled")
	assert.Contains(t, html, "See your result")
	assert.Contains(t, html, `action="/love/quiz/next"`)
}

func TestQuizCardFinished(t *testing.T) {
	ctx := testCtx(t)
	items := content.Default().Quiz[:2]
	s := quiz.New(items)
	for range items {
		s.Select(s.Snapshot().Item.Correct)
		s.Advance()
	}

	html := renderString(t, ctx, QuizCard(QuizData{View: s.Snapshot()}))
	assert.Contains(t, html, "All done!")
	assert.Contains(t, html, "You got 2 / 2")
	assert.Contains(t, html, `action="/love/quiz/reset"`)
	assert.NotContains(t, html, "Question")
}

func TestWakeUpWidget(t *testing.T) {
	ctx := testCtx(t)
	wc := content.Default().WakeUp
	now := time.Now()
	counter := wakeup.New([]string{"Rise and shine"})
	counter.Click(now)
	burst := effects.ClickBurst()

	html := renderString(t, ctx, WakeUpWidget(WakeUpData{
		Content:   wc,
		Clicks:    counter.Clicks(),
		Energy:    counter.Energy(),
		Messages:  counter.Messages(),
		Burst:     &burst,
		RefreshMs: 3000,
	}))
	assert.Contains(t, html, "1 click so far")
	assert.Contains(t, html, "width: 10%")
	assert.Contains(t, html, "Rise and shine")
	assert.Contains(t, html, `hx-trigger="load delay:3000ms"`)
	assert.NotContains(t, html, wc.SpecialTitle)

	opts := clickBurstOptions(t, html)
	assert.Equal(t, 30.0, opts["particleCount"])
	for _, key := range []string{"ticks", "scalar", "startVelocity"} {
		if v, ok := opts[key]; ok {
			assert.NotZero(t, v, key)
		}
	}
	assert.NotContains(t, opts, "at_ms")
}

// clickBurstOptions decodes the argument of the confetti call in a widget.
func clickBurstOptions(t *testing.T, html string) map[string]any {
	t.Helper()
	const call = "confetti("
	start := strings.Index(html, call)
	require.GreaterOrEqual(t, start, 0, "no confetti call rendered")
	rest := html[start+len(call):]
	end := strings.Index(rest, ");")
	require.GreaterOrEqual(t, end, 0)

	var opts map[string]any
	require.NoError(t, json.Unmarshal([]byte(rest[:end]), &opts))
	return opts
}

func TestUnlockPage(t *testing.T) {
	ctx := testCtx(t)

	html := renderString(t, ctx, UnlockPage(""))
	assert.Contains(t, html, "Enter the passphrase")
	assert.NotContains(t, html, "feedback wrong")

	html = renderString(t, ctx, UnlockPage("nope"))
	assert.Contains(t, html, "nope")
}
