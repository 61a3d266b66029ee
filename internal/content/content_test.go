package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Akshita", c.Recipient)
	assert.Len(t, c.Quiz, 15)
	assert.Len(t, c.Timeline, 6)
	assert.Len(t, c.Reasons, 6)
	assert.Len(t, c.WakeUp.Messages, 10)
	for _, item := range c.Quiz {
		assert.Len(t, item.Options, 2, "item %d", item.ID)
		assert.Contains(t, []int{0, 1}, item.Correct, "item %d", item.ID)
	}
	assert.NotPanics(t, func() { Default() })
}

const minimal = `
recipient: Sam
hero: {date: today, headline: Hi, intro: [hello]}
letter: {greeting: Dear Sam, paragraphs: [text], closing: Love}
lyrics: {title: Song, lines: [la]}
timeline:
  - {title: Met, date: then, description: we met}
quiz_intro: {title: Quiz}
quiz:
  - id: 1
    prompt: Who?
    options: [A, B]
    correct: 0
    explanation: yes
    wrong_explanation: no
wakeup: {title: Wake, messages: [go], special_title: Done}
`

func TestParseMinimal(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, "Sam", c.Recipient)
	require.Len(t, c.Quiz, 1)
	assert.Equal(t, []string{"A", "B"}, c.Quiz[0].Options)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(string) string
		wantField string
	}{
		{
			name:      "missing recipient",
			edit:      func(s string) string { return strings.Replace(s, "recipient: Sam", "recipient: \"\"", 1) },
			wantField: "recipient",
		},
		{
			name:      "three options",
			edit:      func(s string) string { return strings.Replace(s, "[A, B]", "[A, B, C]", 1) },
			wantField: "quiz[0].options",
		},
		{
			name:      "correct index out of range",
			edit:      func(s string) string { return strings.Replace(s, "correct: 0", "correct: 2", 1) },
			wantField: "quiz[0].correct",
		},
		{
			name:      "empty explanation",
			edit:      func(s string) string { return strings.Replace(s, "explanation: yes", "explanation: \"\"", 1) },
			wantField: "quiz[0].explanation",
		},
		{
			name: "duplicate id",
			edit: func(s string) string {
				return strings.Replace(s, "wakeup:", "  - {id: 1, prompt: Again?, options: [A, B], correct: 1, explanation: y, wrong_explanation: n}\nwakeup:", 1)
			},
			wantField: "quiz[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.edit(minimal)))
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.wantField)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(minimal + "\nsurprise: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surprise")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sam", c.Recipient)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
