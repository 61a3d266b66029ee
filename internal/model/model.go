package model

import (
	"context"
	"time"
)

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

type visitorCtxKey struct{}

// ContextWithVisitor stores the visitor ID in the request context.
func ContextWithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorCtxKey{}, id)
}

// VisitorFromContext retrieves the visitor ID from context, or "".
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorCtxKey{}).(string)
	return id
}

// QuizItem is one two-option trivia question.
type QuizItem struct {
	ID               int      `yaml:"id" json:"id" validate:"required,gt=0"`
	Prompt           string   `yaml:"prompt" json:"prompt" validate:"required"`
	Options          []string `yaml:"options" json:"options" validate:"len=2,dive,required"`
	Correct          int      `yaml:"correct" json:"correct" validate:"min=0,max=1"`
	Explanation      string   `yaml:"explanation" json:"explanation" validate:"required"`
	WrongExplanation string   `yaml:"wrong_explanation" json:"wrong_explanation" validate:"required"`
}

// TimelineEvent is a single entry of the relationship timeline.
type TimelineEvent struct {
	Title       string `yaml:"title" validate:"required"`
	Date        string `yaml:"date" validate:"required"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description" validate:"required"`
}

// Reason is a card in the "things I love about you" grid.
type Reason struct {
	Title    string  `yaml:"title" validate:"required"`
	Note     string  `yaml:"note" validate:"required"`
	Rotation float64 `yaml:"rotation" validate:"min=-10,max=10"`
}

// Hero is the top banner.
type Hero struct {
	Date     string   `yaml:"date" validate:"required"`
	Headline string   `yaml:"headline" validate:"required"`
	Intro    []string `yaml:"intro" validate:"min=1"`
}

// Letter is the handwritten-letter section.
type Letter struct {
	Greeting   string   `yaml:"greeting" validate:"required"`
	Paragraphs []string `yaml:"paragraphs" validate:"min=1,dive,required"`
	Closing    string   `yaml:"closing" validate:"required"`
	Signature  string   `yaml:"signature"`
}

// Lyrics is the lyrics section.
type Lyrics struct {
	Title       string   `yaml:"title" validate:"required"`
	Attribution string   `yaml:"attribution"`
	Lines       []string `yaml:"lines" validate:"min=1"`
}

// QuizIntro holds the copy around the quiz card.
type QuizIntro struct {
	Kicker    string `yaml:"kicker"`
	Title     string `yaml:"title" validate:"required"`
	Subtitle  string `yaml:"subtitle"`
	ResultMsg string `yaml:"result_message"`
	ResultSig string `yaml:"result_signature"`
}

// WakeUp holds the copy of the optional wake-up widget.
type WakeUp struct {
	Title          string   `yaml:"title" validate:"required"`
	Date           string   `yaml:"date"`
	Subtitle       string   `yaml:"subtitle"`
	Messages       []string `yaml:"messages" validate:"min=1,dive,required"`
	FunFacts       []string `yaml:"fun_facts"`
	SpecialTitle   string   `yaml:"special_title" validate:"required"`
	SpecialMessage []string `yaml:"special_message"`
}

// Content is the whole static content of the site.
type Content struct {
	Recipient string          `yaml:"recipient" validate:"required"`
	Hero      Hero            `yaml:"hero"`
	Letter    Letter          `yaml:"letter"`
	Reasons   []Reason        `yaml:"reasons" validate:"dive"`
	Lyrics    Lyrics          `yaml:"lyrics"`
	Timeline  []TimelineEvent `yaml:"timeline" validate:"min=1,dive"`
	QuizIntro QuizIntro       `yaml:"quiz_intro"`
	Quiz      []QuizItem      `yaml:"quiz" validate:"min=1,dive"`
	WakeUp    WakeUp          `yaml:"wakeup"`
	Footer    []string        `yaml:"footer"`
}

// SiteConfig holds runtime parameters set via CLI flags.
type SiteConfig struct {
	BasePath       string        // URL prefix for sub-path deployments (e.g. "/ru")
	SecureCookies  bool          // Set Secure flag on cookies (disable for local dev)
	PassphraseHash string        // bcrypt hash; empty disables the unlock gate
	SessionTTL     time.Duration // idle time after which a visitor's state is dropped
	Hearts         int           // number of floating hearts
}
