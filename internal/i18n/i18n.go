package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher
)

// Init loads every embedded locale, with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle = i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	// The default language goes first so the matcher falls back to it.
	supported = []language.Tag{tag}
	for _, t := range bundle.LanguageTags() {
		if t != tag {
			supported = append(supported, t)
		}
	}
	matcher = language.NewMatcher(supported)
	return nil
}

// Languages lists the loaded languages, default first.
func Languages() []string {
	out := make([]string, 0, len(supported))
	for _, t := range supported {
		out = append(out, baseOf(t))
	}
	return out
}

// Match picks the best supported language for the given preferences, each
// either a plain tag or an Accept-Language header value.
func Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		idx = 0
	}
	return baseOf(supported[idx])
}

func baseOf(t language.Tag) string {
	b, _ := t.Base()
	return b.String()
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle)
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return Td(ctx, msgID, nil)
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	s, err := localizerFromCtx(ctx).Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	s, err := localizerFromCtx(ctx).Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}
