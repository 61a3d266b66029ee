// Package views renders the site. Pages are html/template files embedded in
// the binary and exposed as templ components, so handlers render everything
// the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// placeholders let the templates parse; every render binds the real ones.
var placeholders = template.FuncMap{
	"t":    func(string) string { return "" },
	"td":   func(string, ...any) string { return "" },
	"tp":   func(string, int) string { return "" },
	"path": func(string) string { return "" },
	"csrf": func() string { return "" },
	"pct":  func(float64) string { return "" },
}

var templates = template.Must(template.New("").Funcs(placeholders).ParseFS(templateFS, "templates/*.html"))

func funcsFor(ctx context.Context) template.FuncMap {
	basePath := model.BasePathFromContext(ctx)
	return template.FuncMap{
		"t": func(id string) string { return appI18n.T(ctx, id) },
		"td": func(id string, kv ...any) string {
			data := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				data[fmt.Sprint(kv[i])] = kv[i+1]
			}
			return appI18n.Td(ctx, id, data)
		},
		"tp":   func(id string, n int) string { return appI18n.Tp(ctx, id, n) },
		"path": func(p string) string { return basePath + p },
		"csrf": func() string { return model.CSRFTokenFromContext(ctx) },
		"pct":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
	}
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := templates.Clone()
		if err != nil {
			return fmt.Errorf("clone templates: %w", err)
		}
		if err := t.Funcs(funcsFor(ctx)).ExecuteTemplate(w, name, data); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	})
}
