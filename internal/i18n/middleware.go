package i18n

import "net/http"

// Middleware injects a localizer into every request context. The language is
// taken from the "lang" query parameter, then the "lang" cookie, then the
// Accept-Language header; unsupported choices fall back to the default.
// A language chosen by query is remembered in a cookie scoped to cookiePath,
// or to "/" when cookiePath is empty.
func Middleware(cookiePath string) func(http.Handler) http.Handler {
	if cookiePath == "" {
		cookiePath = "/"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieLang string
			if c, err := r.Cookie("lang"); err == nil {
				cookieLang = c.Value
			}
			query := r.URL.Query().Get("lang")
			lang := Match(query, cookieLang, r.Header.Get("Accept-Language"))
			if query != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     "lang",
					Value:    lang,
					Path:     cookiePath,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := WithLocalizer(r.Context(), NewLocalizer(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
