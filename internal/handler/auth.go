package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/greeting/internal/handler/views"
	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
)

const (
	visitorCookieName = "visitor"
	csrfCookieName    = "csrf_token"
)

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

// setCSRFCookie issues a fresh token and stores it in the request context
// for the forms rendered by this response.
func (h *Handler) setCSRFCookie(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     h.cookiePath(),
		HttpOnly: false,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return r.WithContext(model.ContextWithCSRFToken(r.Context(), token)), true
}

func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			// Fragment refreshes keep the current token so a form posted
			// while one is in flight still matches the cookie.
			if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" && isHTMX(r) {
				next.ServeHTTP(w, r.WithContext(model.ContextWithCSRFToken(r.Context(), cookie.Value)))
				return
			}
			if r, ok := h.setCSRFCookie(w, r); ok {
				next.ServeHTTP(w, r)
			}
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			slog.Warn("CSRF cookie missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		formToken := r.FormValue("csrf_token")
		if formToken == "" {
			slog.Warn("CSRF form token missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		if len(formToken) != len(cookie.Value) || subtle.ConstantTimeCompare([]byte(formToken), []byte(cookie.Value)) != 1 {
			slog.Warn("CSRF token mismatch")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		if r, ok := h.setCSRFCookie(w, r); ok {
			next.ServeHTTP(w, r)
		}
	})
}

// visitorMiddleware attaches the visitor ID from the cookie, registering a
// new visitor when the cookie is missing or its state has expired.
func (h *Handler) visitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(visitorCookieName); err == nil {
			id = cookie.Value
		}
		if id == "" || !h.store.Touch(id) {
			id = h.store.CreateVisitor()
			http.SetCookie(w, &http.Cookie{
				Name:     visitorCookieName,
				Value:    id,
				Path:     h.cookiePath(),
				HttpOnly: true,
				Secure:   h.config.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(model.ContextWithVisitor(r.Context(), id)))
	})
}

// requirePassphrase sends visitors who have not unlocked the site to the
// unlock page. It does nothing when no passphrase is configured.
func (h *Handler) requirePassphrase(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.config.PassphraseHash == "" || h.store.Unlocked(model.VisitorFromContext(r.Context())) {
			next.ServeHTTP(w, r)
			return
		}
		h.redirectToUnlock(w, r)
	})
}

func (h *Handler) redirectToUnlock(w http.ResponseWriter, r *http.Request) {
	unlockPath := h.path("/unlock")
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", unlockPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, unlockPath, http.StatusSeeOther)
}

func (h *Handler) handleUnlockPage(w http.ResponseWriter, r *http.Request) {
	if h.config.PassphraseHash == "" {
		http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
		return
	}
	h.render(w, r, views.UnlockPage(""))
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	if h.config.PassphraseHash == "" {
		http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
		return
	}

	passphrase := r.FormValue("passphrase")
	if err := bcrypt.CompareHashAndPassword([]byte(h.config.PassphraseHash), []byte(passphrase)); err != nil {
		slog.Info("wrong passphrase")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		if err := views.UnlockPage(appI18n.T(r.Context(), "UnlockError")).Render(r.Context(), w); err != nil {
			slog.Error("render error", "error", err)
		}
		return
	}

	if err := h.store.Unlock(model.VisitorFromContext(r.Context())); err != nil {
		slog.Warn("unlock failed", "error", err)
	}
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}
