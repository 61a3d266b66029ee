package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/greeting/internal/effects"
	"github.com/pavelanni/greeting/internal/handler/views"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/quiz"
	"github.com/pavelanni/greeting/internal/store"
	"github.com/pavelanni/greeting/internal/wakeup"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	content model.Content
	config  model.SiteConfig
	random  effects.Source
	now     func() time.Time
}

// New creates a new Handler.
func New(s *store.Store, c model.Content, cfg model.SiteConfig) (*Handler, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Hearts < 0 {
		return nil, fmt.Errorf("hearts must not be negative, got %d", cfg.Hearts)
	}
	return &Handler{store: s, content: c, config: cfg, now: time.Now}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Get("/effects/confetti.json", h.handleConfettiPlan)

	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Use(h.visitorMiddleware)
		r.Get("/unlock", h.handleUnlockPage)
		r.Post("/unlock", h.handleUnlock)

		r.Group(func(r chi.Router) {
			r.Use(h.requirePassphrase)
			r.Get("/", h.handleIndex)
			r.Post("/quiz/select/{option}", h.handleSelect)
			r.Post("/quiz/next", h.handleNext)
			r.Post("/quiz/reset", h.handleReset)
			r.Get("/wakeup", h.handleWakeUpPage)
			r.Get("/wakeup/widget", h.handleWakeUpWidget)
			r.Post("/wakeup/click", h.handleWakeUpClick)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleConfettiPlan(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(effects.OpeningShow.Plan(h.random)); err != nil {
		slog.Error("encode confetti plan", "error", err)
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var view quiz.View
	if !h.withQuiz(w, r, func(s *quiz.Session) { view = s.Snapshot() }) {
		return
	}
	h.render(w, r, views.IndexPage(views.IndexData{
		Content:  h.content,
		Quiz:     views.QuizData{View: view, Intro: h.content.QuizIntro},
		Hearts:   effects.Hearts(h.config.Hearts, h.random),
		Confetti: effects.OpeningShow.Plan(h.random),
	}))
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	option, err := strconv.Atoi(chi.URLParam(r, "option"))
	if err != nil {
		http.Error(w, "invalid option", http.StatusBadRequest)
		return
	}
	h.quizAction(w, r, "select", func(s *quiz.Session) bool { return s.Select(option) })
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.quizAction(w, r, "advance", (*quiz.Session).Advance)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.quizAction(w, r, "reset", func(s *quiz.Session) bool {
		s.Reset()
		return true
	})
}

// quizAction applies one transition and answers with the quiz fragment for
// HTMX requests or a redirect back to the quiz otherwise.
func (h *Handler) quizAction(w http.ResponseWriter, r *http.Request, op string, fn func(*quiz.Session) bool) {
	var view quiz.View
	ok := h.withQuiz(w, r, func(s *quiz.Session) {
		if !fn(s) {
			slog.Debug("quiz input ignored", "op", op, "state", s.State(), "position", s.Index()+1)
		}
		view = s.Snapshot()
	})
	if !ok {
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, h.path("/")+"#quiz", http.StatusSeeOther)
		return
	}
	h.render(w, r, views.QuizCard(views.QuizData{View: view, Intro: h.content.QuizIntro}))
}

// withQuiz runs fn on the visitor's session. A visitor that expired in the
// meantime is sent back to the start page and false is returned.
func (h *Handler) withQuiz(w http.ResponseWriter, r *http.Request, fn func(*quiz.Session)) bool {
	if err := h.store.UpdateQuiz(model.VisitorFromContext(r.Context()), fn); err != nil {
		slog.Warn("quiz update failed", "error", err)
		h.redirect(w, r, h.path("/"))
		return false
	}
	return true
}

func (h *Handler) handleWakeUpPage(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.wakeUp(w, r, nil); ok {
		h.render(w, r, views.WakeUpPage(d))
	}
}

func (h *Handler) handleWakeUpWidget(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.wakeUp(w, r, nil); ok {
		h.render(w, r, views.WakeUpWidget(d))
	}
}

func (h *Handler) handleWakeUpClick(w http.ResponseWriter, r *http.Request) {
	d, ok := h.wakeUp(w, r, func(c *wakeup.Counter, now time.Time) wakeup.ClickResult {
		return c.Click(now)
	})
	if !ok {
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, h.path("/wakeup"), http.StatusSeeOther)
		return
	}
	h.render(w, r, views.WakeUpWidget(d))
}

// wakeUp optionally clicks, expires old messages and snapshots the widget.
func (h *Handler) wakeUp(w http.ResponseWriter, r *http.Request, click func(*wakeup.Counter, time.Time) wakeup.ClickResult) (views.WakeUpData, bool) {
	now := h.now()
	var d views.WakeUpData
	err := h.store.UpdateWakeUp(model.VisitorFromContext(r.Context()), func(c *wakeup.Counter) {
		var res wakeup.ClickResult
		if click != nil {
			res = click(c, now)
		}
		c.Expire(now)
		d = views.WakeUpData{
			Content:  h.content.WakeUp,
			Clicks:   c.Clicks(),
			Energy:   c.Energy(),
			Charged:  c.FullyCharged(),
			Messages: c.Messages(),
			FunFacts: c.FunFactsVisible(),
			Special:  c.SpecialVisible(now),
		}
		if next, ok := c.NextEvent(now); ok {
			d.RefreshMs = max(next.Sub(now).Milliseconds(), 1)
		}
		if res.Confetti {
			burst := effects.ClickBurst()
			d.Burst = &burst
		}
	})
	if err != nil {
		slog.Warn("wake-up update failed", "error", err)
		h.redirect(w, r, h.path("/wakeup"))
		return views.WakeUpData{}, false
	}
	return d, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to target; HTMX requests get HX-Redirect so the
// whole page navigates instead of a fragment swap.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
