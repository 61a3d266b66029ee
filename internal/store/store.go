// Package store keeps per-visitor quiz and wake-up state in memory. Nothing is
// written to disk; idle visitors are forgotten after a TTL.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/quiz"
	"github.com/pavelanni/greeting/internal/wakeup"
)

const (
	DefaultTTL             = 2 * time.Hour
	DefaultCleanupInterval = 5 * time.Minute
)

var ErrUnknownVisitor = errors.New("unknown visitor")

type visitor struct {
	quiz     *quiz.Session
	wakeUp   *wakeup.Counter
	unlocked bool
	lastSeen time.Time
}

type Store struct {
	mu        sync.Mutex
	items     []model.QuizItem
	wakeTexts []string
	ttl       time.Duration
	now       func() time.Time
	visitors  map[string]*visitor
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a registry whose visitors play the given quiz items and see the
// given wake-up messages. A non-positive ttl means DefaultTTL.
func New(items []model.QuizItem, wakeTexts []string, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		items:     items,
		wakeTexts: wakeTexts,
		ttl:       ttl,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateVisitor registers a new visitor with a fresh quiz and returns its ID.
func (s *Store) CreateVisitor() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[id] = &visitor{
		quiz:     quiz.New(s.items),
		wakeUp:   wakeup.New(s.wakeTexts),
		lastSeen: s.now(),
	}
	slog.Debug("visitor created", "visitor", id)
	return id
}

// Touch reports whether id is a live visitor and refreshes its expiry.
func (s *Store) Touch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.get(id)
	return err == nil
}

// get returns a live visitor and marks it seen. Callers hold s.mu.
func (s *Store) get(id string) (*visitor, error) {
	v, ok := s.visitors[id]
	if !ok {
		return nil, ErrUnknownVisitor
	}
	now := s.now()
	if now.Sub(v.lastSeen) > s.ttl {
		delete(s.visitors, id)
		return nil, ErrUnknownVisitor
	}
	v.lastSeen = now
	return v, nil
}

// UpdateQuiz runs fn on the visitor's quiz session. fn must not keep the
// session after it returns.
func (s *Store) UpdateQuiz(id string, fn func(*quiz.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.get(id)
	if err != nil {
		return err
	}
	fn(v.quiz)
	return nil
}

// UpdateWakeUp runs fn on the visitor's wake-up counter.
func (s *Store) UpdateWakeUp(id string, fn func(*wakeup.Counter)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.get(id)
	if err != nil {
		return err
	}
	fn(v.wakeUp)
	return nil
}

// Unlock records that the visitor entered the passphrase.
func (s *Store) Unlock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.get(id)
	if err != nil {
		return err
	}
	v.unlocked = true
	return nil
}

func (s *Store) Unlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.get(id)
	return err == nil && v.unlocked
}

// Len returns the number of visitors, expired ones included until cleanup.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// CleanupExpired removes idle visitors and returns how many were removed.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, id)
			removed++
		}
	}
	return removed
}

// StartJanitor removes expired visitors every interval until ctx is done.
// The returned channel is closed when the janitor has stopped.
// A non-positive interval means DefaultCleanupInterval.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupExpired(); n > 0 {
					slog.Info("expired visitors removed", "count", n)
				}
			}
		}
	}()
	return done
}
