// Package wakeup implements the optional "wake-up" energy widget: a click
// counter with a capped energy meter, short-lived encouragement messages and
// a one-time special message.
//
// Time is passed in explicitly so expiry is deterministic; callers drive it
// from a ticker, an HTTP request or a Bubble Tea tick.
package wakeup

import (
	"math/rand/v2"
	"time"
)

const (
	EnergyPerClick  = 10
	MaxEnergy       = 100
	MessageLifetime = 3 * time.Second
	// Confetti fires on every click whose prior click count is a multiple of this.
	ConfettiEvery = 5
	// SpecialClicks is the click that schedules the special message.
	SpecialClicks = 20
	SpecialDelay  = 500 * time.Millisecond
	// FunFactsClicks is the click count from which fun facts are shown.
	FunFactsClicks = 10
)

// Message is a transient notification.
type Message struct {
	ID        int64
	Text      string
	ExpiresAt time.Time
}

// ClickResult describes the side effects of one click.
type ClickResult struct {
	Message Message
	// Confetti is true when the click should fire a small confetti burst.
	Confetti bool
	// SpecialScheduled is true on the click that schedules the special message.
	SpecialScheduled bool
}

// Counter is the widget state. It is not safe for concurrent use.
type Counter struct {
	texts     []string
	pick      func(n int) int
	clicks    int
	energy    int
	nextID    int64
	messages  []Message
	specialAt time.Time
}

// Option configures a Counter.
type Option func(*Counter)

// WithPicker replaces the random message picker; pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(c *Counter) { c.pick = pick }
}

// New creates a counter that draws messages from texts.
func New(texts []string, opts ...Option) *Counter {
	c := &Counter{texts: texts, pick: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Click registers one click at now.
func (c *Counter) Click(now time.Time) ClickResult {
	var res ClickResult
	res.Confetti = c.clicks%ConfettiEvery == 0
	if c.clicks == SpecialClicks-1 && c.specialAt.IsZero() {
		c.specialAt = now.Add(SpecialDelay)
		res.SpecialScheduled = true
	}

	c.clicks++
	c.energy = min(c.energy+EnergyPerClick, MaxEnergy)

	if len(c.texts) > 0 {
		c.nextID++
		msg := Message{
			ID:        c.nextID,
			Text:      c.texts[c.pick(len(c.texts))],
			ExpiresAt: now.Add(MessageLifetime),
		}
		c.messages = append(c.messages, msg)
		res.Message = msg
	}
	return res
}

// Expire drops messages whose lifetime has ended by now and returns how many
// were removed. Messages expire oldest first.
func (c *Counter) Expire(now time.Time) int {
	n := 0
	for n < len(c.messages) && !now.Before(c.messages[n].ExpiresAt) {
		n++
	}
	if n > 0 {
		c.messages = append([]Message(nil), c.messages[n:]...)
	}
	return n
}

// NextExpiry returns when the oldest live message expires.
func (c *Counter) NextExpiry() (time.Time, bool) {
	if len(c.messages) == 0 {
		return time.Time{}, false
	}
	return c.messages[0].ExpiresAt, true
}

// Messages returns the live messages, oldest first.
func (c *Counter) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Clicks is the number of clicks so far.
func (c *Counter) Clicks() int { return c.clicks }

// Energy is the meter level in percent.
func (c *Counter) Energy() int { return c.energy }

// FullyCharged reports whether the meter is full.
func (c *Counter) FullyCharged() bool { return c.energy >= MaxEnergy }

// FunFactsVisible reports whether the fun-facts panel should be shown.
func (c *Counter) FunFactsVisible() bool { return c.clicks >= FunFactsClicks }

// SpecialVisible reports whether the special message is showing at now.
func (c *Counter) SpecialVisible(now time.Time) bool {
	return !c.specialAt.IsZero() && !now.Before(c.specialAt)
}

// NextEvent returns the next moment after now at which the widget changes on
// its own: a message expiring or the special message appearing.
func (c *Counter) NextEvent(now time.Time) (time.Time, bool) {
	next, ok := c.NextExpiry()
	if !c.specialAt.IsZero() && now.Before(c.specialAt) && (!ok || c.specialAt.Before(next)) {
		next, ok = c.specialAt, true
	}
	return next, ok
}
