// Package effects computes the parameters of the decorative effects: the
// opening confetti show and the floating hearts. Nothing here affects quiz
// state; renderers consume the numbers as they see fit.
package effects

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Origin is a point in viewport-relative coordinates.
type Origin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options are canvas-confetti options. Zero values are omitted so the
// library keeps its own defaults; ZIndex is a pointer because an explicit 0
// differs from the default of 100.
type Options struct {
	ParticleCount float64 `json:"particleCount"`
	Spread        float64 `json:"spread,omitempty"`
	StartVelocity float64 `json:"startVelocity,omitempty"`
	Ticks         int     `json:"ticks,omitempty"`
	ZIndex        *int    `json:"zIndex,omitempty"`
	Scalar        float64 `json:"scalar,omitempty"`
	Origin        *Origin `json:"origin,omitempty"`
}

// Burst is one confetti trigger of a show, AtMs after the show starts.
type Burst struct {
	AtMs    int64 `json:"at_ms"`
	Options `json:"options"`
}

// Show describes a timed confetti sequence: after Delay, a pair of bursts
// (left and right) every Interval until Duration has elapsed. The particle
// count decays linearly with the time left.
type Show struct {
	Delay         time.Duration
	Duration      time.Duration
	Interval      time.Duration
	MaxParticles  float64
	Spread        float64
	StartVelocity float64
	Ticks         int
	ZIndex        int
	Scalar        float64
}

// OpeningShow is the celebration played when the page opens.
var OpeningShow = Show{
	Delay:         1200 * time.Millisecond,
	Duration:      4000 * time.Millisecond,
	Interval:      400 * time.Millisecond,
	MaxParticles:  20,
	Spread:        150,
	StartVelocity: 20,
	Ticks:         50,
	ZIndex:        0, // below the page content
	Scalar:        0.8,
}

// ErrInvalidShow is returned by Run for a show without a positive interval.
var ErrInvalidShow = errors.New("confetti show needs a positive interval")

// ClickBurst returns the small burst fired by the wake-up widget. Every
// option it leaves unset keeps the canvas-confetti default.
func ClickBurst() Options {
	return Options{
		ParticleCount: 30,
		Spread:        60,
		Origin:        &Origin{X: 0.5, Y: 0.6},
	}
}

// Source returns uniformly distributed floats in [0, 1).
type Source func() float64

func randomIn(src Source, lo, hi float64) float64 {
	return lo + src()*(hi-lo)
}

// burstsAt returns the burst pair fired at elapsed time since the show started.
// It returns nil once the show is over.
func (s Show) burstsAt(elapsed time.Duration, src Source) []Burst {
	left := s.Duration - elapsed
	if left <= 0 {
		return nil
	}
	count := s.MaxParticles * float64(left) / float64(s.Duration)
	mk := func(xlo, xhi float64) Burst {
		zIndex := s.ZIndex
		return Burst{
			AtMs: (s.Delay + elapsed).Milliseconds(),
			Options: Options{
				ParticleCount: count,
				Spread:        s.Spread,
				StartVelocity: s.StartVelocity,
				Ticks:         s.Ticks,
				ZIndex:        &zIndex,
				Scalar:        s.Scalar,
				Origin:        &Origin{X: randomIn(src, xlo, xhi), Y: src() - 0.2},
			},
		}
	}
	return []Burst{mk(0.1, 0.3), mk(0.7, 0.9)}
}

// Plan precomputes every burst of the show, offsets measured from the start
// of the show including the initial delay.
// A show without a positive Interval has no bursts.
func (s Show) Plan(src Source) []Burst {
	if s.Interval <= 0 {
		return nil
	}
	if src == nil {
		src = rand.Float64
	}
	var plan []Burst
	for elapsed := s.Interval; ; elapsed += s.Interval {
		pair := s.burstsAt(elapsed, src)
		if pair == nil {
			return plan
		}
		plan = append(plan, pair...)
	}
}

// Run plays the show in real time, calling emit for every burst. It returns
// when the show is over or ctx is cancelled; the ticker never outlives it.
func (s Show) Run(ctx context.Context, src Source, emit func(Burst)) error {
	if s.Interval <= 0 {
		return ErrInvalidShow
	}
	if src == nil {
		src = rand.Float64
	}
	delay := time.NewTimer(s.Delay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-delay.C:
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for elapsed := s.Interval; ; elapsed += s.Interval {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		pair := s.burstsAt(elapsed, src)
		if pair == nil {
			return nil
		}
		for _, b := range pair {
			emit(b)
		}
	}
}
