package effects

import "math/rand/v2"

// Heart is one floating heart of the background.
type Heart struct {
	StartX   float64 // percent of viewport width
	DriftX   float64 // px, added to StartX over the flight
	Scale    float64
	Size     float64 // px
	Duration float64 // seconds per flight
	Delay    float64 // seconds before the first flight
}

// Hearts generates n floating hearts.
func Hearts(n int, src Source) []Heart {
	if src == nil {
		src = rand.Float64
	}
	hearts := make([]Heart, n)
	for i := range hearts {
		hearts[i] = Heart{
			StartX:   randomIn(src, 0, 100),
			DriftX:   randomIn(src, -50, 50),
			Scale:    randomIn(src, 0.15, 0.45),
			Size:     randomIn(src, 16, 36),
			Duration: randomIn(src, 15, 23),
			Delay:    randomIn(src, 0, 3),
		}
	}
	return hearts
}
