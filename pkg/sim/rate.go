package sim

import "sync"

// ClimbRateBuffer keeps a rolling window of altitude samples to smooth the climb rate.
type ClimbRateBuffer struct {
	mu      sync.RWMutex
	samples []altSample
	window  float64
}

type altSample struct {
	t   float64 // sim seconds
	alt float64 // km
}

// NewClimbRateBuffer creates a buffer with the given window in sim seconds.
func NewClimbRateBuffer(window float64) *ClimbRateBuffer {
	return &ClimbRateBuffer{window: window}
}

// Update adds a sample and returns the climb rate in km/s over the window.
func (b *ClimbRateBuffer) Update(t, altKm float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, altSample{t: t, alt: altKm})

	cutoff := t - b.window
	for len(b.samples) > 2 && b.samples[1].t < cutoff {
		b.samples = b.samples[1:]
	}

	if len(b.samples) < 2 {
		return 0
	}

	first := b.samples[0]
	last := b.samples[len(b.samples)-1]
	dt := last.t - first.t
	if dt <= 0 {
		return 0
	}
	return (last.alt - first.alt) / dt
}

// Reset clears the buffer.
func (b *ClimbRateBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
}
