// Package config holds the intensity configuration that modulates effect
// frequency and the store that snapshots it per triggering action.
package config

import (
	"sync"
	"time"
)

// Intensity tunes how often and how hard effects fire. It is read once at
// the start of each triggering action and treated as immutable for that
// action; changes apply to the next action, never retroactively.
type Intensity struct {
	// BaseProbability is the floor chance of the typing particle burst,
	// before the combo ramp. Must stay in [0, 1].
	BaseProbability float64

	// ComboThreshold is the consecutive-action count between bonus events.
	ComboThreshold int

	// ComboTimeout is how long the combo survives without a new action.
	ComboTimeout time.Duration

	// SelectionRefire is the minimum selection-size change, in characters,
	// that re-fires the activation bundle on an already-active selection.
	SelectionRefire int

	// SparkleCap bounds the sparkle cascade's sampled positions.
	SparkleCap int

	// Demo bypasses every probability gate so each eligible primitive fires
	// on every action. Spirit and ring substitute a periodic modulus (every
	// 3rd and 5th action) for their probability gates.
	Demo bool

	// Per-effect enable flags.
	EnableTrail      bool
	EnableAfterimage bool
	EnableParticles  bool
	EnableShake      bool
	EnableGlyphs     bool
	EnableRings      bool
	EnableGlow       bool
	EnableSound      bool
}

// Default returns the stock tuning. The probability and threshold values are
// tuned constants carried over as defaults, not invariants.
func Default() Intensity {
	return Intensity{
		BaseProbability:  0.3,
		ComboThreshold:   20,
		ComboTimeout:     10 * time.Second,
		SelectionRefire:  10,
		SparkleCap:       50,
		EnableTrail:      true,
		EnableAfterimage: true,
		EnableParticles:  true,
		EnableShake:      true,
		EnableGlyphs:     true,
		EnableRings:      true,
		EnableGlow:       true,
		EnableSound:      true,
	}
}

// normalize clamps values into their valid domains.
func (i Intensity) normalize() Intensity {
	if i.BaseProbability < 0 {
		i.BaseProbability = 0
	}
	if i.BaseProbability > 1 {
		i.BaseProbability = 1
	}
	if i.ComboThreshold < 1 {
		i.ComboThreshold = 1
	}
	if i.ComboTimeout <= 0 {
		i.ComboTimeout = Default().ComboTimeout
	}
	if i.SelectionRefire < 1 {
		i.SelectionRefire = 1
	}
	if i.SparkleCap < 1 {
		i.SparkleCap = 1
	}
	return i
}

// Store is the mutable holder a session snapshots from. One store may feed
// several sessions.
type Store struct {
	mu  sync.RWMutex
	cur Intensity
}

// NewStore creates a store seeded with the given intensity.
func NewStore(i Intensity) *Store {
	return &Store{cur: i.normalize()}
}

// Snapshot returns the current intensity by value.
func (s *Store) Snapshot() Intensity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Set replaces the intensity. In-flight actions keep their snapshot.
func (s *Store) Set(i Intensity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = i.normalize()
}

// Update applies fn to a copy of the current intensity and installs the
// result.
func (s *Store) Update(fn func(*Intensity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	fn(&next)
	s.cur = next.normalize()
}
