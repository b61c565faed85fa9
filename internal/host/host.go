// Package host defines the collaborator interfaces the effects core depends
// on: delayed-callback scheduling, the document being decorated, the screen,
// sound playback, and randomness. The core packages talk only to these
// interfaces; production implementations live in internal/timer,
// internal/document, internal/term, and internal/sound, and test fakes in
// the hosttest subpackage.
package host

import (
	"math/rand/v2"
	"time"
)

// TimerHandle identifies one scheduled callback.
type TimerHandle uint64

// NoTimer is the zero handle. Cancelling it does nothing.
const NoTimer TimerHandle = 0

// Timer schedules delayed callbacks. Cancel is idempotent: cancelling a
// handle that already fired, was already cancelled, or was never issued is a
// no-op. Callbacks may run on a different goroutine than the scheduler.
type Timer interface {
	Schedule(delay time.Duration, fn func()) TimerHandle
	Cancel(handle TimerHandle)
}

// AnnotationHandle identifies a visual annotation inside a Document.
type AnnotationHandle uint64

// NoAnnotation is returned when the document refused to create an
// annotation (for example, an out-of-bounds range).
const NoAnnotation AnnotationHandle = 0

// Range is a half-open [Start, End) pair of rune offsets into a document.
type Range struct {
	Start int
	End   int
}

// Len returns the number of offsets the range covers.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no offsets.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains returns true if the offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Document exposes the position and annotation surface of one open buffer.
// All methods are best-effort; an out-of-bounds request yields NoAnnotation
// rather than an error.
type Document interface {
	// Bounds returns the valid offset interval [min, max).
	Bounds() (min, max int)

	// Clamp constrains an offset to the current bounds.
	Clamp(offset int) int

	// Annotate creates a transient visual marker over the range. Higher
	// priority renders on top when annotations overlap.
	Annotate(r Range, content Content, style Style, priority int) AnnotationHandle

	// UpdateAnnotation replaces the content and style of a live annotation.
	UpdateAnnotation(h AnnotationHandle, content Content, style Style)

	// RemoveAnnotation deletes an annotation. Removing an unknown handle is
	// a no-op.
	RemoveAnnotation(h AnnotationHandle)
}

// ShakeMagnitude selects how hard the screen shakes.
type ShakeMagnitude uint8

const (
	ShakeSmall ShakeMagnitude = iota
	ShakeBig
)

// String returns the string representation of the magnitude.
func (m ShakeMagnitude) String() string {
	if m == ShakeBig {
		return "big"
	}
	return "small"
}

// Screen receives viewport-level feedback that is not anchored to a document
// offset. Implementations that cannot express an effect drop it silently.
type Screen interface {
	// Flash tints the whole viewport for the duration.
	Flash(color Color, d time.Duration)

	// Shake jitters the viewport briefly.
	Shake(m ShakeMagnitude)
}

// SoundCategory selects which family of audio clips to play.
type SoundCategory uint8

const (
	SoundTyping SoundCategory = iota
	SoundDelete
	SoundSave
	SoundCombo
)

// String returns the string representation of the category.
func (c SoundCategory) String() string {
	switch c {
	case SoundTyping:
		return "typing"
	case SoundDelete:
		return "delete"
	case SoundSave:
		return "save"
	case SoundCombo:
		return "combo"
	default:
		return "unknown"
	}
}

// Sound plays a randomly chosen clip from a category. Fire-and-forget:
// playback may overlap freely and there is no completion signal. A backend
// without audio support no-ops.
type Sound interface {
	Play(category SoundCategory)
}

// NopSound is a Sound that discards every request.
type NopSound struct{}

// Play implements Sound.
func (NopSound) Play(SoundCategory) {}

// RandomSource abstracts randomness so effect decisions are testable with a
// deterministic source.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64

	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// Rand is the production RandomSource backed by math/rand/v2.
type Rand struct{}

// Float64 implements RandomSource.
func (Rand) Float64() float64 { return rand.Float64() }

// IntN implements RandomSource.
func (Rand) IntN(n int) int { return rand.IntN(n) }
