// Package region detects selection edges. It consumes a "check now" signal
// after every editor command and reports only meaningful transitions, so the
// activation bundle does not re-fire on every cursor nudge.
package region

import "github.com/dshills/keyburst/internal/host"

// Event is the transition the detector observed.
type Event uint8

const (
	// EventNone means nothing worth reacting to happened.
	EventNone Event = iota

	// EventActivate means a selection just started.
	EventActivate

	// EventRefire means an active selection changed size by at least the
	// refire delta since the last fired bundle.
	EventRefire

	// EventDeactivate means the selection was cleared.
	EventDeactivate
)

// String returns the string representation of the event.
func (e Event) String() string {
	switch e {
	case EventActivate:
		return "activate"
	case EventRefire:
		return "refire"
	case EventDeactivate:
		return "deactivate"
	default:
		return "none"
	}
}

// Detector tracks whether a selection is active and how big it was when the
// activation bundle last fired. Not safe for concurrent use; the owning
// session serializes calls.
type Detector struct {
	active    bool
	bounds    host.Range
	lastFired int
}

// NewDetector creates an inactive detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Check consumes the current selection state and returns the transition.
// refireDelta is the minimum size change that re-fires on an already-active
// selection; the threshold is checked against the size at the last fire,
// not renegotiated across partial updates.
func (d *Detector) Check(active bool, span host.Range, refireDelta int) Event {
	if !active || span.IsEmpty() {
		if !d.active {
			return EventNone
		}
		d.active = false
		d.bounds = host.Range{}
		d.lastFired = 0
		return EventDeactivate
	}

	size := span.Len()
	if !d.active {
		d.active = true
		d.bounds = span
		d.lastFired = size
		return EventActivate
	}

	d.bounds = span
	delta := size - d.lastFired
	if delta < 0 {
		delta = -delta
	}
	if refireDelta > 0 && delta >= refireDelta {
		d.lastFired = size
		return EventRefire
	}
	return EventNone
}

// Active reports whether a selection is currently tracked.
func (d *Detector) Active() bool {
	return d.active
}

// Bounds returns the most recent selection range.
func (d *Detector) Bounds() host.Range {
	return d.bounds
}

// Reset forgets any tracked selection without emitting an event. Used on
// teardown, after the session has already torn down the glow.
func (d *Detector) Reset() {
	d.active = false
	d.bounds = host.Range{}
	d.lastFired = 0
}
