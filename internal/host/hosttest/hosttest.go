// Package hosttest provides controllable fakes for the host collaborator
// interfaces so the effects core can be tested without a live editor,
// terminal, speaker, or wall clock.
package hosttest

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/keyburst/internal/host"
)

// FakeTimer is a host.Timer driven by a manual clock. Callbacks fire only
// when Advance moves the clock past their deadline, in deadline order and,
// for equal deadlines, in schedule order.
type FakeTimer struct {
	mu      sync.Mutex
	now     time.Time
	next    host.TimerHandle
	seq     int
	pending []*fakeEntry
}

type fakeEntry struct {
	handle host.TimerHandle
	due    time.Time
	seq    int
	fn     func()
}

// NewFakeTimer creates a fake timer starting at an arbitrary fixed instant.
func NewFakeTimer() *FakeTimer {
	return &FakeTimer{now: time.Unix(1000, 0)}
}

// Schedule implements host.Timer.
func (t *FakeTimer) Schedule(delay time.Duration, fn func()) host.TimerHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.seq++
	e := &fakeEntry{handle: t.next, due: t.now.Add(delay), seq: t.seq, fn: fn}
	t.pending = append(t.pending, e)
	return e.handle
}

// Cancel implements host.Timer.
func (t *FakeTimer) Cancel(handle host.TimerHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.pending {
		if e.handle == handle {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward and fires every callback whose deadline
// has passed. Callbacks scheduled by fired callbacks run in the same pass
// when their deadline also falls inside the advanced window.
func (t *FakeTimer) Advance(d time.Duration) {
	t.mu.Lock()
	t.now = t.now.Add(d)
	t.mu.Unlock()

	for {
		t.mu.Lock()
		var due *fakeEntry
		idx := -1
		for i, e := range t.pending {
			if e.due.After(t.now) {
				continue
			}
			if due == nil || e.due.Before(due.due) || (e.due.Equal(due.due) && e.seq < due.seq) {
				due = e
				idx = i
			}
		}
		if due == nil {
			t.mu.Unlock()
			return
		}
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
		t.mu.Unlock()

		due.fn()
	}
}

// PendingCount returns the number of callbacks not yet fired or cancelled.
func (t *FakeTimer) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// PendingDelays returns the remaining delay of every pending callback,
// sorted ascending. Useful for asserting what is scheduled.
func (t *FakeTimer) PendingDelays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]time.Duration, 0, len(t.pending))
	for _, e := range t.pending {
		out = append(out, e.due.Sub(t.now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Note is the recorded state of one fake annotation.
type Note struct {
	Range    host.Range
	Content  host.Content
	Style    host.Style
	Priority int
	Updates  int
	Removed  bool
}

// FakeDocument is a host.Document over a fixed offset interval that records
// every annotation mutation.
type FakeDocument struct {
	mu    sync.Mutex
	min   int
	max   int
	next  host.AnnotationHandle
	notes map[host.AnnotationHandle]*Note
}

// NewFakeDocument creates a fake document with bounds [min, max).
func NewFakeDocument(min, max int) *FakeDocument {
	return &FakeDocument{min: min, max: max, notes: make(map[host.AnnotationHandle]*Note)}
}

// Bounds implements host.Document.
func (d *FakeDocument) Bounds() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.min, d.max
}

// Clamp implements host.Document.
func (d *FakeDocument) Clamp(offset int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < d.min {
		return d.min
	}
	if offset > d.max {
		return d.max
	}
	return offset
}

// Annotate implements host.Document.
func (d *FakeDocument) Annotate(r host.Range, content host.Content, style host.Style, priority int) host.AnnotationHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.IsEmpty() || r.Start < d.min || r.End > d.max {
		return host.NoAnnotation
	}
	d.next++
	d.notes[d.next] = &Note{Range: r, Content: content, Style: style, Priority: priority}
	return d.next
}

// UpdateAnnotation implements host.Document.
func (d *FakeDocument) UpdateAnnotation(h host.AnnotationHandle, content host.Content, style host.Style) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.notes[h]
	if !ok || n.Removed {
		return
	}
	n.Content = content
	n.Style = style
	n.Updates++
}

// RemoveAnnotation implements host.Document.
func (d *FakeDocument) RemoveAnnotation(h host.AnnotationHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n, ok := d.notes[h]; ok {
		n.Removed = true
	}
}

// LiveCount returns the number of annotations created and not yet removed.
func (d *FakeDocument) LiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, n := range d.notes {
		if !n.Removed {
			count++
		}
	}
	return count
}

// Note returns the recorded state for a handle.
func (d *FakeDocument) Note(h host.AnnotationHandle) (Note, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.notes[h]
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// Live returns copies of every annotation not yet removed.
func (d *FakeDocument) Live() []Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Note
	for _, n := range d.notes {
		if !n.Removed {
			out = append(out, *n)
		}
	}
	return out
}

// FakeScreen records flashes and shakes.
type FakeScreen struct {
	mu      sync.Mutex
	Flashes []host.Color
	Shakes  []host.ShakeMagnitude
}

// Flash implements host.Screen.
func (s *FakeScreen) Flash(color host.Color, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Flashes = append(s.Flashes, color)
}

// Shake implements host.Screen.
func (s *FakeScreen) Shake(m host.ShakeMagnitude) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Shakes = append(s.Shakes, m)
}

// ShakeCount returns how many shakes of the magnitude were recorded.
func (s *FakeScreen) ShakeCount(m host.ShakeMagnitude) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, got := range s.Shakes {
		if got == m {
			count++
		}
	}
	return count
}

// FakeSound records play requests.
type FakeSound struct {
	mu     sync.Mutex
	Played []host.SoundCategory
}

// Play implements host.Sound.
func (s *FakeSound) Play(category host.SoundCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Played = append(s.Played, category)
}

// PlayCount returns how many plays of the category were recorded.
func (s *FakeSound) PlayCount(category host.SoundCategory) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, got := range s.Played {
		if got == category {
			count++
		}
	}
	return count
}

// ScriptedRand is a RandomSource returning queued values. When a queue runs
// dry it falls back to the Fallback values, so a test can script only the
// draws it cares about.
type ScriptedRand struct {
	mu            sync.Mutex
	Floats        []float64
	Ints          []int
	FallbackFloat float64
	FallbackInt   int
}

// AlwaysBelow returns a source whose Float64 is always v, useful for forcing
// every probability gate open (v=0) or closed (v=1).
func AlwaysBelow(v float64) *ScriptedRand {
	return &ScriptedRand{FallbackFloat: v}
}

// Float64 implements host.RandomSource.
func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Floats) == 0 {
		return r.FallbackFloat
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

// IntN implements host.RandomSource.
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Ints) == 0 {
		if r.FallbackInt < n {
			return r.FallbackInt
		}
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}
