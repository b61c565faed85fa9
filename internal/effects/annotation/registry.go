// Package annotation owns the lifecycle of transient visual markers. Every
// live annotation is tracked so it can be swept on buffer teardown or mode
// disable, and every timer an annotation depends on is cancelled with it.
// The registry is the leak boundary of the effects system.
package annotation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/keyburst/internal/host"
)

// ID is the opaque handle returned by Spawn.
type ID string

// NoopID is returned when a spawn degraded to a no-op (empty or
// out-of-bounds range). Restyle and Remove accept it safely.
const NoopID ID = ""

type entry struct {
	docHandle host.AnnotationHandle
	removal   host.TimerHandle
	frames    []host.TimerHandle
}

// Registry tracks live annotations for one editing session.
type Registry struct {
	mu    sync.Mutex
	doc   host.Document
	timer host.Timer
	log   *zap.Logger
	live  map[ID]*entry
}

// NewRegistry creates an empty registry. log may be nil.
func NewRegistry(doc host.Document, timer host.Timer, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		doc:   doc,
		timer: timer,
		log:   log,
		live:  make(map[ID]*entry),
	}
}

// Spawn creates an annotation over r, clamped to the current document
// bounds, and schedules its removal after ttl. If the clamped range is empty
// the spawn silently degrades to a no-op and returns NoopID.
func (r *Registry) Spawn(rng host.Range, content host.Content, style host.Style, priority int, ttl time.Duration) ID {
	clamped := host.Range{
		Start: r.doc.Clamp(rng.Start),
		End:   r.doc.Clamp(rng.End),
	}
	if clamped.IsEmpty() {
		return NoopID
	}

	h := r.doc.Annotate(clamped, content, style, priority)
	if h == host.NoAnnotation {
		return NoopID
	}

	id := ID(uuid.NewString())

	r.mu.Lock()
	e := &entry{docHandle: h}
	r.live[id] = e
	e.removal = r.timer.Schedule(ttl, func() {
		r.expire(id)
	})
	r.mu.Unlock()

	return id
}

// expire is the scheduled-removal callback. The liveness check makes a late
// firing against an already-removed annotation a no-op.
func (r *Registry) expire(id ID) {
	r.mu.Lock()
	e, ok := r.live[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.live, id)
	for _, f := range e.frames {
		r.timer.Cancel(f)
	}
	r.mu.Unlock()

	r.doc.RemoveAnnotation(e.docHandle)
}

// Restyle replaces the content and style of a live annotation. A no-op once
// the annotation expired, which makes late-arriving frame callbacks safe.
func (r *Registry) Restyle(id ID, content host.Content, style host.Style) {
	r.mu.Lock()
	e, ok := r.live[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	r.doc.UpdateAnnotation(e.docHandle, content, style)
}

// ScheduleRestyle restyles the annotation after the delay. The frame timer
// is owned by the annotation: removal or sweep cancels it, and a frame that
// fires anyway hits the Restyle liveness check and does nothing.
func (r *Registry) ScheduleRestyle(id ID, delay time.Duration, content host.Content, style host.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live[id]
	if !ok {
		return
	}
	h := r.timer.Schedule(delay, func() {
		r.Restyle(id, content, style)
	})
	e.frames = append(e.frames, h)
}

// Remove deletes the annotation and cancels its timers. Idempotent.
func (r *Registry) Remove(id ID) {
	r.mu.Lock()
	e, ok := r.live[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.live, id)
	r.timer.Cancel(e.removal)
	for _, f := range e.frames {
		r.timer.Cancel(f)
	}
	r.mu.Unlock()

	r.doc.RemoveAnnotation(e.docHandle)
}

// SweepAll removes every live annotation and cancels every pending timer.
// Called on buffer teardown or mode disable; afterwards the registry holds
// zero live annotations and zero pending timers. Safe to call repeatedly.
func (r *Registry) SweepAll() {
	r.mu.Lock()
	swept := r.live
	r.live = make(map[ID]*entry)
	for _, e := range swept {
		r.timer.Cancel(e.removal)
		for _, f := range e.frames {
			r.timer.Cancel(f)
		}
	}
	r.mu.Unlock()

	for _, e := range swept {
		r.doc.RemoveAnnotation(e.docHandle)
	}
	if len(swept) > 0 {
		r.log.Debug("swept annotations", zap.Int("count", len(swept)))
	}
}

// Len returns the number of live annotations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
