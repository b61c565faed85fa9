// Package session wires the effects core together for one open document.
// A Session owns the annotation registry, the combo machine, and the region
// detector, and is passed explicitly into every handler; there is no
// ambient per-buffer state. All entry points are cheap and never block the
// editing operation that triggered them.
package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/keyburst/internal/config"
	"github.com/dshills/keyburst/internal/effects"
	"github.com/dshills/keyburst/internal/effects/annotation"
	"github.com/dshills/keyburst/internal/effects/combo"
	"github.com/dshills/keyburst/internal/effects/region"
	"github.com/dshills/keyburst/internal/host"
)

// ConfigSource yields the intensity snapshot read once per triggering
// action. *config.Store satisfies it.
type ConfigSource interface {
	Snapshot() config.Intensity
}

// Options configures a Session. Document and Timer are required; the rest
// default to inert implementations.
type Options struct {
	Document host.Document
	Timer    host.Timer
	Screen   host.Screen
	Sound    host.Sound
	Random   host.RandomSource
	Config   ConfigSource
	Log      *zap.Logger
}

var (
	// ErrNoDocument is returned when Options.Document is nil.
	ErrNoDocument = errors.New("session: document required")

	// ErrNoTimer is returned when Options.Timer is nil.
	ErrNoTimer = errors.New("session: timer required")
)

// bonusDeferDelay postpones the combo celebration until the triggering edit
// has completed.
const bonusDeferDelay = time.Millisecond

// glowBackstopTTL bounds the life of a glow annotation in case teardown
// never arrives.
const glowBackstopTTL = 30 * time.Second

// nopScreen drops viewport effects when no screen backend exists.
type nopScreen struct{}

func (nopScreen) Flash(host.Color, time.Duration) {}
func (nopScreen) Shake(host.ShakeMagnitude)       {}

type pulseState struct {
	epoch   uint64
	id      annotation.ID
	tick    host.TimerHandle
	pairs   []effects.GlowPair
	pairIdx int
	delay   time.Duration
}

// Session is the per-document effects coordinator.
type Session struct {
	mu     sync.Mutex
	doc    host.Document
	screen host.Screen
	sound  host.Sound
	timer  host.Timer
	rng    host.RandomSource
	cfg    ConfigSource
	log    *zap.Logger

	reg    *annotation.Registry
	combo  *combo.Machine
	region *region.Detector

	enabled      bool
	seq          int
	pendingBonus int

	// pending tracks session-owned delayed callbacks (staggered spawns,
	// the deferred bonus, the glow pulse) so Disable can cancel them all.
	pending map[host.TimerHandle]struct{}

	pulse pulseState
}

// New creates an enabled session.
func New(opts Options) (*Session, error) {
	if opts.Document == nil {
		return nil, ErrNoDocument
	}
	if opts.Timer == nil {
		return nil, ErrNoTimer
	}
	if opts.Screen == nil {
		opts.Screen = nopScreen{}
	}
	if opts.Sound == nil {
		opts.Sound = host.NopSound{}
	}
	if opts.Random == nil {
		opts.Random = host.Rand{}
	}
	if opts.Config == nil {
		opts.Config = config.NewStore(config.Default())
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	s := &Session{
		doc:     opts.Document,
		screen:  opts.Screen,
		sound:   opts.Sound,
		timer:   opts.Timer,
		rng:     opts.Random,
		cfg:     opts.Config,
		log:     opts.Log,
		region:  region.NewDetector(),
		enabled: true,
		pending: make(map[host.TimerHandle]struct{}),
	}
	s.reg = annotation.NewRegistry(opts.Document, opts.Timer, opts.Log)
	// The bonus callback runs synchronously inside RecordAction, which the
	// session only calls while holding its own lock; it must not re-lock.
	s.combo = combo.NewMachine(opts.Timer, func(b combo.Bonus) {
		s.pendingBonus = b.Count
	})
	return s, nil
}

// Enable turns effect emission back on after a Disable.
func (s *Session) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
}

// Disable stops effect emission and tears everything down: pending
// session callbacks are cancelled, the combo timeout is cancelled, every
// annotation is swept with its timers, and the region state is forgotten.
// Afterwards zero callbacks remain outstanding. Idempotent.
func (s *Session) Disable() {
	s.mu.Lock()
	s.enabled = false
	for h := range s.pending {
		s.timer.Cancel(h)
	}
	clear(s.pending)
	s.pulse = pulseState{epoch: s.pulse.epoch + 1}
	s.pendingBonus = 0
	s.mu.Unlock()

	s.combo.Reset()
	s.reg.SweepAll()

	s.mu.Lock()
	s.region.Reset()
	s.mu.Unlock()

	s.log.Debug("session disabled")
}

// Enabled reports whether effects are being emitted.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// KeyTyped fires the typing effects for one just-typed character.
func (s *Session) KeyTyped(offset int, r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	cfg := s.cfg.Snapshot()
	s.seq++
	count := s.combo.RecordAction(cfg.ComboThreshold, cfg.ComboTimeout)
	st := effects.State{Combo: count, Seq: s.seq}
	s.playLocked(effects.Decide(effects.Typing(offset, r), st, cfg, s.rng))
	s.deferBonusLocked(offset)
}

// TextDeleted fires the deletion effects for text removed at offset.
func (s *Session) TextDeleted(offset int, deleted string) {
	if deleted == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	cfg := s.cfg.Snapshot()
	s.seq++
	count := s.combo.RecordAction(cfg.ComboThreshold, cfg.ComboTimeout)
	st := effects.State{Combo: count, Seq: s.seq}
	s.playLocked(effects.Decide(effects.Deletion(offset, deleted), st, cfg, s.rng))
	s.deferBonusLocked(offset)
}

// Saved fires the save celebration, anchored at the cursor.
func (s *Session) Saved(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	cfg := s.cfg.Snapshot()
	st := effects.State{Combo: s.combo.Count(), Seq: s.seq}
	s.playLocked(effects.Decide(effects.Save(offset), st, cfg, s.rng))
}

// SelectionChanged consumes the post-command selection state. Activation
// and large growth fire the sparkle/glow bundle; clearing tears it down.
func (s *Session) SelectionChanged(active bool, span host.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	cfg := s.cfg.Snapshot()
	switch s.region.Check(active, span, cfg.SelectionRefire) {
	case region.EventActivate, region.EventRefire:
		s.stopGlowLocked()
		st := effects.State{Combo: s.combo.Count(), Seq: s.seq}
		s.playLocked(effects.Decide(effects.Selection(span), st, cfg, s.rng))
	case region.EventDeactivate:
		s.stopGlowLocked()
	}
}

// ComboCount returns the current streak length.
func (s *Session) ComboCount() int {
	return s.combo.Count()
}

// LiveAnnotations returns the number of annotations currently on screen.
func (s *Session) LiveAnnotations() int {
	return s.reg.Len()
}

// deferBonusLocked schedules the celebration bundle recorded by the combo
// callback, if any, to run after the triggering edit completes.
func (s *Session) deferBonusLocked(offset int) {
	if s.pendingBonus == 0 {
		return
	}
	count := s.pendingBonus
	s.pendingBonus = 0
	s.log.Debug("combo bonus reached", zap.Int("count", count))
	s.after(bonusDeferDelay, func() {
		s.playBonus(count, offset)
	})
}

// playBonus runs outside the lock of the triggering edit.
func (s *Session) playBonus(count, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	cfg := s.cfg.Snapshot()
	st := effects.State{Combo: s.combo.Count(), Seq: s.seq}
	s.playLocked(effects.Decide(effects.BonusTrigger(count, offset), st, cfg, s.rng))
}

// after schedules a session-owned callback. Must be called with s.mu held;
// the callback runs without the lock, only if the session is still enabled
// and the handle was not cancelled.
func (s *Session) after(d time.Duration, fn func()) host.TimerHandle {
	var h host.TimerHandle
	h = s.timer.Schedule(d, func() {
		s.mu.Lock()
		if _, ok := s.pending[h]; !ok {
			s.mu.Unlock()
			return
		}
		delete(s.pending, h)
		alive := s.enabled
		s.mu.Unlock()
		if alive {
			fn()
		}
	})
	s.pending[h] = struct{}{}
	return h
}
