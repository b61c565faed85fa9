package session

import (
	"time"

	"github.com/dshills/keyburst/internal/effects"
	"github.com/dshills/keyburst/internal/effects/annotation"
	"github.com/dshills/keyburst/internal/host"
)

// Render priorities; higher draws on top when annotations overlap.
const (
	priorityGlow     = 10
	priorityTrail    = 40
	priorityFade     = 45
	priorityParticle = 50
	priorityGlyph    = 60
	priorityRing     = 70
)

// spiritWhite seeds the fade ramp of floating glyphs.
var spiritWhite = host.ColorFromRGB(250, 250, 250)

// playLocked executes a decided primitive list in order. Each spawn is
// best-effort: out-of-bounds offsets degrade to no-op handles inside the
// registry, and nothing here blocks or reports failure back to the edit.
// Must be called with s.mu held.
func (s *Session) playLocked(ps []effects.Primitive) {
	for _, p := range ps {
		switch p.Kind {
		case effects.KindFlash:
			s.screen.Flash(p.Color, p.Duration)
		case effects.KindShake:
			s.screen.Shake(p.Magnitude)
		case effects.KindSound:
			s.sound.Play(p.Category)
		case effects.KindTrail:
			s.playTrailLocked(p)
		case effects.KindFade:
			s.playFadeLocked(p)
		case effects.KindGlyph:
			if p.Stagger > 0 {
				// Capture the primitive by value; each staggered spawn
				// gets its own copy, never a shared loop variable.
				prim := p
				s.after(p.Stagger, func() {
					s.mu.Lock()
					defer s.mu.Unlock()
					if s.enabled {
						s.playGlyphLocked(prim)
					}
				})
			} else {
				s.playGlyphLocked(p)
			}
		case effects.KindRing:
			s.playRingLocked(p)
		case effects.KindBurst:
			s.playBurstLocked(p)
		case effects.KindGlow:
			s.startGlowLocked(p)
		}
	}
}

// playTrailLocked colors the typed cell and fades it out through restyles
// of the same annotation.
func (s *Session) playTrailLocked(p effects.Primitive) {
	steps := effects.FadeSteps(p.Color, 3)
	ttl := p.StepDelay * time.Duration(len(steps)+1)
	style := host.DefaultStyle().WithForeground(p.Color)
	style.Bold = true

	id := s.reg.Spawn(cellAt(p.Offset), host.StyleOnly(), style, priorityTrail, ttl)
	for i, c := range steps {
		step := host.DefaultStyle().WithForeground(c)
		s.reg.ScheduleRestyle(id, p.StepDelay*time.Duration(i+1), host.StyleOnly(), step)
	}
}

// playFadeLocked runs an afterimage: sequential style replacements on one
// annotation, not new entities per frame.
func (s *Session) playFadeLocked(p effects.Primitive) {
	if len(p.Steps) == 0 {
		return
	}
	ttl := p.StepDelay * time.Duration(len(p.Steps)+1)
	first := host.DefaultStyle().WithForeground(p.Steps[0])

	id := s.reg.Spawn(cellAt(p.Offset), host.StyleOnly(), first, priorityFade, ttl)
	for i := 1; i < len(p.Steps); i++ {
		step := host.DefaultStyle().WithForeground(p.Steps[i])
		s.reg.ScheduleRestyle(id, p.StepDelay*time.Duration(i), host.StyleOnly(), step)
	}
}

// playGlyphLocked floats a glyph at the offset, dimming frame by frame.
func (s *Session) playGlyphLocked(p effects.Primitive) {
	if p.FrameCount < 1 {
		return
	}
	ttl := p.FrameDelay * time.Duration(p.FrameCount+1)
	ramp := effects.FadeSteps(spiritWhite, p.FrameCount)
	content := host.Append(string(p.Glyph))

	style := host.DefaultStyle().WithForeground(ramp[0])
	style.Bold = true
	id := s.reg.Spawn(cellAt(p.Offset), content, style, priorityGlyph, ttl)
	for i := 1; i < len(ramp); i++ {
		frame := host.DefaultStyle().WithForeground(ramp[i])
		frame.Dim = i >= len(ramp)/2
		s.reg.ScheduleRestyle(id, p.FrameDelay*time.Duration(i), content, frame)
	}
}

// playRingLocked animates the expanding ring glyph sequence in place.
func (s *Session) playRingLocked(p effects.Primitive) {
	if len(p.Frames) == 0 {
		return
	}
	style := host.DefaultStyle().WithForeground(host.ColorFromRGB(255, 216, 102))
	style.Bold = true

	var total time.Duration
	for _, d := range p.FrameDelays {
		total += d
	}
	ttl := total + 150*time.Millisecond

	id := s.reg.Spawn(cellAt(p.Center), host.Append(string(p.Frames[0])), style, priorityRing, ttl)
	elapsed := time.Duration(0)
	for i := 1; i < len(p.Frames); i++ {
		if i < len(p.FrameDelays) {
			elapsed += p.FrameDelays[i]
		} else {
			elapsed += effects.PuffFrameDelay
		}
		s.reg.ScheduleRestyle(id, elapsed, host.Append(string(p.Frames[i])), style)
	}
}

// playBurstLocked scatters short-lived particles around the center. Every
// particle owns its randomized offset, color, and lifetime.
func (s *Session) playBurstLocked(p effects.Primitive) {
	if p.Count < 1 || len(p.Palette) == 0 {
		return
	}
	lifeSpread := int(p.MaxLife - p.MinLife)
	for i := 0; i < p.Count; i++ {
		offset := p.Center
		if p.Spread > 0 {
			offset += s.rng.IntN(2*p.Spread+1) - p.Spread
		}
		life := p.MinLife
		if lifeSpread > 0 {
			life += time.Duration(s.rng.IntN(lifeSpread))
		}
		style := host.DefaultStyle().WithForeground(p.Palette[s.rng.IntN(len(p.Palette))])
		content := host.Append(string(effects.ParticleGlyph(s.rng.IntN(8))))
		s.reg.Spawn(cellAt(offset), content, style, priorityParticle, life)
	}
}

// startGlowLocked begins (or restarts) the pulsing selection glow.
func (s *Session) startGlowLocked(p effects.Primitive) {
	s.stopGlowLocked()
	if len(p.Pairs) == 0 || p.Span.IsEmpty() {
		return
	}

	style := glowStyle(p.Pairs[0])
	id := s.reg.Spawn(p.Span, host.StyleOnly(), style, priorityGlow, glowBackstopTTL)
	if id == annotation.NoopID {
		return
	}

	s.pulse.epoch++
	s.pulse.id = id
	s.pulse.pairs = p.Pairs
	s.pulse.pairIdx = 0
	s.pulse.delay = p.Tick
	epoch := s.pulse.epoch
	s.pulse.tick = s.after(p.Tick, func() {
		s.pulseTick(epoch)
	})
}

// pulseTick advances the glow one color pair and reschedules itself. The
// epoch guard drops ticks that outlived their glow.
func (s *Session) pulseTick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || epoch != s.pulse.epoch || s.pulse.id == annotation.NoopID {
		return
	}
	s.pulse.pairIdx++
	pair := s.pulse.pairs[s.pulse.pairIdx%len(s.pulse.pairs)]
	s.reg.Restyle(s.pulse.id, host.StyleOnly(), glowStyle(pair))
	s.pulse.tick = s.after(s.pulse.delay, func() {
		s.pulseTick(epoch)
	})
}

// glowStyle maps one glow pair onto a concrete style.
func glowStyle(pair effects.GlowPair) host.Style {
	return host.DefaultStyle().WithForeground(pair.Foreground).WithBackground(pair.Background)
}

// stopGlowLocked tears down the glow annotation and its pulse tick.
func (s *Session) stopGlowLocked() {
	if s.pulse.tick != host.NoTimer {
		s.timer.Cancel(s.pulse.tick)
		delete(s.pending, s.pulse.tick)
	}
	if s.pulse.id != annotation.NoopID {
		s.reg.Remove(s.pulse.id)
	}
	s.pulse = pulseState{epoch: s.pulse.epoch + 1}
}

// cellAt is the single-cell range covering one offset.
func cellAt(offset int) host.Range {
	return host.Range{Start: offset, End: offset + 1}
}
