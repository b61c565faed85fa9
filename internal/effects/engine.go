package effects

import (
	"time"

	"github.com/dshills/keyburst/internal/config"
	"github.com/dshills/keyburst/internal/host"
)

// Vaporize tuning: deletions longer than vaporizeLen get the full bundle.
const (
	vaporizeLen    = 3
	secondSkullLen = 5
	maxVaporBurst  = 15
	maxSpirits     = 3
	bigBurstCount  = 20
	bigBurstSpread = 8
)

// Decide maps a trigger to the primitives it produces. Pure: the only
// nondeterminism comes from rng, and demo mode removes even that for the
// probability gates.
func Decide(trig Trigger, st State, cfg config.Intensity, rng host.RandomSource) []Primitive {
	switch trig.Kind {
	case TriggerTyping:
		return decideTyping(trig, st, cfg, rng)
	case TriggerDelete:
		return decideDelete(trig, cfg, rng)
	case TriggerSave:
		return decideSave(trig, cfg)
	case TriggerSelection:
		return decideSelection(trig, cfg, rng)
	case TriggerBonus:
		return decideBonus(trig, cfg)
	default:
		return nil
	}
}

// gate rolls a probability check. Demo mode always passes.
func gate(p float64, demo bool, rng host.RandomSource) bool {
	if demo {
		return true
	}
	return rng.Float64() < p
}

func decideTyping(trig Trigger, st State, cfg config.Intensity, rng host.RandomSource) []Primitive {
	var ps []Primitive

	// Baseline, never probabilistic: the color trail and the key puff.
	if cfg.EnableTrail {
		ps = append(ps, trail(trig.Offset, TrailColor(st.Seq)))
	}
	if cfg.EnableGlyphs {
		ps = append(ps, glyph(trig.Offset, trig.Rune, PuffFrameCount, PuffFrameDelay, 0))
	}

	// Newlines always ring.
	if trig.Rune == '\n' && cfg.EnableRings {
		ps = append(ps, ring(trig.Offset))
	}

	if cfg.EnableAfterimage && gate(0.7, cfg.Demo, rng) {
		ps = append(ps, fade(trig.Offset, FadeSteps(TrailColor(st.Seq), 4)))
	}

	if cfg.EnableParticles {
		ramp := st.Combo
		if ramp > 20 {
			ramp = 20
		}
		p := cfg.BaseProbability + 0.01*float64(ramp)
		if gate(p, cfg.Demo, rng) {
			ps = append(ps, burst(trig.Offset, 4+rng.IntN(4), 3, burstPalette, BurstMaxLife))
			if cfg.EnableShake && gate(0.5, cfg.Demo, rng) {
				ps = append(ps, shake(host.ShakeSmall))
			}
			if cfg.EnableSound && gate(0.3, cfg.Demo, rng) {
				ps = append(ps, sound(host.SoundTyping))
			}
		}
	}

	// Spirit and ring unlock as the combo grows. Demo mode fires them on a
	// fixed cadence instead of a dice roll.
	if cfg.EnableGlyphs && st.Combo > 5 {
		fire := gate(0.15, false, rng)
		if cfg.Demo {
			fire = st.Seq%3 == 0
		}
		if fire {
			ps = append(ps, glyph(trig.Offset, trig.Rune, SpiritFrameCount, SpiritFrameDelay, 0))
		}
	}
	if cfg.EnableRings && st.Combo > 15 {
		fire := gate(0.1, false, rng)
		if cfg.Demo {
			fire = st.Seq%5 == 0
		}
		if fire {
			ps = append(ps, ring(trig.Offset))
		}
	}

	return ps
}

func decideDelete(trig Trigger, cfg config.Intensity, rng host.RandomSource) []Primitive {
	var ps []Primitive
	n := len(trig.Deleted)
	start := trig.Offset

	if n > vaporizeLen {
		// The vaporize bundle: big deletions go out in style.
		ps = append(ps, flash(flashRed))
		if cfg.EnableShake {
			ps = append(ps, shake(host.ShakeBig))
		}
		if cfg.EnableParticles {
			count := n
			if count > maxVaporBurst {
				count = maxVaporBurst
			}
			ps = append(ps, burst(start, count, 4, firePalette, BurstMaxLife))
		}
		if cfg.EnableGlyphs {
			ps = append(ps, glyph(start, skullGlyph, SkullFrameCount, SkullFrameDelay, 0))
			if n > secondSkullLen {
				ps = append(ps, glyph(start+n-1, skullGlyph, SkullFrameCount, SkullFrameDelay, 0))
			}
			spirits := n
			if spirits > maxSpirits {
				spirits = maxSpirits
			}
			for i := 0; i < spirits; i++ {
				stagger := time.Duration(i+1) * SpiritStagger
				ps = append(ps, glyph(start+i, trig.Deleted[i], SpiritFrameCount, SpiritFrameDelay, stagger))
			}
		}
		if cfg.EnableSound {
			ps = append(ps, sound(host.SoundDelete))
		}
		return ps
	}

	// Small deletions get a toned-down send-off.
	if cfg.EnableGlyphs && gate(0.5, cfg.Demo, rng) {
		ps = append(ps, glyph(start, skullGlyph, SkullFrameCount, SkullFrameDelay, 0))
	}
	if cfg.EnableParticles {
		ps = append(ps, burst(start, 2+rng.IntN(3), 2, firePalette, BurstMaxLife))
	}
	if cfg.EnableShake && gate(0.2, cfg.Demo, rng) {
		ps = append(ps, shake(host.ShakeSmall))
	}
	return ps
}

func decideSave(trig Trigger, cfg config.Intensity) []Primitive {
	// Saves are rare enough to always be dramatic: no gating.
	var ps []Primitive
	if cfg.EnableParticles {
		ps = append(ps, burst(trig.Offset, bigBurstCount, bigBurstSpread, burstPalette, BigBurstMaxLife))
	}
	if cfg.EnableShake {
		ps = append(ps, shake(host.ShakeBig))
	}
	if cfg.EnableSound {
		ps = append(ps, sound(host.SoundSave))
	}
	return ps
}

func decideSelection(trig Trigger, cfg config.Intensity, rng host.RandomSource) []Primitive {
	var ps []Primitive
	span := trig.Span
	size := span.Len()
	if size <= 0 {
		return nil
	}

	if cfg.EnableGlyphs {
		count := size
		if count > cfg.SparkleCap {
			count = cfg.SparkleCap
		}
		step := size / count
		if step < 1 {
			step = 1
		}
		for i := 0; i < count; i++ {
			offset := span.Start + i*step
			if offset >= span.End {
				break
			}
			g := sparkleGlyphs[i%len(sparkleGlyphs)]
			stagger := time.Duration(i) * SparkleStagger
			ps = append(ps, glyph(offset, g, SpiritFrameCount, SpiritFrameDelay, stagger))
		}
	}

	if cfg.EnableGlow {
		ps = append(ps, glow(span))
	}

	if cfg.EnableSound && gate(0.3, cfg.Demo, rng) {
		ps = append(ps, sound(host.SoundTyping))
	}
	return ps
}

func decideBonus(trig Trigger, cfg config.Intensity) []Primitive {
	// The celebration bundle; the session defers it until the triggering
	// edit has completed.
	var ps []Primitive
	ps = append(ps, flash(flashYellow))
	if cfg.EnableRings {
		ps = append(ps, ring(trig.Offset))
	}
	if cfg.EnableGlyphs {
		for i := 0; i < 3; i++ {
			g := celebrationGlyphs[i%len(celebrationGlyphs)]
			stagger := time.Duration(i) * SpiritStagger
			ps = append(ps, glyph(trig.Offset+i, g, SpiritFrameCount, SpiritFrameDelay, stagger))
		}
	}
	if cfg.EnableParticles {
		ps = append(ps, burst(trig.Offset, bigBurstCount, bigBurstSpread, burstPalette, BigBurstMaxLife))
	}
	if cfg.EnableShake {
		ps = append(ps, shake(host.ShakeBig))
	}
	if cfg.EnableSound {
		ps = append(ps, sound(host.SoundCombo))
	}
	return ps
}
