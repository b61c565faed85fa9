// Package effects decides which visual primitives a trigger produces. The
// decision function is pure: given a trigger, the current combo/sequence
// state, a config snapshot, and a random source, it returns a declarative
// list of primitives for the session to play. All randomness and tuning
// thresholds live here so they can be exercised with a deterministic source.
package effects

import (
	"time"

	"github.com/dshills/keyburst/internal/host"
)

// Kind discriminates the primitive variants.
type Kind uint8

const (
	KindFlash Kind = iota
	KindShake
	KindBurst
	KindTrail
	KindFade
	KindGlyph
	KindRing
	KindGlow
	KindSound
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFlash:
		return "flash"
	case KindShake:
		return "shake"
	case KindBurst:
		return "particle-burst"
	case KindTrail:
		return "color-trail"
	case KindFade:
		return "fade-sequence"
	case KindGlyph:
		return "floating-glyph"
	case KindRing:
		return "expanding-ring"
	case KindGlow:
		return "glow"
	case KindSound:
		return "sound"
	default:
		return "unknown"
	}
}

// Primitive is one declarative effect instruction. Only the fields relevant
// to its Kind are populated.
type Primitive struct {
	Kind Kind

	// Offset anchors offset-based primitives; Center anchors bursts and
	// rings; Span covers glow decorations.
	Offset int
	Center int
	Span   host.Range

	// Flash and single-color primitives.
	Color    host.Color
	Duration time.Duration

	// Shake.
	Magnitude host.ShakeMagnitude

	// Burst: Count particles scattered within Spread offsets of Center,
	// each living a random duration in [MinLife, MaxLife), colored from
	// Palette.
	Count   int
	Spread  int
	MinLife time.Duration
	MaxLife time.Duration
	Palette []host.Color

	// Fade and glyph frames.
	Glyph      rune
	Steps      []host.Color
	StepDelay  time.Duration
	FrameCount int
	FrameDelay time.Duration

	// Stagger delays the whole primitive's start.
	Stagger time.Duration

	// Ring frames: one glyph per frame with per-frame delays.
	Frames      []rune
	FrameDelays []time.Duration

	// Glow: border/background pairs cycled every Tick.
	Pairs []GlowPair
	Tick  time.Duration

	// Sound.
	Category host.SoundCategory
}

// GlowPair is one step of the pulsing selection glow.
type GlowPair struct {
	Foreground host.Color
	Background host.Color
}

// Playback tuning. These shape how primitives unfold over time, not whether
// they fire.
const (
	TrailStepDelay   = 70 * time.Millisecond
	AfterimageDelay  = 60 * time.Millisecond
	PuffFrameDelay   = 90 * time.Millisecond
	PuffFrameCount   = 3
	SpiritFrameDelay = 110 * time.Millisecond
	SpiritFrameCount = 4
	SkullFrameDelay  = 140 * time.Millisecond
	SkullFrameCount  = 4
	SparkleStagger   = 35 * time.Millisecond
	SpiritStagger    = 80 * time.Millisecond
	GlowTick         = 180 * time.Millisecond
	FlashDuration    = 120 * time.Millisecond
	BurstMinLife     = 120 * time.Millisecond
	BurstMaxLife     = 480 * time.Millisecond
	BigBurstMaxLife  = 700 * time.Millisecond
)

func flash(color host.Color) Primitive {
	return Primitive{Kind: KindFlash, Color: color, Duration: FlashDuration}
}

func shake(m host.ShakeMagnitude) Primitive {
	return Primitive{Kind: KindShake, Magnitude: m}
}

func burst(center, count, spread int, palette []host.Color, maxLife time.Duration) Primitive {
	return Primitive{
		Kind:    KindBurst,
		Center:  center,
		Count:   count,
		Spread:  spread,
		MinLife: BurstMinLife,
		MaxLife: maxLife,
		Palette: palette,
	}
}

func trail(offset int, color host.Color) Primitive {
	return Primitive{Kind: KindTrail, Offset: offset, Color: color, StepDelay: TrailStepDelay}
}

func fade(offset int, steps []host.Color) Primitive {
	return Primitive{Kind: KindFade, Offset: offset, Steps: steps, StepDelay: AfterimageDelay}
}

func glyph(offset int, g rune, frames int, delay, stagger time.Duration) Primitive {
	return Primitive{
		Kind:       KindGlyph,
		Offset:     offset,
		Glyph:      g,
		FrameCount: frames,
		FrameDelay: delay,
		Stagger:    stagger,
	}
}

func ring(center int) Primitive {
	return Primitive{
		Kind:        KindRing,
		Center:      center,
		Frames:      ringFrames(),
		FrameDelays: ringDelays(),
	}
}

func glow(span host.Range) Primitive {
	return Primitive{Kind: KindGlow, Span: span, Pairs: glowPairs(), Tick: GlowTick}
}

func sound(category host.SoundCategory) Primitive {
	return Primitive{Kind: KindSound, Category: category}
}
