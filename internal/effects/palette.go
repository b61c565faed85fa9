package effects

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keyburst/internal/host"
)

// Glyph sets.
const skullGlyph = '☠'

var (
	sparkleGlyphs     = []rune{'✦', '✧', '·', '＊'}
	celebrationGlyphs = []rune{'★', '✸', '♪'}
	particleGlyphs    = []rune{'•', '∘', '·'}
)

// ParticleGlyph returns a burst particle glyph for the index, wrapping.
func ParticleGlyph(n int) rune {
	if n < 0 {
		n = -n
	}
	return particleGlyphs[n%len(particleGlyphs)]
}

// ringFrames returns the glyph sequence of one expanding ring, smallest
// first.
func ringFrames() []rune {
	return []rune{'·', 'o', 'O', '◯'}
}

// ringDelays returns the per-frame delays matching ringFrames.
func ringDelays() []time.Duration {
	return []time.Duration{0, 70 * time.Millisecond, 70 * time.Millisecond, 90 * time.Millisecond}
}

func mustHex(s string) host.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return host.ColorDefault
	}
	r, g, b := c.RGB255()
	return host.ColorFromRGB(r, g, b)
}

// trailPalette is the fixed round-robin palette of the typing color trail.
var trailPalette = []host.Color{
	mustHex("#ff6188"),
	mustHex("#fc9867"),
	mustHex("#ffd866"),
	mustHex("#a9dc76"),
	mustHex("#78dce8"),
	mustHex("#ab9df2"),
}

// TrailColor returns the palette entry for the given action sequence
// number, wrapping round-robin.
func TrailColor(seq int) host.Color {
	if seq < 0 {
		seq = -seq
	}
	return trailPalette[seq%len(trailPalette)]
}

// firePalette colors deletion particles.
var firePalette = []host.Color{
	mustHex("#ff4d00"),
	mustHex("#ff8c00"),
	mustHex("#ffc400"),
	mustHex("#ff1e00"),
}

// burstPalette colors typing and save particles.
var burstPalette = []host.Color{
	mustHex("#ffd866"),
	mustHex("#78dce8"),
	mustHex("#ff6188"),
	mustHex("#a9dc76"),
}

var (
	flashRed    = mustHex("#d93025")
	flashYellow = mustHex("#ffd866")
)

// FadeSteps interpolates n colors from c toward darkness, the afterimage
// ramp. Blending happens in Luv space so the fade stays perceptually even.
func FadeSteps(c host.Color, n int) []host.Color {
	if n < 1 {
		return nil
	}
	r, g, b := c.RGB()
	from := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	to := colorful.Color{R: 0.08, G: 0.08, B: 0.1}

	steps := make([]host.Color, n)
	for i := 0; i < n; i++ {
		t := float64(i+1) / float64(n)
		br, bg, bb := from.BlendLuv(to, t).Clamped().RGB255()
		steps[i] = host.ColorFromRGB(br, bg, bb)
	}
	return steps
}

// glowPairs returns the fixed border/background cycle of the selection
// glow.
func glowPairs() []GlowPair {
	return []GlowPair{
		{Foreground: mustHex("#78dce8"), Background: mustHex("#143c46")},
		{Foreground: mustHex("#ab9df2"), Background: mustHex("#2b2440")},
		{Foreground: mustHex("#ffd866"), Background: mustHex("#46400f")},
	}
}
