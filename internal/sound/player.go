// Package sound plays short synthesized clips for effect categories. Clips
// are generated once at startup; playback is fire-and-forget through one
// speaker mixer, overlapping freely. When the audio device cannot be
// initialized the player degrades to a silent no-op rather than failing the
// session.
package sound

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/dshills/keyburst/internal/host"
)

const clipSampleRate = beep.SampleRate(44100)

// variantsPerCategory is how many pitch variants each category gets; Play
// picks one at random so repeated keystrokes do not sound identical.
const variantsPerCategory = 3

var pitchVariants = [variantsPerCategory]float64{0.94, 1.0, 1.06}

// clipStreamer streams a mono sample buffer as stereo.
type clipStreamer struct {
	buf samples
	pos int
}

// Stream implements beep.Streamer.
func (c *clipStreamer) Stream(out [][2]float64) (int, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	n := 0
	for ; n < len(out) && c.pos < len(c.buf); n++ {
		v := c.buf[c.pos]
		out[n][0] = v
		out[n][1] = v
		c.pos++
	}
	return n, true
}

// Err implements beep.Streamer.
func (c *clipStreamer) Err() error { return nil }

// Player synthesizes and plays category clips.
type Player struct {
	mu      sync.Mutex
	enabled bool
	log     *zap.Logger
	clips   map[host.SoundCategory][]*beep.Buffer
}

// NewPlayer builds the clip set and opens the speaker. The returned error
// reports an unavailable audio backend; the player itself is still usable
// and simply no-ops.
func NewPlayer(log *zap.Logger) (*Player, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{log: log, clips: buildClips()}

	format := beep.Format{SampleRate: clipSampleRate, NumChannels: 2, Precision: 2}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
		return p, fmt.Errorf("init speaker: %w", err)
	}
	p.enabled = true
	return p, nil
}

// Play implements host.Sound. Silently no-ops without a backend.
func (p *Player) Play(category host.SoundCategory) {
	p.mu.Lock()
	enabled := p.enabled
	variants := p.clips[category]
	p.mu.Unlock()

	if !enabled || len(variants) == 0 {
		return
	}
	clip := variants[rand.IntN(len(variants))]
	speaker.Play(clip.Streamer(0, clip.Len()))
	p.log.Debug("playing clip", zap.String("category", category.String()))
}

// Close silences the player. Pending clips drain on their own.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// buildClips synthesizes every category at every pitch variant.
func buildClips() map[host.SoundCategory][]*beep.Buffer {
	out := make(map[host.SoundCategory][]*beep.Buffer, 4)
	for _, category := range []host.SoundCategory{host.SoundTyping, host.SoundDelete, host.SoundSave, host.SoundCombo} {
		for _, pitch := range pitchVariants {
			out[category] = append(out[category], toBuffer(generate(category, pitch)))
		}
	}
	return out
}

func toBuffer(buf samples) *beep.Buffer {
	format := beep.Format{SampleRate: clipSampleRate, NumChannels: 2, Precision: 2}
	b := beep.NewBuffer(format)
	b.Append(&clipStreamer{buf: buf})
	return b
}

// generate dispatches to the per-category synthesizer.
func generate(category host.SoundCategory, pitch float64) samples {
	switch category {
	case host.SoundTyping:
		return generateTyping(pitch)
	case host.SoundDelete:
		return generateDelete(pitch)
	case host.SoundSave:
		return generateSave(pitch)
	case host.SoundCombo:
		return generateCombo(pitch)
	default:
		return nil
	}
}

// generateTyping is a soft short blip.
func generateTyping(pitch float64) samples {
	buf := synth(waveSine, 880*pitch, ms(45), rand.Float64)
	envelope(buf, ms(4), ms(30))
	return buf.scaled(0.35)
}

// generateDelete layers a low saw growl with a noise burst.
func generateDelete(pitch float64) samples {
	growl := synth(waveSaw, 140*pitch, ms(130), rand.Float64)
	envelope(growl, ms(6), ms(90))
	hiss := synth(waveNoise, 0, ms(90), rand.Float64)
	envelope(hiss, ms(2), ms(80))
	return mix(growl, hiss, 0.4).scaled(0.5)
}

// generateSave is a bell: fundamental plus one overtone.
func generateSave(pitch float64) samples {
	fund := synth(waveSine, 660*pitch, ms(260), rand.Float64)
	envelope(fund, ms(4), ms(220))
	over := synth(waveSine, 1320*pitch, ms(260), rand.Float64)
	envelope(over, ms(4), ms(140))
	return mix(fund, over, 0.3/0.7).scaled(0.45)
}

// generateCombo is two rising square notes, coin style.
func generateCombo(pitch float64) samples {
	n1 := synth(waveSquare, 987.77*pitch, ms(80), rand.Float64)
	envelope(n1, ms(3), ms(40))
	n2 := synth(waveSquare, 1318.51*pitch, ms(160), rand.Float64)
	envelope(n2, ms(3), ms(120))
	return concat(n1, n2).scaled(0.3)
}
