package sound

import (
	"math"
)

// Waveforms for clip synthesis.
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// samples is mono float64 audio at unity gain.
type samples []float64

// synth generates count samples of the waveform at freq. Noise ignores
// freq and uses the provided roll function so synthesis stays
// deterministic under test.
func synth(wave int, freq float64, count int, roll func() float64) samples {
	buf := make(samples, count)
	phase := 0.0
	phaseInc := freq / float64(clipSampleRate)

	for i := 0; i < count; i++ {
		switch wave {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case waveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case waveNoise:
			buf[i] = roll()*2 - 1
		}
		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// envelope applies a linear attack/release ramp in place.
func envelope(buf samples, attack, release int) {
	total := len(buf)
	releaseStart := total - release
	if releaseStart < attack {
		releaseStart = attack
	}
	for i := range buf {
		vol := 1.0
		if i < attack && attack > 0 {
			vol = float64(i) / float64(attack)
		} else if i >= releaseStart && release > 0 {
			vol = float64(total-i) / float64(release)
		}
		buf[i] *= vol
	}
}

// mix adds b into a, scaled, extending a if b is longer.
func mix(a, b samples, scale float64) samples {
	if len(b) > len(a) {
		grown := make(samples, len(b))
		copy(grown, a)
		a = grown
	}
	for i := range b {
		a[i] += b[i] * scale
	}
	return a
}

// concat appends b after a.
func concat(a, b samples) samples {
	out := make(samples, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}

// scaled multiplies every sample by gain in place and returns buf.
func (buf samples) scaled(gain float64) samples {
	for i := range buf {
		buf[i] *= gain
	}
	return buf
}

// ms converts milliseconds to a sample count.
func ms(d float64) int {
	return int(d / 1000.0 * float64(clipSampleRate))
}
