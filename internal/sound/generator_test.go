package sound

import (
	"math"
	"testing"

	"github.com/dshills/keyburst/internal/host"
)

func fixedRoll() float64 { return 0.5 }

func TestSynthDeterministic(t *testing.T) {
	a := synth(waveSine, 440, ms(50), fixedRoll)
	b := synth(waveSine, 440, ms(50), fixedRoll)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSynthBounded(t *testing.T) {
	for wave, name := range map[int]string{
		waveSine:   "sine",
		waveSquare: "square",
		waveSaw:    "saw",
		waveNoise:  "noise",
	} {
		buf := synth(wave, 440, ms(20), fixedRoll)
		for i, v := range buf {
			if math.Abs(v) > 1.0 {
				t.Errorf("%s sample %d = %v, out of unity range", name, i, v)
				break
			}
		}
	}
}

func TestEnvelopeRampsToZero(t *testing.T) {
	buf := make(samples, 100)
	for i := range buf {
		buf[i] = 1.0
	}
	envelope(buf, 10, 20)

	if buf[0] != 0 {
		t.Errorf("attack start = %v, want 0", buf[0])
	}
	if buf[50] != 1.0 {
		t.Errorf("sustain = %v, want 1", buf[50])
	}
	if buf[99] >= buf[80] {
		t.Errorf("release not falling: %v.. %v", buf[80], buf[99])
	}
}

func TestMixExtends(t *testing.T) {
	a := samples{1, 1}
	b := samples{1, 1, 1, 1}
	got := mix(a, b, 0.5)

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0] != 1.5 || got[3] != 0.5 {
		t.Errorf("mix = %v", got)
	}
}

func TestConcat(t *testing.T) {
	got := concat(samples{1}, samples{2, 3})
	want := samples{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("concat = %v, want %v", got, want)
		}
	}
}

func TestGenerateEveryCategory(t *testing.T) {
	categories := []host.SoundCategory{host.SoundTyping, host.SoundDelete, host.SoundSave, host.SoundCombo}
	for _, category := range categories {
		for _, pitch := range pitchVariants {
			buf := generate(category, pitch)
			if len(buf) == 0 {
				t.Errorf("generate(%v, %v) produced no samples", category, pitch)
				continue
			}
			for i, v := range buf {
				if math.Abs(v) > 1.0 {
					t.Errorf("generate(%v, %v) sample %d = %v clips", category, pitch, i, v)
					break
				}
			}
		}
	}
}

func TestBuildClips(t *testing.T) {
	clips := buildClips()
	if len(clips) != 4 {
		t.Fatalf("len(clips) = %d, want 4 categories", len(clips))
	}
	for category, variants := range clips {
		if len(variants) != variantsPerCategory {
			t.Errorf("%v has %d variants, want %d", category, len(variants), variantsPerCategory)
		}
		for _, b := range variants {
			if b.Len() == 0 {
				t.Errorf("%v clip is empty", category)
			}
		}
	}
}

func TestClipStreamerDrains(t *testing.T) {
	s := &clipStreamer{buf: samples{0.1, 0.2, 0.3}}
	out := make([][2]float64, 2)

	n, ok := s.Stream(out)
	if n != 2 || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	if out[0][0] != 0.1 || out[0][1] != 0.1 {
		t.Errorf("mono not duplicated to stereo: %v", out[0])
	}

	n, ok = s.Stream(out)
	if n != 1 || !ok {
		t.Fatalf("second Stream() = %d, %v", n, ok)
	}
	n, ok = s.Stream(out)
	if n != 0 || ok {
		t.Fatalf("drained Stream() = %d, %v", n, ok)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}
