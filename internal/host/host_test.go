package host

import "testing"

func TestRange(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		length   int
		empty    bool
		contains map[int]bool
	}{
		{
			name:     "normal",
			r:        Range{Start: 2, End: 5},
			length:   3,
			contains: map[int]bool{1: false, 2: true, 4: true, 5: false},
		},
		{
			name:     "empty",
			r:        Range{Start: 3, End: 3},
			length:   0,
			empty:    true,
			contains: map[int]bool{3: false},
		},
		{
			name:     "inverted",
			r:        Range{Start: 5, End: 2},
			length:   0,
			empty:    true,
			contains: map[int]bool{3: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.length {
				t.Errorf("Len() = %d, want %d", got, tt.length)
			}
			if got := tt.r.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			for offset, want := range tt.contains {
				if got := tt.r.Contains(offset); got != want {
					t.Errorf("Contains(%d) = %v, want %v", offset, got, want)
				}
			}
		})
	}
}

func TestColorRGB(t *testing.T) {
	c := ColorFromRGB(0x12, 0x34, 0x56)
	r, g, b := c.RGB()
	if r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("RGB() = %x %x %x", r, g, b)
	}
	if c == ColorDefault {
		t.Error("real color equals ColorDefault")
	}
}

func TestStyleBuilders(t *testing.T) {
	s := DefaultStyle()
	if s.Foreground != ColorDefault || s.Background != ColorDefault {
		t.Errorf("DefaultStyle() = %+v, want default colors", s)
	}

	red := ColorFromRGB(255, 0, 0)
	s2 := s.WithForeground(red)
	if s2.Foreground != red {
		t.Errorf("WithForeground Foreground = %v", s2.Foreground)
	}
	if s.Foreground != ColorDefault {
		t.Error("WithForeground mutated the receiver")
	}
}

func TestContentHelpers(t *testing.T) {
	if got := StyleOnly(); got.Kind != ContentStyleOnly || got.Text != "" {
		t.Errorf("StyleOnly() = %+v", got)
	}
	if got := Replace("ab"); got.Kind != ContentReplace || got.Text != "ab" {
		t.Errorf("Replace() = %+v", got)
	}
	if got := Append("✦"); got.Kind != ContentAppend || got.Text != "✦" {
		t.Errorf("Append() = %+v", got)
	}
}

func TestRandInRange(t *testing.T) {
	var r Rand
	for i := 0; i < 100; i++ {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v", v)
		}
		if v := r.IntN(7); v < 0 || v >= 7 {
			t.Fatalf("IntN(7) = %v", v)
		}
	}
}
