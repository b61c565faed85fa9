// Package term renders a document buffer with its composited annotations
// onto a tcell screen and implements the viewport-level host.Screen
// effects: flash is a temporary background tint, shake is a jittered draw
// origin for a few frames.
package term

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyburst/internal/document"
	"github.com/dshills/keyburst/internal/host"
)

const (
	shakeFrameDelay = 30 * time.Millisecond
	smallShakeSteps = 4
	bigShakeSteps   = 7
)

// Display draws one buffer and carries the transient viewport state.
type Display struct {
	mu     sync.Mutex
	screen tcell.Screen
	buf    *document.Buffer
	timer  host.Timer

	flashColor  host.Color
	flashActive bool
	flashCancel host.TimerHandle

	jitterX int
	jitterY int
}

// NewDisplay wraps an initialized tcell screen.
func NewDisplay(screen tcell.Screen, buf *document.Buffer, timer host.Timer) *Display {
	return &Display{screen: screen, buf: buf, timer: timer, flashColor: host.ColorDefault}
}

// Flash implements host.Screen: tint the viewport for the duration.
func (d *Display) Flash(color host.Color, dur time.Duration) {
	d.mu.Lock()
	if d.flashCancel != host.NoTimer {
		d.timer.Cancel(d.flashCancel)
	}
	d.flashActive = true
	d.flashColor = color
	d.flashCancel = d.timer.Schedule(dur, func() {
		d.mu.Lock()
		d.flashActive = false
		d.flashCancel = host.NoTimer
		d.mu.Unlock()
	})
	d.mu.Unlock()
}

// Shake implements host.Screen: jitter the draw origin over a few frames,
// each frame scheduled with its own captured step index.
func (d *Display) Shake(m host.ShakeMagnitude) {
	steps := smallShakeSteps
	amp := 1
	if m == host.ShakeBig {
		steps = bigShakeSteps
		amp = 2
	}
	for i := 0; i < steps; i++ {
		last := i == steps-1
		d.timer.Schedule(time.Duration(i)*shakeFrameDelay, func() {
			d.mu.Lock()
			if last {
				d.jitterX, d.jitterY = 0, 0
			} else {
				d.jitterX = rand.IntN(2*amp+1) - amp
				d.jitterY = rand.IntN(2*amp+1) - amp
			}
			d.mu.Unlock()
		})
	}
}

// Render draws the buffer, its annotations, the cursor, and a status line.
func (d *Display) Render(cursor int, status string) {
	d.mu.Lock()
	jx, jy := d.jitterX, d.jitterY
	flashActive, flashColor := d.flashActive, d.flashColor
	d.mu.Unlock()

	d.screen.Clear()
	width, height := d.screen.Size()

	base := tcell.StyleDefault
	if flashActive {
		base = base.Background(toTCell(flashColor))
	}

	offset := 0
	x, y := 0, 0
	for _, line := range d.buf.Lines() {
		for range line {
			cell, ok := d.buf.CellAt(offset)
			if ok {
				style := base
				if cell.Overlaid {
					style = applyStyle(base, cell.Style)
				}
				d.put(x+jx, y+jy, width, height, cell.Rune, style)
			}
			offset++
			x++
		}
		offset++ // the newline
		x = 0
		y++
	}

	d.drawStatus(status, width, height)
	d.drawCursor(cursor, jx, jy)
	d.screen.Show()
}

// put draws one rune if it lands inside the screen.
func (d *Display) put(x, y, width, height int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= width || y >= height-1 {
		return
	}
	d.screen.SetContent(x, y, r, nil, style)
}

func (d *Display) drawStatus(status string, width, height int) {
	style := tcell.StyleDefault.Reverse(true)
	row := height - 1
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		d.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		d.screen.SetContent(x, row, ' ', nil, style)
	}
}

func (d *Display) drawCursor(cursor, jx, jy int) {
	x, y := 0, 0
	offset := 0
	for _, line := range d.buf.Lines() {
		runes := []rune(line)
		if cursor <= offset+len(runes) {
			x = cursor - offset
			break
		}
		offset += len(runes) + 1
		y++
	}
	d.screen.ShowCursor(x+jx, y+jy)
}

// toTCell converts a packed color; the default sentinel maps to the
// terminal default.
func toTCell(c host.Color) tcell.Color {
	if c == host.ColorDefault {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// applyStyle lays a host style over a tcell style.
func applyStyle(base tcell.Style, s host.Style) tcell.Style {
	out := base
	if s.Foreground != host.ColorDefault {
		out = out.Foreground(toTCell(s.Foreground))
	}
	if s.Background != host.ColorDefault {
		out = out.Background(toTCell(s.Background))
	}
	if s.Bold {
		out = out.Bold(true)
	}
	if s.Italic {
		out = out.Italic(true)
	}
	if s.Reverse {
		out = out.Reverse(true)
	}
	if s.Dim {
		out = out.Dim(true)
	}
	return out
}
