// Package document provides an in-memory rune buffer implementing the
// host.Document annotation surface. Edits shift live annotation ranges so
// markers stay anchored to the text they decorate, and every range is
// clamped to the current bounds on mutation.
package document

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/keyburst/internal/host"
)

type note struct {
	rng      host.Range
	content  host.Content
	style    host.Style
	priority int
}

// Buffer is one open text document.
type Buffer struct {
	mu    sync.RWMutex
	text  []rune
	next  host.AnnotationHandle
	notes map[host.AnnotationHandle]*note
}

// New creates a buffer holding the initial text.
func New(initial string) *Buffer {
	return &Buffer{
		text:  []rune(initial),
		notes: make(map[host.AnnotationHandle]*note),
	}
}

// String returns the buffer contents.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Insert places text at offset (clamped) and shifts annotations at or past
// the insertion point. Returns the offset just after the inserted text.
func (b *Buffer) Insert(offset int, text string) int {
	runes := []rune(text)
	if len(runes) == 0 {
		return offset
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	offset = b.clampLocked(offset)

	b.text = append(b.text[:offset], append(append([]rune{}, runes...), b.text[offset:]...)...)
	b.shiftLocked(offset, len(runes))
	return offset + len(runes)
}

// Delete removes the range (clamped) and returns the removed text.
func (b *Buffer) Delete(r host.Range) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := b.clampLocked(r.Start)
	end := b.clampLocked(r.End)
	if end <= start {
		return ""
	}

	removed := string(b.text[start:end])
	b.text = append(b.text[:start], b.text[end:]...)
	b.shiftLocked(start, start-end)
	return removed
}

// shiftLocked moves annotation ranges after an edit at offset by delta
// runes, clamping the results and dropping ranges squeezed to nothing.
func (b *Buffer) shiftLocked(offset, delta int) {
	max := len(b.text)
	for h, n := range b.notes {
		if n.rng.Start >= offset {
			n.rng.Start += delta
			// A deletion never drags a marker before the edit point.
			if n.rng.Start < offset {
				n.rng.Start = offset
			}
		}
		if n.rng.End > offset {
			n.rng.End += delta
			if n.rng.End < offset {
				n.rng.End = offset
			}
		}
		if n.rng.Start < 0 {
			n.rng.Start = 0
		}
		if n.rng.End > max {
			n.rng.End = max
		}
		if n.rng.IsEmpty() {
			delete(b.notes, h)
		}
	}
}

// Bounds implements host.Document.
func (b *Buffer) Bounds() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return 0, len(b.text)
}

// Clamp implements host.Document.
func (b *Buffer) Clamp(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clampLocked(offset)
}

func (b *Buffer) clampLocked(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}

// Annotate implements host.Document.
func (b *Buffer) Annotate(r host.Range, content host.Content, style host.Style, priority int) host.AnnotationHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r.IsEmpty() || r.Start < 0 || r.End > len(b.text) {
		return host.NoAnnotation
	}
	b.next++
	b.notes[b.next] = &note{rng: r, content: content, style: style, priority: priority}
	return b.next
}

// UpdateAnnotation implements host.Document. Unknown handles no-op.
func (b *Buffer) UpdateAnnotation(h host.AnnotationHandle, content host.Content, style host.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := b.notes[h]; ok {
		n.content = content
		n.style = style
	}
}

// RemoveAnnotation implements host.Document. Unknown handles no-op.
func (b *Buffer) RemoveAnnotation(h host.AnnotationHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.notes, h)
}

// AnnotationCount returns the number of live annotations.
func (b *Buffer) AnnotationCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.notes)
}

// Cell is what a renderer draws for one offset after annotation
// composition.
type Cell struct {
	// Rune is the character to draw.
	Rune rune

	// Style is the composed style.
	Style host.Style

	// Overlaid is true when an annotation contributed to the cell.
	Overlaid bool
}

// CellAt composes the highest-priority annotations over the base rune at
// offset. Style-only annotations restyle the base rune; replace and append
// content substitutes the drawn rune.
func (b *Buffer) CellAt(offset int) (Cell, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= len(b.text) {
		return Cell{}, false
	}

	cell := Cell{Rune: b.text[offset], Style: host.DefaultStyle()}

	var hits []*note
	for _, n := range b.notes {
		if n.rng.Contains(offset) {
			hits = append(hits, n)
		}
	}
	if len(hits) == 0 {
		return cell, true
	}
	// Lowest priority first so higher priorities win the final write.
	sort.Slice(hits, func(i, j int) bool { return hits[i].priority < hits[j].priority })

	for _, n := range hits {
		cell.Overlaid = true
		cell.Style = mergeStyle(cell.Style, n.style)
		switch n.content.Kind {
		case host.ContentReplace, host.ContentAppend:
			if n.content.Text != "" {
				idx := offset - n.rng.Start
				runes := []rune(n.content.Text)
				if idx >= 0 && idx < len(runes) {
					cell.Rune = runes[idx]
				} else {
					cell.Rune = runes[0]
				}
			}
		}
	}
	return cell, true
}

// Lines splits the buffer for row-oriented rendering. The offset of line i
// is the sum of prior line lengths plus i newlines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Split(string(b.text), "\n")
}

// mergeStyle lays the overlay style over the base. Default colors leave the
// base channel in place; attributes accumulate.
func mergeStyle(base, overlay host.Style) host.Style {
	out := base
	if overlay.Foreground != host.ColorDefault {
		out.Foreground = overlay.Foreground
	}
	if overlay.Background != host.ColorDefault {
		out.Background = overlay.Background
	}
	out.Bold = out.Bold || overlay.Bold
	out.Italic = out.Italic || overlay.Italic
	out.Reverse = out.Reverse || overlay.Reverse
	out.Dim = out.Dim || overlay.Dim
	return out
}
