package document

import (
	"testing"

	"github.com/dshills/keyburst/internal/host"
)

func TestInsertDelete(t *testing.T) {
	b := New("hello")

	if got := b.Insert(5, " world"); got != 11 {
		t.Errorf("Insert() = %d, want 11", got)
	}
	if got := b.String(); got != "hello world" {
		t.Errorf("String() = %q", got)
	}

	if got := b.Delete(host.Range{Start: 5, End: 11}); got != " world" {
		t.Errorf("Delete() = %q, want %q", got, " world")
	}
	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q", got)
	}
}

func TestInsertClamps(t *testing.T) {
	b := New("ab")
	b.Insert(100, "!")
	if got := b.String(); got != "ab!" {
		t.Errorf("String() = %q, want %q", got, "ab!")
	}
	b.Insert(-5, "?")
	if got := b.String(); got != "?ab!" {
		t.Errorf("String() = %q, want %q", got, "?ab!")
	}
}

func TestDeleteEmptyRange(t *testing.T) {
	b := New("abc")
	if got := b.Delete(host.Range{Start: 2, End: 2}); got != "" {
		t.Errorf("Delete() = %q, want empty", got)
	}
	if got := b.Delete(host.Range{Start: 3, End: 1}); got != "" {
		t.Errorf("Delete() reversed = %q, want empty", got)
	}
}

func TestAnnotateBounds(t *testing.T) {
	b := New("hello")

	if h := b.Annotate(host.Range{Start: 1, End: 3}, host.StyleOnly(), host.DefaultStyle(), 1); h == host.NoAnnotation {
		t.Error("in-bounds Annotate() = NoAnnotation")
	}
	if h := b.Annotate(host.Range{Start: 3, End: 9}, host.StyleOnly(), host.DefaultStyle(), 1); h != host.NoAnnotation {
		t.Error("out-of-bounds Annotate() accepted")
	}
	if h := b.Annotate(host.Range{Start: 2, End: 2}, host.StyleOnly(), host.DefaultStyle(), 1); h != host.NoAnnotation {
		t.Error("empty Annotate() accepted")
	}
}

func TestRemoveUnknownHandle(t *testing.T) {
	b := New("hello")
	b.RemoveAnnotation(host.AnnotationHandle(99))
	b.UpdateAnnotation(host.AnnotationHandle(99), host.StyleOnly(), host.DefaultStyle())
}

func TestInsertShiftsAnnotations(t *testing.T) {
	b := New("hello world")
	red := host.DefaultStyle().WithForeground(host.ColorFromRGB(255, 0, 0))

	// Covers "world".
	h := b.Annotate(host.Range{Start: 6, End: 11}, host.StyleOnly(), red, 1)
	b.Insert(0, ">> ")

	cell, ok := b.CellAt(9) // 'w' after the shift
	if !ok || cell.Rune != 'w' {
		t.Fatalf("CellAt(9) = %+v, %v", cell, ok)
	}
	if !cell.Overlaid {
		t.Error("annotation did not follow the text")
	}
	if cell.Style.Foreground != red.Foreground {
		t.Errorf("Foreground = %v, want red", cell.Style.Foreground)
	}
	_ = h
}

func TestDeleteDropsSqueezedAnnotations(t *testing.T) {
	b := New("hello world")
	b.Annotate(host.Range{Start: 6, End: 11}, host.StyleOnly(), host.DefaultStyle(), 1)

	b.Delete(host.Range{Start: 5, End: 11})
	if got := b.AnnotationCount(); got != 0 {
		t.Errorf("AnnotationCount() = %d, want squeezed annotation dropped", got)
	}
}

func TestCellAtPriority(t *testing.T) {
	b := New("abc")
	low := host.DefaultStyle().WithForeground(host.ColorFromRGB(0, 0, 255))
	high := host.DefaultStyle().WithForeground(host.ColorFromRGB(0, 255, 0))

	b.Annotate(host.Range{Start: 0, End: 3}, host.StyleOnly(), low, 10)
	b.Annotate(host.Range{Start: 1, End: 2}, host.StyleOnly(), high, 50)

	cell, _ := b.CellAt(1)
	if cell.Style.Foreground != high.Foreground {
		t.Errorf("Foreground = %v, higher priority must win", cell.Style.Foreground)
	}
	cell, _ = b.CellAt(0)
	if cell.Style.Foreground != low.Foreground {
		t.Errorf("Foreground = %v, want the only overlay", cell.Style.Foreground)
	}
}

func TestCellAtReplaceContent(t *testing.T) {
	b := New("abc")
	b.Annotate(host.Range{Start: 1, End: 2}, host.Append("✦"), host.DefaultStyle(), 1)

	cell, _ := b.CellAt(1)
	if cell.Rune != '✦' {
		t.Errorf("Rune = %q, want the appended glyph", cell.Rune)
	}
	cell, _ = b.CellAt(0)
	if cell.Rune != 'a' {
		t.Errorf("Rune = %q, base text must be untouched", cell.Rune)
	}
}

func TestCellAtAttributesAccumulate(t *testing.T) {
	b := New("x")
	bold := host.DefaultStyle()
	bold.Bold = true
	dim := host.DefaultStyle()
	dim.Dim = true

	b.Annotate(host.Range{Start: 0, End: 1}, host.StyleOnly(), bold, 1)
	b.Annotate(host.Range{Start: 0, End: 1}, host.StyleOnly(), dim, 2)

	cell, _ := b.CellAt(0)
	if !cell.Style.Bold || !cell.Style.Dim {
		t.Errorf("Style = %+v, attributes must accumulate", cell.Style)
	}
}

func TestCellAtOutOfRange(t *testing.T) {
	b := New("ab")
	if _, ok := b.CellAt(2); ok {
		t.Error("CellAt(len) = ok")
	}
	if _, ok := b.CellAt(-1); ok {
		t.Error("CellAt(-1) = ok")
	}
}

func TestLines(t *testing.T) {
	b := New("one\ntwo\n")
	got := b.Lines()
	want := []string{"one", "two", ""}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
