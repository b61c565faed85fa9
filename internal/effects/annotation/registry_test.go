package annotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/keyburst/internal/host"
	"github.com/dshills/keyburst/internal/host/hosttest"
)

func newTestRegistry() (*Registry, *hosttest.FakeDocument, *hosttest.FakeTimer) {
	doc := hosttest.NewFakeDocument(0, 100)
	ft := hosttest.NewFakeTimer()
	return NewRegistry(doc, ft, nil), doc, ft
}

func TestSpawnAndExpire(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	id := reg.Spawn(host.Range{Start: 5, End: 6}, host.StyleOnly(), host.DefaultStyle(), 10, 500*time.Millisecond)
	require.NotEqual(t, NoopID, id)
	require.Equal(t, 1, reg.Len())
	require.Equal(t, 1, doc.LiveCount())

	ft.Advance(600 * time.Millisecond)
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, doc.LiveCount())
	require.Equal(t, 0, ft.PendingCount())
}

func TestSpawnClampsOutOfBounds(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	// Entirely past the end: clamps to an empty range, degrades to a
	// no-op handle and leaves nothing behind.
	id := reg.Spawn(host.Range{Start: 200, End: 210}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
	require.Equal(t, NoopID, id)
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, doc.LiveCount())
	require.Equal(t, 0, ft.PendingCount())

	id = reg.Spawn(host.Range{Start: -10, End: -5}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
	require.Equal(t, NoopID, id)

	// Straddling the end: clamped to what fits.
	id = reg.Spawn(host.Range{Start: 98, End: 110}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
	require.NotEqual(t, NoopID, id)
	notes := doc.Live()
	require.Len(t, notes, 1)
	require.Equal(t, host.Range{Start: 98, End: 100}, notes[0].Range)
}

func TestNoopIDIsSafeEverywhere(t *testing.T) {
	reg, _, _ := newTestRegistry()

	reg.Restyle(NoopID, host.StyleOnly(), host.DefaultStyle())
	reg.ScheduleRestyle(NoopID, time.Second, host.StyleOnly(), host.DefaultStyle())
	reg.Remove(NoopID)
	require.Equal(t, 0, reg.Len())
}

func TestRestyleAfterExpiryIsNoop(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	id := reg.Spawn(host.Range{Start: 0, End: 3}, host.StyleOnly(), host.DefaultStyle(), 10, 100*time.Millisecond)
	ft.Advance(200 * time.Millisecond)

	reg.Restyle(id, host.Replace("xxx"), host.DefaultStyle())
	require.Equal(t, 0, doc.LiveCount())
	reg.ScheduleRestyle(id, 10*time.Millisecond, host.Replace("xxx"), host.DefaultStyle())
	require.Equal(t, 0, ft.PendingCount(), "restyle against a dead id schedules nothing")
}

func TestExpiryCancelsFrameTimers(t *testing.T) {
	reg, _, ft := newTestRegistry()

	id := reg.Spawn(host.Range{Start: 0, End: 3}, host.StyleOnly(), host.DefaultStyle(), 10, 100*time.Millisecond)
	reg.ScheduleRestyle(id, 250*time.Millisecond, host.StyleOnly(), host.DefaultStyle())
	reg.ScheduleRestyle(id, 300*time.Millisecond, host.StyleOnly(), host.DefaultStyle())
	require.Equal(t, 3, ft.PendingCount())

	ft.Advance(150 * time.Millisecond)
	require.Equal(t, 0, ft.PendingCount(), "removal cancels the annotation's frame timers")
}

func TestScheduledRestyleFires(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	id := reg.Spawn(host.Range{Start: 2, End: 4}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
	reg.ScheduleRestyle(id, 100*time.Millisecond, host.StyleOnly(), host.DefaultStyle().WithForeground(host.ColorFromRGB(255, 0, 0)))

	ft.Advance(150 * time.Millisecond)
	notes := doc.Live()
	require.Len(t, notes, 1)
	require.Equal(t, 1, notes[0].Updates)
}

func TestRemoveIdempotent(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	id := reg.Spawn(host.Range{Start: 0, End: 1}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
	reg.Remove(id)
	reg.Remove(id)
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, doc.LiveCount())
	require.Equal(t, 0, ft.PendingCount())

	// The cancelled removal never fires against a recycled map slot.
	ft.Advance(2 * time.Second)
	require.Equal(t, 0, doc.LiveCount())
}

func TestSweepAllIdempotent(t *testing.T) {
	reg, doc, ft := newTestRegistry()

	for i := 0; i < 3; i++ {
		id := reg.Spawn(host.Range{Start: i, End: i + 1}, host.StyleOnly(), host.DefaultStyle(), 10, time.Second)
		reg.ScheduleRestyle(id, 100*time.Millisecond, host.StyleOnly(), host.DefaultStyle())
	}
	require.Equal(t, 3, reg.Len())
	require.Equal(t, 6, ft.PendingCount())

	reg.SweepAll()
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, doc.LiveCount())
	require.Equal(t, 0, ft.PendingCount())

	reg.SweepAll()
	require.Equal(t, 0, reg.Len())
	require.Equal(t, 0, ft.PendingCount())
}
