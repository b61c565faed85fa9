package combo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/keyburst/internal/host/hosttest"
)

const testTimeout = time.Second

func TestPeriodicity(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	var bonuses []int
	m := NewMachine(ft, func(b Bonus) { bonuses = append(bonuses, b.Count) })

	for i := 0; i < 30; i++ {
		m.RecordAction(10, testTimeout)
	}

	require.Equal(t, []int{10, 20, 30}, bonuses, "one bonus per threshold multiple")
	require.Equal(t, 30, m.Count())
}

func TestSingleOutstandingTimeout(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	m := NewMachine(ft, nil)

	for i := 0; i < 7; i++ {
		m.RecordAction(10, testTimeout)
		require.Equal(t, 1, ft.PendingCount(), "each action cancels and reschedules the single timeout")
	}
}

func TestTimeoutResets(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	m := NewMachine(ft, nil)

	m.RecordAction(10, testTimeout)
	m.RecordAction(10, testTimeout)
	m.RecordAction(10, testTimeout)
	require.Equal(t, 3, m.Count())

	ft.Advance(testTimeout + time.Millisecond)
	require.Equal(t, 0, m.Count())
	require.False(t, m.Active())

	// Counting restarts from 1, not the pre-timeout value.
	require.Equal(t, 1, m.RecordAction(10, testTimeout))
}

func TestActionsKeepStreakAlive(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	m := NewMachine(ft, nil)

	for i := 0; i < 5; i++ {
		m.RecordAction(10, testTimeout)
		ft.Advance(testTimeout / 2)
	}
	require.Equal(t, 5, m.Count(), "re-armed timeout never expired")
}

func TestBonusScenario(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	var bonuses []int
	m := NewMachine(ft, func(b Bonus) { bonuses = append(bonuses, b.Count) })

	for i := 0; i < 10; i++ {
		m.RecordAction(10, testTimeout)
	}
	require.Equal(t, []int{10}, bonuses)

	require.Equal(t, 11, m.RecordAction(10, testTimeout))
	require.Equal(t, []int{10}, bonuses, "no further bonus until the next multiple")
}

func TestNoRetroactiveBonus(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	var bonuses []int
	m := NewMachine(ft, func(b Bonus) { bonuses = append(bonuses, b.Count) })

	// Cross a multiple of the new threshold while it was configured
	// higher; the skipped value is never emitted retroactively.
	for i := 0; i < 7; i++ {
		m.RecordAction(100, testTimeout)
	}
	m.RecordAction(4, testTimeout)
	require.Equal(t, []int{8}, bonuses)
}

func TestResetCancelsTimeout(t *testing.T) {
	ft := hosttest.NewFakeTimer()
	m := NewMachine(ft, nil)

	m.RecordAction(10, testTimeout)
	m.Reset()
	require.Equal(t, 0, m.Count())
	require.Equal(t, 0, ft.PendingCount(), "no stale reset left pending")

	// A new streak after reset behaves like a fresh machine.
	require.Equal(t, 1, m.RecordAction(10, testTimeout))
	ft.Advance(testTimeout + time.Millisecond)
	require.Equal(t, 0, m.Count())
}
