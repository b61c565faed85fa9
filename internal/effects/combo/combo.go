// Package combo tracks the consecutive-action streak that modulates effect
// intensity. The machine is Idle at count zero and Active while a timeout is
// pending; each qualifying action increments the count and re-arms the
// single timeout, and every positive multiple of the threshold emits a bonus
// event synchronously.
package combo

import (
	"sync"
	"time"

	"github.com/dshills/keyburst/internal/host"
)

// Bonus is emitted when the streak reaches a positive multiple of the
// threshold.
type Bonus struct {
	Count int
}

// Machine is the per-session combo state machine. At most one timeout is
// outstanding at any moment; each action cancels and reschedules it.
type Machine struct {
	mu      sync.Mutex
	timer   host.Timer
	onBonus func(Bonus)

	count   int
	pending host.TimerHandle
	epoch   uint64
}

// NewMachine creates an idle machine. onBonus may be nil; when set it is
// called synchronously from RecordAction, before RecordAction returns.
func NewMachine(timer host.Timer, onBonus func(Bonus)) *Machine {
	return &Machine{timer: timer, onBonus: onBonus}
}

// RecordAction registers one qualifying action and returns the new count.
// The threshold and timeout come from the caller's config snapshot so a
// config change takes effect on the next action. The bonus condition is
// checked once per increment; skipped multiples are never emitted
// retroactively.
func (m *Machine) RecordAction(threshold int, timeout time.Duration) int {
	m.mu.Lock()

	m.count++
	count := m.count

	if m.pending != host.NoTimer {
		m.timer.Cancel(m.pending)
	}
	m.epoch++
	epoch := m.epoch
	m.pending = m.timer.Schedule(timeout, func() {
		m.expire(epoch)
	})

	bonus := threshold > 0 && count%threshold == 0
	m.mu.Unlock()

	if bonus && m.onBonus != nil {
		m.onBonus(Bonus{Count: count})
	}
	return count
}

// expire is the timeout callback. The epoch guard drops callbacks from a
// timeout that was superseded or reset after this one was scheduled.
func (m *Machine) expire(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		return
	}
	m.count = 0
	m.pending = host.NoTimer
}

// Reset returns the machine to Idle and cancels any pending timeout so a
// stale reset cannot fire after the machine is reused. Used on teardown.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != host.NoTimer {
		m.timer.Cancel(m.pending)
		m.pending = host.NoTimer
	}
	m.epoch++
	m.count = 0
}

// Count returns the current streak length.
func (m *Machine) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Active reports whether a streak is in progress.
func (m *Machine) Active() bool {
	return m.Count() > 0
}
