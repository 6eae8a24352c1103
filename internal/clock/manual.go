package clock

import (
	"sync"
	"time"
)

// Manual is a Clock driven by explicit Fire calls.
type Manual struct {
	mu      sync.Mutex
	entries []*manualEntry
}

type manualEntry struct {
	period  time.Duration
	fn      func()
	stopped bool
	m       *Manual
}

// NewManual returns a Manual clock with no scheduled callbacks.
func NewManual() *Manual {
	return &Manual{}
}

// Every registers fn. It runs only when Fire is called.
func (m *Manual) Every(period time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &manualEntry{period: period, fn: fn, m: m}
	m.entries = append(m.entries, e)
	return e
}

// Fire runs every live callback once, synchronously, in registration order.
func (m *Manual) Fire() {
	m.mu.Lock()
	var live []func()
	for _, e := range m.entries {
		if !e.stopped {
			live = append(live, e.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range live {
		fn()
	}
}

// Active returns the number of callbacks that have not been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if !e.stopped {
			n++
		}
	}
	return n
}

// Periods returns the period of every live callback.
func (m *Manual) Periods() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []time.Duration
	for _, e := range m.entries {
		if !e.stopped {
			out = append(out, e.period)
		}
	}
	return out
}

func (e *manualEntry) Stop() {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	e.stopped = true
}
