// Package clock provides the recurring-timer capability used by the ticker loop.
package clock

import (
	"sync"
	"time"
)

// Handle cancels a recurring callback. Stop is idempotent and safe for concurrent use.
type Handle interface {
	Stop()
}

// Clock schedules fn to run every period until the returned Handle is stopped.
type Clock interface {
	Every(period time.Duration, fn func()) Handle
}

// Real is a Clock backed by time.Ticker.
type Real struct{}

// Every starts a goroutine that calls fn on each tick.
func (Real) Every(period time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(period),
		done:   make(chan struct{}),
	}

	h.wg.Add(1)
	go h.run(fn)

	return h
}

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func (h *tickerHandle) run(fn func()) {
	defer h.wg.Done()

	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.C:
			fn()
		}
	}
}

// Stop halts the ticker and waits for an in-progress callback to return.
// It must not be called from inside the callback.
func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
	h.wg.Wait()
}
