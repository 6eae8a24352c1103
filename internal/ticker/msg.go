package ticker

import (
	"time"

	"github.com/rickgao/coin-ticker/internal/feed"
)

// Msg is an event consumed by Ticker.Update.
type Msg interface {
	msgName() string
}

// Initialize starts the widget: one fetch plus the recurring timer.
type Initialize struct{}

// TimerFired is produced by the recurring timer on every tick.
type TimerFired struct{}

// FetchSucceeded carries a decoded feed document.
type FetchSucceeded struct {
	Data *feed.CurrentPrice
}

// FetchFailed carries a transport, status or decode failure.
type FetchFailed struct {
	Err error
}

func (Initialize) msgName() string     { return "initialize" }
func (TimerFired) msgName() string     { return "timer_fired" }
func (FetchSucceeded) msgName() string { return "fetch_succeeded" }
func (FetchFailed) msgName() string    { return "fetch_failed" }

// Name returns a short label for logging.
func Name(m Msg) string {
	return m.msgName()
}

// Cmd is a side effect requested by Update.
type Cmd interface {
	cmd()
}

// FetchCmd asks for one feed fetch.
type FetchCmd struct{}

// ArmTimerCmd asks for a recurring timer that produces TimerFired every Period.
type ArmTimerCmd struct {
	Period time.Duration
}

func (FetchCmd) cmd()    {}
func (ArmTimerCmd) cmd() {}
