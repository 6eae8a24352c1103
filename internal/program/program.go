package program

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rickgao/coin-ticker/internal/clock"
	"github.com/rickgao/coin-ticker/internal/feed"
	"github.com/rickgao/coin-ticker/internal/mailbox"
	"github.com/rickgao/coin-ticker/internal/ticker"
	"github.com/rickgao/coin-ticker/internal/view"
)

// Fetcher retrieves the current price document.
type Fetcher interface {
	FetchCurrentPrice(ctx context.Context) (*feed.CurrentPrice, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc func(ctx context.Context) (*feed.CurrentPrice, error)

func (f FetcherFunc) FetchCurrentPrice(ctx context.Context) (*feed.CurrentPrice, error) {
	return f(ctx)
}

// Frame is the widget state after a change, with its rendered view.
type Frame struct {
	Snapshot ticker.Snapshot
	View     view.Node
	At       time.Time
}

// Observer receives frames. It is called on the loop goroutine and must not block.
type Observer interface {
	Observe(Frame)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(Frame)

func (f ObserverFunc) Observe(fr Frame) {
	f(fr)
}

// Config holds program settings.
type Config struct {
	FetchTimeout time.Duration // Per-fetch deadline (default: 10s)
	Seed         uint64        // Render randomness seed, 0 picks one at random
	QueueSize    int           // Initial mailbox capacity (default: 16)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FetchTimeout: 10 * time.Second,
		QueueSize:    16,
	}
}

// Stats counts what the loop has processed.
type Stats struct {
	Messages      int64     `json:"messages"`
	Fetches       int64     `json:"fetches"`
	FetchFailures int64     `json:"fetch_failures"`
	Rejected      int64     `json:"rejected"`
	Updates       int64     `json:"updates"`
	LastFetchAt   time.Time `json:"last_fetch_at"`
	LastSuccessAt time.Time `json:"last_success_at"`
	LastError     string    `json:"last_error,omitempty"`
	TimerArmed    bool      `json:"timer_armed"`
}

// Program drives a Ticker.
type Program struct {
	cfg     Config
	ticker  *ticker.Ticker
	fetcher Fetcher
	clock   clock.Clock
	rng     *rand.Rand
	logger  *slog.Logger

	inbox     *mailbox.Buffer[ticker.Msg]
	observers []Observer

	mu      sync.RWMutex
	current Frame
	stats   Stats

	timerMu sync.Mutex
	timer   clock.Handle
	stopped bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	fetches sync.WaitGroup
}

// New creates a Program. Observers are fixed at construction.
func New(cfg Config, tk *ticker.Ticker, fetcher Fetcher, clk clock.Clock, logger *slog.Logger, observers ...Observer) *Program {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Program{
		cfg:       cfg,
		ticker:    tk,
		fetcher:   fetcher,
		clock:     clk,
		rng:       rand.New(rand.NewPCG(seed, seed)),
		logger:    logger,
		inbox:     mailbox.New[ticker.Msg](cfg.QueueSize),
		observers: observers,
	}
}

// Start publishes the initial frame, enqueues Initialize and starts the loop.
func (p *Program) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.publish()
	p.inbox.Send(ticker.Initialize{})

	p.wg.Add(1)
	go p.run()

	p.logger.Info("ticker program started",
		"interval", p.ticker.Interval(),
		"fetch_timeout", p.cfg.FetchTimeout,
	)

	return nil
}

// Stop releases the timer, cancels in-flight fetches and waits for the loop.
func (p *Program) Stop(ctx context.Context) error {
	p.timerMu.Lock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerMu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.inbox.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.fetches.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("ticker program stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch enqueues msg. It returns false once the program is stopping.
func (p *Program) Dispatch(msg ticker.Msg) bool {
	return p.inbox.Send(msg)
}

// Current returns the most recent frame.
func (p *Program) Current() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Stats returns loop counters.
func (p *Program) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// run is the message loop.
func (p *Program) run() {
	defer p.wg.Done()

	for {
		msg, ok := p.inbox.Receive()
		if !ok {
			return
		}
		p.handle(msg)
	}
}

// handle processes one message to completion.
func (p *Program) handle(msg ticker.Msg) {
	before := p.ticker.Revision()
	cmds := p.ticker.Update(msg)
	changed := p.ticker.Revision() != before

	p.record(msg, changed)
	if changed {
		p.publish()
	}

	for _, cmd := range cmds {
		p.exec(cmd)
	}
}

// exec runs a command requested by the ticker.
func (p *Program) exec(cmd ticker.Cmd) {
	switch c := cmd.(type) {
	case ticker.FetchCmd:
		if p.ctx.Err() != nil {
			return
		}
		p.fetches.Add(1)
		go p.fetch()

	case ticker.ArmTimerCmd:
		p.armTimer(c.Period)

	default:
		p.logger.Warn("unknown command", "cmd", c)
	}
}

// fetch performs one fetch and reports the result as a message.
func (p *Program) fetch() {
	defer p.fetches.Done()

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.FetchTimeout)
	defer cancel()

	data, err := p.fetcher.FetchCurrentPrice(ctx)
	if err != nil {
		p.inbox.Send(ticker.FetchFailed{Err: err})
		return
	}
	p.inbox.Send(ticker.FetchSucceeded{Data: data})
}

// armTimer replaces the recurring timer. The handle is owned here and released by Stop.
func (p *Program) armTimer(period time.Duration) {
	p.timerMu.Lock()
	defer p.timerMu.Unlock()

	if p.stopped {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}

	p.timer = p.clock.Every(period, func() {
		p.inbox.Send(ticker.TimerFired{})
	})

	p.mu.Lock()
	p.stats.TimerArmed = true
	p.mu.Unlock()

	p.logger.Debug("interval timer armed", "period", period)
}

// record updates loop counters for msg.
func (p *Program) record(msg ticker.Msg, changed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.stats.Messages++

	switch m := msg.(type) {
	case ticker.FetchSucceeded:
		p.stats.Fetches++
		p.stats.LastFetchAt = now
		if changed {
			p.stats.Updates++
			p.stats.LastSuccessAt = now
			p.stats.LastError = ""
		} else {
			p.stats.Rejected++
			p.stats.LastError = "feed document rejected"
		}

	case ticker.FetchFailed:
		p.stats.Fetches++
		p.stats.FetchFailures++
		p.stats.LastFetchAt = now
		if m.Err != nil {
			p.stats.LastError = m.Err.Error()
		}
	}
}

// publish renders the current state and notifies observers.
func (p *Program) publish() {
	fr := Frame{
		Snapshot: p.ticker.Snapshot(),
		View:     p.ticker.View(p.rng),
		At:       time.Now(),
	}

	p.mu.Lock()
	p.current = fr
	p.mu.Unlock()

	for _, o := range p.observers {
		o.Observe(fr)
	}
}
