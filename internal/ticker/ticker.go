package ticker

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rickgao/coin-ticker/internal/digit"
	"github.com/rickgao/coin-ticker/internal/feed"
	"github.com/rickgao/coin-ticker/internal/view"
)

// Initial display state, shown until the first successful fetch.
const (
	PlaceholderPrice     = 100000.0
	PlaceholderTimestamp = "June 5rd, 2077"
)

// Defaults.
const (
	DefaultCurrency = "USD"
	DefaultSymbol   = "$"
	DefaultInterval = 60 * time.Second
)

// Ticker is the root widget.
type Ticker struct {
	price       float64
	rate        string
	lastUpdated string
	currency    string
	symbol      string
	interval    time.Duration
	digits      [DigitCount]*digit.Digit
	revision    uint64
	logger      *slog.Logger
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithCurrency selects which bpi entry drives the display.
func WithCurrency(code string) Option {
	return func(t *Ticker) {
		t.currency = code
	}
}

// WithInterval sets the refresh period requested by Init.
func WithInterval(d time.Duration) Option {
	return func(t *Ticker) {
		t.interval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Ticker) {
		t.logger = logger
	}
}

// New creates a ticker with placeholder price and timestamp and all digits unset.
func New(opts ...Option) *Ticker {
	t := &Ticker{
		price:       PlaceholderPrice,
		lastUpdated: PlaceholderTimestamp,
		currency:    DefaultCurrency,
		symbol:      DefaultSymbol,
		interval:    DefaultInterval,
		logger:      slog.Default(),
	}
	for i := range t.digits {
		t.digits[i] = digit.New()
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}

	return t
}

// Init returns the startup commands. The two are independent of each other.
func (t *Ticker) Init() []Cmd {
	return []Cmd{FetchCmd{}, ArmTimerCmd{Period: t.interval}}
}

// Update applies msg and returns the commands to run next.
func (t *Ticker) Update(msg Msg) []Cmd {
	t.logger.Debug("updating ticker", "msg", Name(msg))

	switch m := msg.(type) {
	case Initialize:
		return t.Init()

	case TimerFired:
		return []Cmd{FetchCmd{}}

	case FetchSucceeded:
		if err := t.apply(m.Data); err != nil {
			t.logger.Error("discarding feed update", "error", err)
		}
		return nil

	case FetchFailed:
		t.logger.Error("fetch failed", "error", m.Err)
		return nil
	}

	return nil
}

// apply validates a feed document and, only if everything checks out, commits it.
func (t *Ticker) apply(data *feed.CurrentPrice) error {
	if data == nil {
		return errors.New("empty feed document")
	}

	entry, err := data.Currency(t.currency)
	if err != nil {
		return err
	}

	rate, err := feed.ParseRate(entry.Rate)
	if err != nil {
		return err
	}

	formatted, err := FormatDecimal(rate)
	if err != nil {
		return fmt.Errorf("format price: %w", err)
	}

	price, _ := rate.Float64()
	t.price = price
	t.rate = entry.Rate
	t.lastUpdated = data.Time.Updated
	if sym := entry.DisplaySymbol(); sym != "" {
		t.symbol = sym
	}

	t.logger.Info("price updated",
		"currency", t.currency,
		"formatted", formatted,
		"updated", t.lastUpdated,
	)

	t.setDigits(formatted)
	t.revision++
	return nil
}

// setDigits selects every column from formatted. A column that cannot be read
// shows 0; the remaining columns are still updated.
func (t *Ticker) setDigits(formatted string) {
	for pos, d := range t.digits {
		value, err := ExtractDigit(formatted, pos)
		if err != nil {
			t.logger.Error("digit extraction failed", "position", pos, "error", err)
		}
		d.Select(value)
	}
}

// View projects the current state into a render tree: the timestamp label above
// the currency sign and the eight digit strips.
func (t *Ticker) View(rng *rand.Rand) view.Node {
	row := make([]view.Node, 0, DigitCount+1)
	row = append(row, view.El("div", "dollar-sign", "", view.TextNode(t.symbol)))
	for _, d := range t.digits {
		row = append(row, d.View(rng))
	}

	return view.El("div", "ticker-widget", "display: block",
		view.El("p", "last-updated", "", view.TextNode(t.lastUpdated)),
		view.El("div", "ticker", "", row...),
	)
}

// Snapshot is an immutable copy of the ticker state.
type Snapshot struct {
	Price       float64         `json:"price"`
	Rate        string          `json:"rate,omitempty"`
	LastUpdated string          `json:"last_updated"`
	Currency    string          `json:"currency"`
	Symbol      string          `json:"symbol"`
	Digits      [DigitCount]int `json:"digits"`
	Revision    uint64          `json:"revision"`
}

// Snapshot returns a copy of the current state.
func (t *Ticker) Snapshot() Snapshot {
	s := Snapshot{
		Price:       t.price,
		Rate:        t.rate,
		LastUpdated: t.lastUpdated,
		Currency:    t.currency,
		Symbol:      t.symbol,
		Revision:    t.revision,
	}
	for i, d := range t.digits {
		s.Digits[i] = d.Value()
	}
	return s
}

// Display returns the digit row as text, "?" marking unset positions.
func (s Snapshot) Display() string {
	var b strings.Builder
	for _, v := range s.Digits {
		if v < 0 || v > 9 {
			b.WriteByte('?')
			continue
		}
		b.WriteString(digit.Glyphs[v+1])
	}
	return b.String()
}

// Revision increments on every committed feed update.
func (t *Ticker) Revision() uint64 {
	return t.revision
}

// Interval returns the refresh period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}
