package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/coin-ticker/internal/mailbox"
	"github.com/rickgao/coin-ticker/internal/model"
	"github.com/rickgao/coin-ticker/internal/program"
)

// Config contains batch settings.
type Config struct {
	// BatchSize is the number of samples to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the initial capacity of the input mailbox.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
		BufferSize:    64,
	}
}

// Metrics tracks writer performance.
type Metrics struct {
	Inserts   int64 `json:"inserts"`
	Conflicts int64 `json:"conflicts"`
	Errors    int64 `json:"errors"`
	Flushes   int64 `json:"flushes"`
	Dropped   int64 `json:"dropped"`
}

// Writer batches samples into a Store.
type Writer struct {
	cfg    Config
	store  Store
	logger *slog.Logger

	input        *mailbox.Buffer[model.PriceSample]
	lastRevision uint64

	batch       []model.PriceSample
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	metrics Metrics
}

// NewWriter creates a Writer.
func NewWriter(cfg Config, store Store, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	return &Writer{
		cfg:    cfg,
		store:  store,
		logger: logger,
		input:  mailbox.New[model.PriceSample](cfg.BufferSize),
		batch:  make([]model.PriceSample, 0, cfg.BatchSize),
		stopCh: make(chan struct{}),
	}
}

// Observe implements program.Observer. Frames that do not carry a new
// revision (the initial placeholder, repeats) are ignored.
func (w *Writer) Observe(fr program.Frame) {
	if fr.Snapshot.Revision == 0 || fr.Snapshot.Revision == w.lastRevision {
		return
	}
	w.lastRevision = fr.Snapshot.Revision

	if !w.input.Send(Sample(fr)) {
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
	}
}

// Sample converts a frame into a sample with a fresh id.
func Sample(fr program.Frame) model.PriceSample {
	return model.PriceSample{
		ID:          uuid.New(),
		FetchedAt:   fr.At.UnixMicro(),
		FeedUpdated: fr.Snapshot.LastUpdated,
		Currency:    fr.Snapshot.Currency,
		Rate:        fr.Snapshot.Rate,
		Price:       fr.Snapshot.Price,
		Display:     fr.Snapshot.Display(),
		Revision:    fr.Snapshot.Revision,
	}
}

// Start begins consuming samples and flushing batches.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("history writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop drains queued samples, flushes and shuts down.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping history writer")

	w.input.Close()
	w.stopOnce.Do(func() { close(w.stopCh) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("history writer stop timed out")
		err = ctx.Err()
	}

	// Final flush runs before the writer context is cancelled.
	w.flush()

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	w.logger.Info("history writer stopped")
	return err
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop moves samples from the mailbox into the batch until it is closed and empty.
func (w *Writer) consumeLoop() {
	defer w.wg.Done()

	for {
		s, ok := w.input.Receive()
		if !ok {
			return
		}

		w.batchMu.Lock()
		w.batch = append(w.batch, s)
		shouldFlush := len(w.batch) >= w.cfg.BatchSize
		w.batchMu.Unlock()

		if shouldFlush {
			w.flush()
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// flush writes the current batch to the store.
func (w *Writer) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	batch := w.batch
	w.batch = make([]model.PriceSample, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.store.InsertSamples(w.ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed price samples",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}
