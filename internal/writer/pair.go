package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surgetrade/surge-go/internal/model"
)

// PairWriter consumes pair snapshots and writes them to the pair_snapshots
// table.
type PairWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the poller
	input <-chan model.PairSnapshot

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []model.PairSnapshot
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewPairWriter creates a new PairWriter.
func NewPairWriter(
	cfg WriterConfig,
	input <-chan model.PairSnapshot,
	db *pgxpool.Pool,
	logger *slog.Logger,
) *PairWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PairWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]model.PairSnapshot, 0, cfg.BatchSize),
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *PairWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("pair writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *PairWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping pair writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("pair writer stopped")
	case <-ctx.Done():
		w.logger.Warn("pair writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *PairWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *PairWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case snap, ok := <-w.input:
			if !ok {
				return
			}
			w.handleSnapshot(snap)
		}
	}
}

func (w *PairWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

func (w *PairWriter) handleSnapshot(snap model.PairSnapshot) {
	w.batchMu.Lock()
	w.batch = append(w.batch, snap)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// flush writes the current batch to the database.
func (w *PairWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.PairSnapshot, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
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

	w.logger.Debug("flushed pair snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *PairWriter) batchInsert(rows []model.PairSnapshot) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO pair_snapshots (run_id, recorded_at, pair, price, oi_long, oi_short, oi_net, skew, cost, funding_long_apr, funding_short_apr, funding_pool_24h)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (pair, recorded_at) DO NOTHING
		`, r.RunID, r.RecordedAt, r.Pair, r.Price, r.OILong, r.OIShort, r.OINet, r.Skew, r.Cost, r.FundingLongAPR, r.FundingShortAPR, r.FundingPool24H)
	}

	results := w.db.SendBatch(w.ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
