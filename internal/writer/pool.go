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

// PoolWriter consumes pool snapshots and writes them to the pool_snapshots
// table.
type PoolWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	input <-chan model.PoolSnapshot
	db    *pgxpool.Pool

	batch       []model.PoolSnapshot
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewPoolWriter creates a new PoolWriter.
func NewPoolWriter(
	cfg WriterConfig,
	input <-chan model.PoolSnapshot,
	db *pgxpool.Pool,
	logger *slog.Logger,
) *PoolWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PoolWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]model.PoolSnapshot, 0, cfg.BatchSize),
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *PoolWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("pool writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *PoolWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping pool writer")

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
		w.logger.Info("pool writer stopped")
	case <-ctx.Done():
		w.logger.Warn("pool writer stop timed out")
	}

	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *PoolWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *PoolWriter) consumeLoop() {
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

func (w *PoolWriter) flushLoop() {
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

func (w *PoolWriter) handleSnapshot(snap model.PoolSnapshot) {
	w.batchMu.Lock()
	w.batch = append(w.batch, snap)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

func (w *PoolWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	batch := w.batch
	w.batch = make([]model.PoolSnapshot, 0, w.cfg.BatchSize)
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

	w.logger.Debug("flushed pool snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

func (w *PoolWriter) batchInsert(rows []model.PoolSnapshot) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO pool_snapshots (run_id, recorded_at, token_amount, balance, unrealized_pool_funding, skew_ratio, lp_supply, lp_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (recorded_at) DO NOTHING
		`, r.RunID, r.RecordedAt, r.TokenAmount, r.Balance, r.UnrealizedPoolFunding, r.SkewRatio, r.LPSupply, r.LPPrice)
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
