// Package poller periodically snapshots pair and pool state from the
// exchange and emits rows for the writers.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/surgetrade/surge-go/internal/model"
	"github.com/surgetrade/surge-go/surge"
)

// ExchangeSource provides the exchange state the poller snapshots.
type ExchangeSource interface {
	PairDetails(ctx context.Context, pairIDs []string) ([]surge.PairDetails, error)
	PoolDetails(ctx context.Context) (*surge.PoolDetails, error)
}

// pairChunkSize bounds how many pairs go into a single preview call.
const pairChunkSize = 10

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent requests (default: 4)
	Timeout     time.Duration // Per-request timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    1 * time.Minute,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// Poller periodically fetches pair and pool details from the exchange.
type Poller struct {
	cfg    Config
	source ExchangeSource
	pairs  []string
	runID  uuid.UUID
	logger *slog.Logger

	pairOut chan<- model.PairSnapshot
	poolOut chan<- model.PoolSnapshot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. Each poller run is stamped with a fresh run ID
// so rows from different recorder restarts can be told apart.
func New(
	cfg Config,
	source ExchangeSource,
	pairs []string,
	pairOut chan<- model.PairSnapshot,
	poolOut chan<- model.PoolSnapshot,
	logger *slog.Logger,
) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		pairs:   pairs,
		runID:   uuid.New(),
		logger:  logger,
		pairOut: pairOut,
		poolOut: poolOut,
	}
}

// RunID returns the identifier stamped on this poller's snapshots.
func (p *Poller) RunID() uuid.UUID {
	return p.runID
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started",
		"run_id", p.runID,
		"pairs", len(p.pairs),
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches the pool and all pair chunks concurrently.
func (p *Poller) pollAll() {
	start := time.Now()
	recordedAt := start.UTC()

	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, errors atomic.Int64

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		case <-p.ctx.Done():
			return
		}

		if err := p.pollPool(recordedAt); err != nil {
			p.logger.Warn("failed to poll pool", "err", err)
			errors.Add(1)
			return
		}
		fetched.Add(1)
	}()

	for _, chunk := range chunkPairs(p.pairs, pairChunkSize) {
		wg.Add(1)
		go func(pairs []string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			n, err := p.pollPairs(recordedAt, pairs)
			if err != nil {
				p.logger.Warn("failed to poll pairs", "pairs", pairs, "err", err)
				errors.Add(1)
				return
			}
			fetched.Add(int64(n))
		}(chunk)
	}

	wg.Wait()

	p.logger.Info("poll cycle complete",
		"pairs", len(p.pairs),
		"fetched", fetched.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// pollPairs fetches one chunk of pair details and emits snapshots.
func (p *Poller) pollPairs(recordedAt time.Time, pairs []string) (int, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	details, err := p.source.PairDetails(ctx, pairs)
	if err != nil {
		return 0, err
	}

	for _, d := range details {
		snap := model.PairSnapshotFrom(p.runID, recordedAt, d)
		select {
		case p.pairOut <- snap:
		case <-p.ctx.Done():
			return 0, p.ctx.Err()
		}
	}

	return len(details), nil
}

// pollPool fetches pool details and emits a snapshot.
func (p *Poller) pollPool(recordedAt time.Time) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	details, err := p.source.PoolDetails(ctx)
	if err != nil {
		return err
	}

	snap := model.PoolSnapshotFrom(p.runID, recordedAt, *details)
	select {
	case p.poolOut <- snap:
	case <-p.ctx.Done():
		return p.ctx.Err()
	}

	return nil
}

// chunkPairs splits pairs into groups of at most size.
func chunkPairs(pairs []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var chunks [][]string
	for len(pairs) > size {
		chunks = append(chunks, pairs[:size])
		pairs = pairs[size:]
	}
	if len(pairs) > 0 {
		chunks = append(chunks, pairs)
	}
	return chunks
}
