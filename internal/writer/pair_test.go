package writer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/surgetrade/surge-go/internal/model"
)

func testPairSnapshot(pair string) model.PairSnapshot {
	return model.PairSnapshot{
		RunID:      uuid.New(),
		RecordedAt: time.Now(),
		Pair:       pair,
		Price:      68000,
		OILong:     100,
		OIShort:    50,
	}
}

func TestPairWriterBatchAccumulation(t *testing.T) {
	cfg := WriterConfig{BatchSize: 100, FlushInterval: time.Hour}
	w := NewPairWriter(cfg, nil, nil, nil)

	for i := 0; i < 5; i++ {
		w.handleSnapshot(testPairSnapshot("BTC/USD"))
	}

	w.batchMu.Lock()
	got := len(w.batch)
	w.batchMu.Unlock()

	if got != 5 {
		t.Errorf("batch length = %d, want 5", got)
	}
}

func TestPairWriterConsumesInput(t *testing.T) {
	input := make(chan model.PairSnapshot, 10)
	cfg := WriterConfig{BatchSize: 100, FlushInterval: time.Hour}
	w := NewPairWriter(cfg, input, nil, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	input <- testPairSnapshot("BTC/USD")
	input <- testPairSnapshot("ETH/USD")

	deadline := time.After(2 * time.Second)
	for {
		w.batchMu.Lock()
		n := len(w.batch)
		w.batchMu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("batch length = %d, want 2", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Drain the batch before Stop so the final flush is a no-op; there is
	// no database behind this writer.
	w.batchMu.Lock()
	w.batch = w.batch[:0]
	w.batchMu.Unlock()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestPairWriterStopWithoutMessages(t *testing.T) {
	input := make(chan model.PairSnapshot)
	cfg := DefaultWriterConfig()
	w := NewPairWriter(cfg, input, nil, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := w.Stats()
	if stats.Inserts != 0 || stats.Errors != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
