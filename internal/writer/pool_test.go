package writer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/surgetrade/surge-go/internal/model"
)

func testPoolSnapshot() model.PoolSnapshot {
	return model.PoolSnapshot{
		RunID:       uuid.New(),
		RecordedAt:  time.Now(),
		TokenAmount: "1000000.5",
		Balance:     "999999",
		LPSupply:    "500000",
		LPPrice:     "2.0001",
	}
}

func TestPoolWriterBatchAccumulation(t *testing.T) {
	cfg := WriterConfig{BatchSize: 100, FlushInterval: time.Hour}
	w := NewPoolWriter(cfg, nil, nil, nil)

	for i := 0; i < 3; i++ {
		w.handleSnapshot(testPoolSnapshot())
	}

	w.batchMu.Lock()
	got := len(w.batch)
	w.batchMu.Unlock()

	if got != 3 {
		t.Errorf("batch length = %d, want 3", got)
	}
}

func TestPoolWriterStopWithoutMessages(t *testing.T) {
	input := make(chan model.PoolSnapshot)
	cfg := DefaultWriterConfig()
	w := NewPoolWriter(cfg, input, nil, nil)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := w.Stats()
	if stats.Flushes != 0 {
		t.Errorf("Flushes = %d, want 0", stats.Flushes)
	}
}
