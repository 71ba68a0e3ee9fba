package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mvollmer/discotag/internal/metadata"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
)

// blockingExtractor parks every Open call until released, so tests can hold a
// batch in flight.
type blockingExtractor struct {
	mu      sync.Mutex
	release chan struct{}
	opens   int
}

func newBlockingExtractor() *blockingExtractor {
	return &blockingExtractor{release: make(chan struct{})}
}

func (e *blockingExtractor) Open(ctx context.Context, locator string) (metadata.Session, error) {
	e.mu.Lock()
	e.opens++
	e.mu.Unlock()

	select {
	case <-e.release:
	case <-ctx.Done():
	}
	return &mockSession{values: map[metadata.Key]string{metadata.KeyTitle: "T"}}, nil
}

func (e *blockingExtractor) openCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opens
}

func TestScheduler(t *testing.T) {
	t.Run("submit does not block the caller", func(t *testing.T) {
		store := newMockStore()
		store.locators[1] = "a.mp3"

		extractor := newBlockingExtractor()
		engine := NewEngine(EngineOpts{Store: store, Extractor: extractor})
		scheduler := NewScheduler(engine, nil)

		start := time.Now()
		handle, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{1}, models.NoActiveItem), nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("submit blocked for %v", elapsed)
		}

		if handle.Report() != nil {
			t.Error("report should be nil while the batch is running")
		}

		close(extractor.release)

		report, err := handle.Wait(context.Background())
		if err != nil {
			t.Fatalf("wait failed: %v", err)
		}
		if report.Status != StatusCompleted {
			t.Errorf("expected completed batch, got %s", report.Status)
		}
		if handle.Report() == nil {
			t.Error("report should be available after completion")
		}
	})

	t.Run("rejects invalid batch", func(t *testing.T) {
		engine := NewEngine(EngineOpts{Store: newMockStore(), Extractor: newMockExtractor()})
		scheduler := NewScheduler(engine, nil)

		if _, err := scheduler.Submit(context.Background(), models.NewBatch(nil, models.NoActiveItem), nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("concurrent batches run independently", func(t *testing.T) {
		store := newMockStore()
		extractor := newMockExtractor()
		for _, id := range []int64{1, 2, 3, 4} {
			loc := string(rune('a'+id)) + ".mp3"
			store.locators[id] = loc
			extractor.sessions[loc] = &mockSession{values: map[metadata.Key]string{metadata.KeyTitle: "T"}}
		}

		engine := NewEngine(EngineOpts{Store: store, Extractor: extractor})
		scheduler := NewScheduler(engine, nil)

		h1, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{1, 2}, models.NoActiveItem), nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		h2, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{3, 4}, models.NoActiveItem), nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		if h1.ID() == h2.ID() {
			t.Error("handles should have distinct identifiers")
		}

		r1, _ := h1.Wait(context.Background())
		r2, _ := h2.Wait(context.Background())

		if r1.WrittenCount != 2 || r2.WrittenCount != 2 {
			t.Errorf("expected both batches to write 2 items, got %d and %d", r1.WrittenCount, r2.WrittenCount)
		}
	})

	t.Run("wait respects context", func(t *testing.T) {
		store := newMockStore()
		store.locators[1] = "a.mp3"

		extractor := newBlockingExtractor()
		engine := NewEngine(EngineOpts{Store: store, Extractor: extractor})
		scheduler := NewScheduler(engine, nil)

		handle, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{1}, models.NoActiveItem), nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, err := handle.Wait(ctx); err == nil {
			t.Error("expected wait to fail on expired context")
		}

		close(extractor.release)
		if _, err := handle.Wait(context.Background()); err != nil {
			t.Errorf("wait after release failed: %v", err)
		}
	})

	t.Run("shutdown stops new submissions and drains", func(t *testing.T) {
		store := newMockStore()
		store.locators[1] = "a.mp3"
		store.locators[2] = "b.mp3"

		extractor := newBlockingExtractor()
		engine := NewEngine(EngineOpts{Store: store, Extractor: extractor})
		scheduler := NewScheduler(engine, nil)

		handle, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{1, 2}, models.NoActiveItem), nil)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		// Let the first item get in flight, then release it and shut down.
		for extractor.openCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		close(extractor.release)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := scheduler.Shutdown(shutdownCtx); err != nil {
			t.Fatalf("shutdown failed: %v", err)
		}

		if _, err := scheduler.Submit(context.Background(), models.NewBatch([]int64{1}, models.NoActiveItem), nil); !errors.Is(err, shared.ErrSchedulerStopped) {
			t.Errorf("expected ErrSchedulerStopped after shutdown, got %v", err)
		}

		report := handle.Report()
		if report == nil {
			t.Fatal("batch should have reached a terminal state during shutdown")
		}
		// The in-flight item finishes; whether the second item ran depends on
		// timing, but the batch must be terminal either way.
		if report.Status != StatusCompleted && report.Status != StatusAborted {
			t.Errorf("unexpected terminal status %s", report.Status)
		}
	})
}
