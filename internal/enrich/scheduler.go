package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
)

// Handle tracks one submitted batch. The report becomes available once Done
// is closed.
type Handle struct {
	id     string
	done   chan struct{}
	report *Report
}

// ID returns the submission's unique identifier.
func (h *Handle) ID() string { return h.id }

// Done is closed when the batch has reached a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Report returns the batch's terminal report, or nil while it is still running.
func (h *Handle) Report() *Report {
	select {
	case <-h.done:
		return h.report
	default:
		return nil
	}
}

// Wait blocks until the batch finishes or the context is cancelled.
func (h *Handle) Wait(ctx context.Context) (*Report, error) {
	select {
	case <-h.done:
		return h.report, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Scheduler runs enrichment batches off the caller's goroutine. Batches are
// independent and may run concurrently with each other; ordering is only
// guaranteed within a batch.
type Scheduler struct {
	engine *Engine
	logger *log.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler around the given engine.
func NewScheduler(engine *Engine, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		engine:     engine,
		logger:     logger,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Submit validates the batch and starts its enrichment run on a background
// goroutine. It never blocks on the run itself; callers observe completion
// through the returned handle.
//
// The run stops between items when either the caller's context or the
// scheduler is cancelled; the in-flight item is allowed to finish so its
// extraction session is not torn down mid-read.
func (s *Scheduler) Submit(ctx context.Context, batch models.Batch, progress chan<- ProgressUpdate) (*Handle, error) {
	if err := batch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, shared.ErrSchedulerStopped
	}
	s.wg.Add(1)
	s.mu.Unlock()

	handle := &Handle{
		id:   shared.GenerateID(),
		done: make(chan struct{}),
	}

	runCtx, cancel := mergeCancel(ctx, s.baseCtx)

	s.logger.Info("batch submitted", "handle", handle.id, "items", len(batch.IDs), "active", batch.ActiveIndex)

	go func() {
		defer s.wg.Done()
		defer cancel()
		defer close(handle.done)

		handle.report = s.engine.Run(runCtx, batch, progress)
		s.logger.Info("batch finished",
			"handle", handle.id,
			"status", handle.report.Status.String(),
			"written", handle.report.WrittenCount,
			"skipped", handle.report.SkippedCount,
			"failed", handle.report.FailedCount,
		)
	}()

	return handle, nil
}

// Shutdown stops accepting submissions, cancels running batches between
// items, and waits for them to drain or the context to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.baseCancel()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())
	}
}

// mergeCancel derives a context from primary that is also cancelled when
// secondary is cancelled.
func mergeCancel(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(primary)
	if secondary == nil {
		return ctx, cancel
	}

	stop := context.AfterFunc(secondary, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
