package enrich

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mvollmer/discotag/internal/metadata"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
	"golang.org/x/time/rate"
)

// Store is the narrow view of the record store the engine depends on.
// repositories.MediaRepository satisfies it.
type Store interface {
	// FindLocator returns the source locator for an identifier, or an empty
	// string when there is nothing to enrich. Absence is not an error.
	FindLocator(id int64) (string, error)

	// UpdateMetadata writes normalized fields for a single record and
	// returns the number of rows affected; zero rows is not an error.
	UpdateMetadata(id int64, upd models.MetadataUpdate) (int64, error)

	// Ping reports whether the store is still reachable, used to classify a
	// write failure as systemic.
	Ping() error
}

// Settings supplies the artwork-extraction flag. The engine reads it fresh
// for every item so a change takes effect mid-batch.
type Settings interface {
	ArtworkEnabled() bool
}

// SettingsFunc adapts a function to the Settings interface.
type SettingsFunc func() bool

func (f SettingsFunc) ArtworkEnabled() bool { return f() }

// Notifier receives the fire-and-forget signal that the batch's active item
// has fresher metadata. Delivery is best-effort; the engine invokes it
// synchronously on its own goroutine.
type Notifier interface {
	NotifyActiveItemUpdated()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func()

func (f NotifierFunc) NotifyActiveItemUpdated() { f() }

// Outcome tags the result of processing a single batch item.
type Outcome int

const (
	OutcomeWritten Outcome = iota
	OutcomeSkippedNoLocator
	OutcomeSkippedNoFields
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkippedNoLocator:
		return "skipped (no locator)"
	case OutcomeSkippedNoFields:
		return "skipped (no identifying fields)"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

// ItemResult records the outcome of one item within a batch.
type ItemResult struct {
	ID           int64   // Record identifier
	Index        int     // Position within the batch
	Outcome      Outcome // What happened to the item
	Err          error   // Failure detail when Outcome is OutcomeFailed
	RowsAffected int64   // Rows touched by the write, when one happened
	Notified     bool    // Whether this item triggered the active-item signal

	// storeFailure marks write/read errors against the store so the engine
	// can probe for a systemic outage.
	storeFailure bool
}

// Status is the terminal state of a batch run.
type Status int

const (
	StatusCompleted Status = iota
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return ""
	}
}

// Report is a batch's terminal result. Per-item outcomes are the real
// product of a run; the batch itself only distinguishes "ran to completion"
// from a systemic abort.
type Report struct {
	BatchSize    int
	Status       Status
	Items        []ItemResult
	WrittenCount int
	SkippedCount int
	FailedCount  int
	Err          error // Systemic failure detail when Status is StatusAborted
}

// Engine walks a batch sequentially: resolve locator, extract metadata,
// normalize, write, and fire the active-item notification. Per-item failures
// are absorbed; the batch aborts only when the store becomes unreachable or
// the context is cancelled.
//
// Engines are stateless between runs and safe for concurrent use by multiple
// batches; within one batch items are strictly ordered.
type Engine struct {
	store     Store
	extractor metadata.Extractor
	settings  Settings
	notifier  Notifier
	limiter   *rate.Limiter
	logger    *log.Logger
}

// EngineOpts contains the engine's collaborators.
type EngineOpts struct {
	Store     Store
	Extractor metadata.Extractor
	Settings  Settings
	Notifier  Notifier
	Limiter   *rate.Limiter // Optional throttle on extractions
	Logger    *log.Logger
}

// NewEngine creates an enrichment engine with the provided collaborators.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Settings == nil {
		opts.Settings = SettingsFunc(func() bool { return false })
	}

	return &Engine{
		store:     opts.Store,
		extractor: opts.Extractor,
		settings:  opts.Settings,
		notifier:  opts.Notifier,
		limiter:   opts.Limiter,
		logger:    opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes one enrichment pass over the batch and returns its report.
//
// Items are processed strictly in order, one at a time. The active-item
// notification fires exactly once, synchronously, immediately after the
// active index's item resolves (write, skip, or failure), and never for any
// other index.
func (e *Engine) Run(ctx context.Context, batch models.Batch, progress chan<- ProgressUpdate) *Report {
	report := &Report{BatchSize: len(batch.IDs), Status: StatusCompleted}

	if err := batch.Validate(); err != nil {
		report.Status = StatusAborted
		report.Err = fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		return report
	}

	total := len(batch.IDs)
	e.sendProgress(progress, batchStartedUpdate(total))

	for i, id := range batch.IDs {
		if err := ctx.Err(); err != nil {
			report.Status = StatusAborted
			report.Err = fmt.Errorf("%w: %v", shared.ErrBatchAborted, err)
			break
		}

		res := e.processItem(ctx, i, id)

		if i == batch.ActiveIndex {
			// The downstream consumer re-reads the store on this signal, so
			// it must land after the item's write attempt has resolved.
			e.notify()
			res.Notified = true
			e.sendProgress(progress, activeNotifiedUpdate(i+1, total, id))
		}

		report.Items = append(report.Items, res)
		switch res.Outcome {
		case OutcomeWritten:
			report.WrittenCount++
		case OutcomeFailed:
			report.FailedCount++
		default:
			report.SkippedCount++
		}

		e.sendProgress(progress, itemProcessedUpdate(i+1, total, res))

		if res.Outcome == OutcomeFailed && res.storeFailure {
			if pingErr := e.store.Ping(); pingErr != nil {
				report.Status = StatusAborted
				report.Err = fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, pingErr)
				e.logger.Error("record store unreachable, aborting batch", "error", pingErr)
				break
			}
		}
	}

	e.sendProgress(progress, batchFinishedUpdate(report))
	return report
}

// processItem runs the resolve → extract → normalize → write sequence for one
// item. Every failure path is absorbed into the returned result so a single
// bad item can never escape the batch loop.
func (e *Engine) processItem(ctx context.Context, index int, id int64) ItemResult {
	res := ItemResult{ID: id, Index: index}

	locator, err := e.store.FindLocator(id)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.storeFailure = true
		e.logger.Warn("locator lookup failed", "id", id, "error", err)
		return res
	}
	if locator == "" {
		// Missing record or empty locator: nothing to enrich.
		res.Outcome = OutcomeSkippedNoLocator
		e.logger.Debug("no locator, skipping", "id", id)
		return res
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("%w: %v", shared.ErrBatchAborted, err)
			return res
		}
	}

	session, err := e.extractor.Open(ctx, locator)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		e.logger.Warn("metadata extraction failed", "id", id, "locator", locator, "error", err)
		return res
	}
	defer session.Close()

	title, _ := session.Get(metadata.KeyTitle)
	album, _ := session.Get(metadata.KeyAlbum)
	artist, _ := session.Get(metadata.KeyArtist)
	duration, _ := session.Get(metadata.KeyDuration)

	// The flag is read per item, not cached for the batch, so a mid-run
	// configuration change applies to subsequent items.
	var artwork []byte
	if e.settings.ArtworkEnabled() {
		artwork = session.Artwork()
	}

	if !WorthStoring(title, album, artist) {
		res.Outcome = OutcomeSkippedNoFields
		e.logger.Debug("no identifying fields, skipping write", "id", id)
		return res
	}

	upd := models.MetadataUpdate{
		Title:    NormalizeText(title),
		Album:    NormalizeText(album),
		Artist:   NormalizeText(artist),
		Duration: NormalizeDuration(duration),
		Artwork:  artwork,
	}

	rows, err := e.store.UpdateMetadata(id, upd)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.storeFailure = true
		e.logger.Warn("metadata write failed", "id", id, "error", err)
		return res
	}

	res.Outcome = OutcomeWritten
	res.RowsAffected = rows
	return res
}

// notify delivers the active-item signal, swallowing a misbehaving sink.
func (e *Engine) notify() {
	if e.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("notification sink panicked", "panic", r)
		}
	}()
	e.notifier.NotifyActiveItemUpdated()
}
