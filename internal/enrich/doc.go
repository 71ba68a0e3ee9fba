// Package enrich implements batch metadata enrichment with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] walks a [models.Batch] sequentially. For each identifier it:
//
//  1. Resolves the record's source locator through the [Store]; a missing
//     locator means nothing to enrich, not an error
//  2. Opens an extraction session for the locator via [metadata.Extractor];
//     an extraction failure is logged and the batch continues
//  3. Reads the artwork flag from [Settings] (fresh per item) and pulls
//     embedded artwork only when enabled
//  4. Normalizes the raw values and skips the write when no identifying text
//     was extracted
//  5. Writes the normalized fields as a single-row store update
//  6. Fires the [Notifier] exactly once when the batch's active index has
//     been processed, so a now-playing consumer can re-read the store
//
// Per-item failures never abort a batch. A run terminates Aborted only when
// the store itself becomes unreachable or the context is cancelled; otherwise
// it Completes regardless of how many items were skipped or failed, and the
// per-item [ItemResult] values in the [Report] are the real outcome.
//
// # Scheduling
//
// The [Scheduler] runs each submitted batch on its own goroutine and hands
// back a [Handle]. Batches may run concurrently with each other; items within
// a batch are strictly ordered because an extraction session is not safe for
// concurrent use. Shutdown lets the in-flight item finish and stops the run
// between items.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates; sends use
// select with default so a slow consumer can never stall enrichment.
package enrich
