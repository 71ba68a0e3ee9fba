package enrich

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a batch enrichment run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current item number within the batch
	Total   int    // Total items in the batch
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Operation phase enumeration
type Phase int

const (
	BatchStarted Phase = iota
	ItemProcessed
	ActiveNotified
	BatchFinished
)

func (p Phase) String() string {
	switch p {
	case BatchStarted:
		return "batch_started"
	case ItemProcessed:
		return "item_processed"
	case ActiveNotified:
		return "active_notified"
	case BatchFinished:
		return "batch_finished"
	default:
		return ""
	}
}

func batchStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchStarted,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Enriching %d items...", total),
	}
}

func itemProcessedUpdate(step, total int, res ItemResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] item %d: %s", step, total, res.ID, res.Outcome)
	if res.Err != nil {
		msg = fmt.Sprintf("[%d/%d] item %d: %s (%v)", step, total, res.ID, res.Outcome, res.Err)
	}
	return ProgressUpdate{
		Phase:   ItemProcessed,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func activeNotifiedUpdate(step, total int, id int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ActiveNotified,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Notified listeners for active item %d", id),
	}
}

func batchFinishedUpdate(report *Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchFinished,
		Step:    report.BatchSize,
		Total:   report.BatchSize,
		Message: fmt.Sprintf("Batch %s: %d written, %d skipped, %d failed", report.Status, report.WrittenCount, report.SkippedCount, report.FailedCount),
		Data:    report,
	}
}
