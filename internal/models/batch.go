package models

import "fmt"

// NoActiveItem marks a batch without a designated active position.
const NoActiveItem = -1

// Batch is an ordered sequence of media record identifiers plus the position
// of the item currently active for playback. Batches are ephemeral; they
// exist only for the duration of one enrichment run.
type Batch struct {
	IDs         []int64
	ActiveIndex int
}

// NewBatch builds a batch over the given identifiers. Pass [NoActiveItem] as
// active when no item should trigger a refresh notification.
func NewBatch(ids []int64, active int) Batch {
	return Batch{IDs: ids, ActiveIndex: active}
}

// HasActive reports whether the batch designates an active item.
func (b Batch) HasActive() bool {
	return b.ActiveIndex != NoActiveItem
}

// Validate checks that the batch is non-empty and its active index, when
// present, falls inside the sequence.
func (b Batch) Validate() error {
	if len(b.IDs) == 0 {
		return fmt.Errorf("batch has no identifiers")
	}
	if b.ActiveIndex != NoActiveItem && (b.ActiveIndex < 0 || b.ActiveIndex >= len(b.IDs)) {
		return fmt.Errorf("active index %d out of range for %d items", b.ActiveIndex, len(b.IDs))
	}
	return nil
}
