// Package metadata wraps tag extraction behind a session-oriented adapter.
//
// An [Extractor] opens a source locator (local path or HTTP URL) and yields a
// [Session] from which individual metadata keys are read. Extraction failure
// is an expected per-item condition, reported by wrapping
// [shared.ErrExtraction] so callers can classify it with [errors.Is] and move
// on to the next item.
package metadata

import (
	"context"
)

// Key identifies a single metadata attribute readable from a [Session].
type Key string

const (
	KeyTitle    Key = "title"
	KeyAlbum    Key = "album"
	KeyArtist   Key = "artist"
	KeyDuration Key = "duration"
)

// Session is one item's open extraction handle.
//
// Sessions are not safe for concurrent use and must be closed on every path,
// success or failure, to release the underlying reader.
type Session interface {
	// Get returns the raw (untrimmed) value for the key. The second return
	// is false when the source carries no value for it.
	Get(key Key) (string, bool)

	// Artwork returns the embedded picture bytes, or nil when the source has
	// none or the picture cannot be decoded. Callers should only invoke this
	// when artwork extraction is enabled; it is the expensive call.
	Artwork() []byte

	// Close releases the session's underlying resources.
	Close() error
}

// Extractor opens source locators for metadata extraction.
type Extractor interface {
	Open(ctx context.Context, locator string) (Session, error)
}
