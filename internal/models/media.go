package models

import (
	"fmt"
	"time"
)

// MediaRecord is a persisted media library entry. The store owns the record
// lifecycle; enrichment only reads the URI and writes the descriptive fields.
type MediaRecord struct {
	id        int64
	uri       string
	title     string
	album     string
	artist    string
	duration  int64
	artwork   []byte
	createdAt time.Time
	updatedAt time.Time
}

// NewMediaRecord creates an unenriched record pointing at the given source
// locator. Descriptive fields start at their sentinels.
func NewMediaRecord(uri string) *MediaRecord {
	now := time.Now()
	return &MediaRecord{
		uri:       uri,
		title:     UnknownString,
		album:     UnknownString,
		artist:    UnknownString,
		duration:  UnknownInteger,
		createdAt: now,
		updatedAt: now,
	}
}

func (m *MediaRecord) ID() int64            { return m.id }
func (m *MediaRecord) URI() string          { return m.uri }
func (m *MediaRecord) Title() string        { return m.title }
func (m *MediaRecord) Album() string        { return m.album }
func (m *MediaRecord) Artist() string       { return m.artist }
func (m *MediaRecord) Duration() int64      { return m.duration }
func (m *MediaRecord) Artwork() []byte      { return m.artwork }
func (m *MediaRecord) CreatedAt() time.Time { return m.createdAt }
func (m *MediaRecord) UpdatedAt() time.Time { return m.updatedAt }

func (m *MediaRecord) SetID(id int64)            { m.id = id }
func (m *MediaRecord) SetURI(uri string)         { m.uri = uri }
func (m *MediaRecord) SetTitle(title string)     { m.title = title }
func (m *MediaRecord) SetAlbum(album string)     { m.album = album }
func (m *MediaRecord) SetArtist(artist string)   { m.artist = artist }
func (m *MediaRecord) SetDuration(d int64)       { m.duration = d }
func (m *MediaRecord) SetArtwork(b []byte)       { m.artwork = b }
func (m *MediaRecord) SetCreatedAt(ts time.Time) { m.createdAt = ts }
func (m *MediaRecord) SetUpdatedAt(ts time.Time) { m.updatedAt = ts }

// Validate checks the record's descriptive fields. Descriptive fields are
// either sentinels or non-empty normalized text; a duration below the
// sentinel is invalid.
func (m *MediaRecord) Validate() error {
	if m.title == "" || m.album == "" || m.artist == "" {
		return fmt.Errorf("descriptive fields must be sentinel or non-empty")
	}
	if m.duration < UnknownInteger {
		return fmt.Errorf("invalid duration: %d", m.duration)
	}
	return nil
}

// Enriched reports whether any descriptive field holds a non-sentinel value.
func (m *MediaRecord) Enriched() bool {
	return m.title != UnknownString ||
		m.album != UnknownString ||
		m.artist != UnknownString ||
		m.duration != UnknownInteger
}

// MetadataUpdate is the normalized field set an enrichment pass writes for a
// single record. A nil Artwork leaves the artwork column untouched.
type MetadataUpdate struct {
	Title    string
	Album    string
	Artist   string
	Duration int64
	Artwork  []byte
}

// Validate ensures the update only carries storage-safe values.
func (u MetadataUpdate) Validate() error {
	if u.Title == "" || u.Album == "" || u.Artist == "" {
		return fmt.Errorf("update fields must be sentinel or non-empty")
	}
	if u.Duration < UnknownInteger {
		return fmt.Errorf("invalid duration: %d", u.Duration)
	}
	return nil
}
