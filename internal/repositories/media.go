package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
)

// MediaRepository implements models.Repository[*models.MediaRecord] over the media table.
//
// The store assigns identifiers on insert. Enrichment passes never create or
// delete rows; they read the uri column and update the descriptive columns.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new MediaRepository with the given database connection
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new [models.MediaRecord] and assigns its store identifier.
func (r *MediaRepository) Create(rec *models.MediaRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO media (uri, title, album, artist, duration, artwork, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		rec.URI(),
		rec.Title(),
		rec.Album(),
		rec.Artist(),
		rec.Duration(),
		rec.Artwork(),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert media record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	rec.SetID(id)

	return nil
}

// Get retrieves a media record by ID
func (r *MediaRepository) Get(id int64) (*models.MediaRecord, error) {
	query := `
		SELECT id, uri, title, album, artist, duration, artwork, created_at, updated_at
		FROM media
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update writes a record's locator and descriptive fields back to the store
func (r *MediaRepository) Update(rec *models.MediaRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	rec.SetUpdatedAt(now)

	query := `
		UPDATE media
		SET uri = ?, title = ?, album = ?, artist = ?, duration = ?, artwork = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		rec.URI(),
		rec.Title(),
		rec.Album(),
		rec.Artist(),
		rec.Duration(),
		rec.Artwork(),
		now,
		rec.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update media record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrRecordNotFound, rec.ID())
	}

	return nil
}

// Delete removes a media record by ID
func (r *MediaRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM media WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrRecordNotFound, id)
	}

	return nil
}

// List retrieves all media records matching the given criteria
func (r *MediaRepository) List(criteria map[string]any) ([]*models.MediaRecord, error) {
	query := `
		SELECT id, uri, title, album, artist, duration, artwork, created_at, updated_at
		FROM media
		WHERE 1 = 1
	`

	args := []any{}

	if enriched, ok := criteria["enriched"].(bool); ok {
		if enriched {
			query += " AND (title != ? OR album != ? OR artist != ?)"
		} else {
			query += " AND title = ? AND album = ? AND artist = ?"
		}
		args = append(args, models.UnknownString, models.UnknownString, models.UnknownString)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media records: %w", err)
	}
	defer rows.Close()

	var records []*models.MediaRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// FindLocator returns the source locator for the given identifier.
//
// Absence is not an error: a missing row or an empty uri column both return
// an empty locator, which callers treat as "nothing to enrich".
func (r *MediaRepository) FindLocator(id int64) (string, error) {
	var uri sql.NullString

	err := r.db.QueryRow("SELECT uri FROM media WHERE id = ?", id).Scan(&uri)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query locator: %w", err)
	}

	if !uri.Valid {
		return "", nil
	}
	return uri.String, nil
}

// UpdateMetadata writes the normalized descriptive fields for a single record
// and returns the number of rows affected. Zero rows means the identifier no
// longer exists, which is not an error. The artwork column is only touched
// when the update carries artwork.
func (r *MediaRepository) UpdateMetadata(id int64, upd models.MetadataUpdate) (int64, error) {
	if err := upd.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	var result sql.Result
	var err error

	if upd.Artwork != nil {
		query := `
			UPDATE media
			SET title = ?, album = ?, artist = ?, duration = ?, artwork = ?, updated_at = ?
			WHERE id = ?
		`
		result, err = r.db.Exec(query, upd.Title, upd.Album, upd.Artist, upd.Duration, upd.Artwork, time.Now(), id)
	} else {
		query := `
			UPDATE media
			SET title = ?, album = ?, artist = ?, duration = ?, updated_at = ?
			WHERE id = ?
		`
		result, err = r.db.Exec(query, upd.Title, upd.Album, upd.Artist, upd.Duration, time.Now(), id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update metadata: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// Ping reports whether the underlying store is still reachable.
func (r *MediaRepository) Ping() error {
	if err := r.db.Ping(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// scanOne scans a single [sql.Row] into a [models.MediaRecord]
func (r *MediaRepository) scanOne(row *sql.Row) (*models.MediaRecord, error) {
	var (
		id        int64
		uri       sql.NullString
		title     string
		album     string
		artist    string
		duration  int64
		artwork   []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &uri, &title, &album, &artist, &duration, &artwork, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: media record", shared.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media record: %w", err)
	}

	return buildRecord(id, uri, title, album, artist, duration, artwork, createdAt, updatedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.MediaRecord]
func (r *MediaRepository) scanRow(rows *sql.Rows) (*models.MediaRecord, error) {
	var (
		id        int64
		uri       sql.NullString
		title     string
		album     string
		artist    string
		duration  int64
		artwork   []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(&id, &uri, &title, &album, &artist, &duration, &artwork, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan media record: %w", err)
	}

	return buildRecord(id, uri, title, album, artist, duration, artwork, createdAt, updatedAt), nil
}

func buildRecord(id int64, uri sql.NullString, title, album, artist string, duration int64, artwork []byte, createdAt, updatedAt time.Time) *models.MediaRecord {
	rec := models.NewMediaRecord(uri.String)
	rec.SetID(id)
	rec.SetTitle(title)
	rec.SetAlbum(album)
	rec.SetArtist(artist)
	rec.SetDuration(duration)
	rec.SetArtwork(artwork)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)
	return rec
}
