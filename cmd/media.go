package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mvollmer/discotag/internal/formatter"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
	"github.com/urfave/cli/v3"
)

// Add registers a new media record identified by its locator.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	uri := strings.TrimSpace(cmd.StringArg("uri"))
	if uri == "" {
		return fmt.Errorf("%w: uri is required", shared.ErrMissingArgument)
	}

	r.reloadConfig(cmd.String("config"))

	repo, release, err := r.repository()
	if err != nil {
		return err
	}
	defer release()

	rec := models.NewMediaRecord(uri)
	if title := cmd.String("title"); title != "" {
		rec.SetTitle(title)
	}
	if artist := cmd.String("artist"); artist != "" {
		rec.SetArtist(artist)
	}
	if album := cmd.String("album"); album != "" {
		rec.SetAlbum(album)
	}

	if err := repo.Create(rec); err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	r.logger.Info("record added", "id", rec.ID(), "uri", rec.URI())

	if cmd.Bool("json") {
		return r.writeJSON(recordPayload(rec), cmd.Bool("pretty"))
	}
	return r.writePlain("Added record %d (%s)\n", rec.ID(), rec.URI())
}

// List prints stored records in the requested format.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	repo, release, err := r.repository()
	if err != nil {
		return err
	}
	defer release()

	criteria := map[string]any{}
	if cmd.Bool("enriched") {
		criteria["enriched"] = true
	} else if cmd.Bool("pending") {
		criteria["enriched"] = false
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			payload = append(payload, recordPayload(rec))
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("No records found\n")
	}

	var output []byte
	switch format := cmd.String("format"); format {
	case "csv":
		output, err = formatter.RecordsToCSV(records)
	case "markdown", "md":
		output, err = formatter.RecordsToMarkdown(records)
	case "text", "":
		output, err = formatter.RecordsToText(records)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format records: %w", err)
	}

	_, err = r.output.Write(output)
	return err
}

// Show prints a single record by identifier.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	idArg := strings.TrimSpace(cmd.StringArg("id"))
	if idArg == "" {
		return fmt.Errorf("%w: id is required", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer, got %q", shared.ErrInvalidArgument, idArg)
	}

	r.reloadConfig(cmd.String("config"))

	repo, release, err := r.repository()
	if err != nil {
		return err
	}
	defer release()

	rec, err := repo.Get(id)
	if err != nil {
		return fmt.Errorf("failed to fetch record %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recordPayload(rec), cmd.Bool("pretty"))
	}

	output, err := formatter.RecordsToText([]*models.MediaRecord{rec})
	if err != nil {
		return fmt.Errorf("failed to format record: %w", err)
	}
	_, err = r.output.Write(output)
	return err
}

// recordPayload flattens a record for JSON output.
func recordPayload(rec *models.MediaRecord) map[string]any {
	return map[string]any{
		"id":       rec.ID(),
		"uri":      rec.URI(),
		"title":    rec.Title(),
		"album":    rec.Album(),
		"artist":   rec.Artist(),
		"duration": rec.Duration(),
		"length":   shared.FormatDuration(rec.Duration()),
		"artwork":  len(rec.Artwork()) > 0,
		"enriched": rec.Enriched(),
	}
}
