// package formatter provides functions to export media records and enrichment reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/mvollmer/discotag/internal/enrich"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
)

// RecordsToCSV converts media records to CSV format with columns: ID, Title, Artist, Album, Duration, URI, Artwork
func RecordsToCSV(records []*models.MediaRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URI", "Artwork"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID(), 10),
			rec.Title(),
			rec.Artist(),
			rec.Album(),
			strconv.FormatInt(rec.Duration(), 10),
			rec.URI(),
			artworkMarker(rec.Artwork()),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecordsToMarkdown converts media records to a Markdown listing
func RecordsToMarkdown(records []*models.MediaRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Media Library\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n\n", len(records)))

	for i, rec := range records {
		duration := shared.FormatDuration(rec.Duration())
		albumPart := ""
		if rec.Album() != models.UnknownString {
			albumPart = fmt.Sprintf(" (%s)", rec.Album())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, rec.Artist(), rec.Title(), albumPart, duration))
	}

	return buf.Bytes(), nil
}

// RecordsToText converts media records to plain text format
func RecordsToText(records []*models.MediaRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Records: %d\n\n", len(records)))

	for _, rec := range records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", rec.ID(), rec.Artist(), rec.Title(), shared.FormatDuration(rec.Duration())))
		if rec.URI() != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", rec.URI()))
		}
	}

	return buf.Bytes(), nil
}

// ReportToText renders an enrichment report as plain text for CLI output
func ReportToText(report *enrich.Report) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Batch %s: %d items\n", report.Status, report.BatchSize))
	buf.WriteString(fmt.Sprintf("  written: %d  skipped: %d  failed: %d\n\n", report.WrittenCount, report.SkippedCount, report.FailedCount))

	for _, item := range report.Items {
		line := fmt.Sprintf("  [%d] item %d: %s", item.Index, item.ID, item.Outcome)
		if item.Err != nil {
			line += fmt.Sprintf(" (%v)", item.Err)
		}
		if item.Notified {
			line += " *active*"
		}
		buf.WriteString(line + "\n")
	}

	if report.Err != nil {
		buf.WriteString(fmt.Sprintf("\nbatch error: %v\n", report.Err))
	}

	return buf.Bytes()
}

func artworkMarker(artwork []byte) string {
	if len(artwork) == 0 {
		return ""
	}
	return fmt.Sprintf("%d bytes", len(artwork))
}
