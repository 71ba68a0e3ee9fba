package enrich

import (
	"strconv"
	"strings"

	"github.com/mvollmer/discotag/internal/models"
)

// NormalizeText maps raw extracted text to a storage-safe value: blank input
// becomes the unknown sentinel, anything else is trimmed of surrounding
// whitespace.
func NormalizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.UnknownString
	}
	return trimmed
}

// NormalizeDuration parses a raw duration value as a base-10 integer.
// Blank or unparseable input maps to the unknown sentinel; parse errors are
// swallowed, never propagated.
func NormalizeDuration(raw string) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.UnknownInteger
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return models.UnknownInteger
	}
	return n
}

// WorthStoring reports whether extracted metadata carries enough identifying
// text to be worth persisting. A record with only a duration or artwork adds
// no discoverable value and would overwrite good data with sentinels, so the
// write is skipped only when title, album, and artist are all absent.
func WorthStoring(title, album, artist string) bool {
	return strings.TrimSpace(title) != "" ||
		strings.TrimSpace(album) != "" ||
		strings.TrimSpace(artist) != ""
}
