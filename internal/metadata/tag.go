package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dhowden/tag"
	"github.com/mvollmer/discotag/internal/shared"
)

// defaultMaxFetchBytes caps remote downloads when no limit is configured (4 MiB).
const defaultMaxFetchBytes = 4 << 20

// TagExtractor reads metadata from local files and HTTP sources using dhowden/tag.
//
// Remote sources are fetched with a bounded, context-aware request; only the
// leading MaxFetchBytes of the stream are read, which is enough for ID3/MP4
// tag headers without downloading whole media files.
type TagExtractor struct {
	client        *http.Client
	maxFetchBytes int64
	logger        *log.Logger
}

// TagExtractorOpts contains configuration options for creating a TagExtractor.
type TagExtractorOpts struct {
	Timeout       time.Duration // Per-request bound on remote fetches
	MaxFetchBytes int64         // Cap on bytes read from a remote stream
	Client        *http.Client  // Optional preconfigured HTTP client
	Logger        *log.Logger
}

// NewTagExtractor creates a TagExtractor with the provided options.
func NewTagExtractor(opts TagExtractorOpts) *TagExtractor {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.MaxFetchBytes <= 0 {
		opts.MaxFetchBytes = defaultMaxFetchBytes
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &TagExtractor{
		client:        opts.Client,
		maxFetchBytes: opts.MaxFetchBytes,
		logger:        opts.Logger,
	}
}

// Open resolves the locator's scheme and returns an extraction session.
//
// Plain paths and file:// URLs read from disk; http:// and https:// fetch the
// source over the network. Anything else wraps [shared.ErrUnsupportedLocator].
func (e *TagExtractor) Open(ctx context.Context, locator string) (Session, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("%w: empty locator", shared.ErrExtraction)
	}

	u, err := url.Parse(locator)
	if err != nil {
		// Not a URL, treat it as a filesystem path.
		return e.openFile(locator)
	}

	switch u.Scheme {
	case "", "file":
		path := locator
		if u.Scheme == "file" {
			path = u.Path
		}
		return e.openFile(path)
	case "http", "https":
		return e.fetch(ctx, locator)
	default:
		return nil, fmt.Errorf("%w: scheme %q", shared.ErrUnsupportedLocator, u.Scheme)
	}
}

// openFile opens a local source. The file handle stays open for the lifetime
// of the session and is released by Close.
func (e *TagExtractor) openFile(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", shared.ErrExtraction, path, err)
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: parse %s: %v", shared.ErrExtraction, path, err)
	}

	return &tagSession{meta: m, closer: f, logger: e.logger}, nil
}

// fetch downloads the leading bytes of a remote source and parses them in memory.
func (e *TagExtractor) fetch(ctx context.Context, locator string) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", shared.ErrExtraction, locator, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return nil, fmt.Errorf("%w: fetch %s: %v", shared.ErrTimeout, locator, err)
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", shared.ErrExtraction, locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: fetch %s: status %d", shared.ErrExtraction, locator, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrExtraction, locator, err)
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", shared.ErrExtraction, locator, err)
	}

	return &tagSession{meta: m, logger: e.logger}, nil
}

// tagSession adapts a parsed tag.Metadata to the Session interface.
type tagSession struct {
	meta   tag.Metadata
	closer io.Closer
	logger *log.Logger
}

func (s *tagSession) Get(key Key) (string, bool) {
	var value string

	switch key {
	case KeyTitle:
		value = s.meta.Title()
	case KeyAlbum:
		value = s.meta.Album()
	case KeyArtist:
		value = s.meta.Artist()
	case KeyDuration:
		value = durationFrame(s.meta)
	}

	return value, strings.TrimSpace(value) != ""
}

// Artwork returns embedded picture bytes. A malformed picture frame must not
// fail the item, so decode problems degrade to "no artwork".
func (s *tagSession) Artwork() (data []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("artwork decode failed", "panic", r)
			data = nil
		}
	}()

	pic := s.meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil
	}
	return pic.Data
}

func (s *tagSession) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// durationFrame digs the track length out of the raw tag frames. ID3v2 stores
// it as the TLEN text frame (milliseconds); vorbis-style comments use LENGTH.
func durationFrame(m tag.Metadata) string {
	raw := m.Raw()
	for _, frame := range []string{"TLEN", "LENGTH", "length"} {
		if v, ok := raw[frame]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}
