// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/mvollmer/discotag/internal/metadata"
	"github.com/mvollmer/discotag/internal/shared"
)

// StubSession is a canned [metadata.Session] for tests.
type StubSession struct {
	Values  map[metadata.Key]string
	Art     []byte
	ArtGets int
	Closed  bool
}

func (s *StubSession) Get(key metadata.Key) (string, bool) {
	v, ok := s.Values[key]
	return v, ok && v != ""
}

func (s *StubSession) Artwork() []byte {
	s.ArtGets++
	return s.Art
}

func (s *StubSession) Close() error {
	s.Closed = true
	return nil
}

// StubExtractor serves canned sessions keyed by locator and fails everything else.
type StubExtractor struct {
	Sessions map[string]*StubSession
}

func (e *StubExtractor) Open(ctx context.Context, locator string) (metadata.Session, error) {
	if s, ok := e.Sessions[locator]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrExtraction, locator)
}

// CountingNotifier records active-item notifications.
type CountingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *CountingNotifier) NotifyActiveItemUpdated() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func (n *CountingNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
