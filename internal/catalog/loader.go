// Package catalog owns the song catalog: all-or-nothing decoding of the
// JSON document, the bundled-file and remote sources, the snapshot store,
// and the reload watcher.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

// record mirrors one catalog document entry. Pointer fields distinguish
// "absent" from "zero value" so the decode can reject incomplete entries.
type record struct {
	ID              *int    `json:"id"`
	Title           *string `json:"title"`
	Lyrics          *string `json:"lyrics"`
	BackgroundColor *string `json:"backgroundColor"`
	ForegroundColor *string `json:"foregroundColor"`
}

// Decode parses a catalog document into a Catalog snapshot.
//
// The document is a JSON array of song objects. Unknown extra fields are
// ignored. Any missing required field, an id outside 0-255, or a
// duplicate id fails the decode of the whole sequence.
func Decode(data []byte) (domain.Catalog, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed catalog document: %w", err)
	}

	catalog := make(domain.Catalog, 0, len(records))
	seen := make(map[uint8]bool, len(records))

	for i, r := range records {
		switch {
		case r.ID == nil:
			return nil, fmt.Errorf("catalog entry %d: missing field 'id'", i)
		case r.Title == nil:
			return nil, fmt.Errorf("catalog entry %d: missing field 'title'", i)
		case r.Lyrics == nil:
			return nil, fmt.Errorf("catalog entry %d: missing field 'lyrics'", i)
		case r.BackgroundColor == nil:
			return nil, fmt.Errorf("catalog entry %d: missing field 'backgroundColor'", i)
		case r.ForegroundColor == nil:
			return nil, fmt.Errorf("catalog entry %d: missing field 'foregroundColor'", i)
		}

		if *r.ID < 0 || *r.ID > 255 {
			return nil, fmt.Errorf("catalog entry %d: id %d out of range 0-255", i, *r.ID)
		}

		id := uint8(*r.ID)
		if seen[id] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %d", i, id)
		}
		seen[id] = true

		catalog = append(catalog, domain.Song{
			ID:              id,
			Title:           *r.Title,
			Lyrics:          *r.Lyrics,
			BackgroundColor: *r.BackgroundColor,
			ForegroundColor: *r.ForegroundColor,
		})
	}

	return catalog, nil
}

// FileSource loads the catalog from a bundled file on disk
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the given file path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load returns the raw catalog document
func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// Describe returns a human-readable origin for logging
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// RemoteFetcher downloads raw bytes from a URL
type RemoteFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RemoteSource loads the catalog from the configured remote URL
type RemoteSource struct {
	fetcher RemoteFetcher
	url     string
}

// NewRemoteSource creates a source fetching the given URL
func NewRemoteSource(fetcher RemoteFetcher, url string) *RemoteSource {
	return &RemoteSource{fetcher: fetcher, url: url}
}

// Load returns the raw catalog document
func (s *RemoteSource) Load(ctx context.Context) ([]byte, error) {
	return s.fetcher.Fetch(ctx, s.url)
}

// Describe returns a human-readable origin for logging
func (s *RemoteSource) Describe() string {
	return "remote:" + s.url
}

// Loader ties a source to the store: it loads, decodes and swaps in a new
// snapshot. A failed load or decode keeps the previous snapshot (empty at
// first launch) and is never fatal for the process.
type Loader struct {
	logger *zap.Logger
	source domain.Source
	store  *Store
}

// NewLoader creates a loader for the given source and store
func NewLoader(logger *zap.Logger, source domain.Source, store *Store) *Loader {
	return &Loader{
		logger: logger,
		source: source,
		store:  store,
	}
}

// Reload loads and decodes the catalog and swaps it into the store.
// On failure the store keeps its current snapshot.
func (l *Loader) Reload(ctx context.Context) error {
	data, err := l.source.Load(ctx)
	if err != nil {
		l.logger.Warn("Catalog load failed, keeping previous snapshot",
			zap.String("source", l.source.Describe()),
			zap.Error(err))
		return err
	}

	catalog, err := Decode(data)
	if err != nil {
		l.logger.Warn("Catalog decode failed, keeping previous snapshot",
			zap.String("source", l.source.Describe()),
			zap.Error(err))
		return err
	}

	l.store.Swap(catalog)

	l.logger.Info("Catalog loaded",
		zap.String("source", l.source.Describe()),
		zap.Int("songs", len(catalog)))
	return nil
}
