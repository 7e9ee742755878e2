package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/record"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultPreviewChars is the preview window used when none is configured.
const DefaultPreviewChars = 500

// DocumentStore manages the document records under one root directory.
type DocumentStore struct {
	c            *collection[*record.Document]
	logger       zerolog.Logger
	now          func() time.Time
	previewChars int
}

// DocumentOption customizes a DocumentStore.
type DocumentOption func(*DocumentStore)

// WithClock replaces time.Now as the source of default upload dates.
func WithClock(now func() time.Time) DocumentOption {
	return func(s *DocumentStore) { s.now = now }
}

// WithPreviewChars sets the preview window in runes. Non-positive values keep
// the default.
func WithPreviewChars(n int) DocumentOption {
	return func(s *DocumentStore) {
		if n > 0 {
			s.previewChars = n
		}
	}
}

// NewDocumentStore opens the document root at root, creating it if missing.
func NewDocumentStore(fsys afero.Fs, root string, logger zerolog.Logger, opts ...DocumentOption) (*DocumentStore, error) {
	c, err := newCollection(fsys, root, record.DocumentFactory, logger)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	s := &DocumentStore{c: c, logger: logger, now: time.Now, previewChars: DefaultPreviewChars}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the directory holding the document records.
func (s *DocumentStore) Root() string {
	return s.c.root.Path()
}

// Create makes a new document with empty name and uploader, the current time
// as upload date and an empty blob. If a default cannot be written the
// partially populated directory is left in place.
func (s *DocumentStore) Create(id string) (*record.Document, error) {
	d, err := s.c.create(id)
	if err != nil {
		return nil, err
	}
	err = runSteps(
		func() error { return d.SetName("") },
		func() error { return d.SetUploaderID("") },
		func() error { return d.SetUploadDate(s.now()) },
		d.CreateEmptyContent,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to write document defaults")
		return nil, fmt.Errorf("populate document %s: %w", id, err)
	}
	return d, nil
}

func (s *DocumentStore) Rename(oldID, newID string) error {
	return s.c.rename(oldID, newID)
}

func (s *DocumentStore) Get(id string) (*record.Document, error) {
	return s.c.get(id)
}

func (s *DocumentStore) All() ([]*record.Document, error) {
	return s.c.all()
}

func (s *DocumentStore) Find(match func(*record.Document) bool) (*record.Document, error) {
	return s.c.find(match)
}

// FindByName returns the first document whose name equals name exactly.
func (s *DocumentStore) FindByName(name string) (*record.Document, error) {
	return s.c.find(func(d *record.Document) bool {
		n, ok := d.Name()
		return ok && n == name
	})
}

func (s *DocumentStore) Delete(id string) error {
	return s.c.delete(id)
}

// Download copies the blob of document id to dest.
func (s *DocumentStore) Download(id, dest string) error {
	d, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := d.CopyContentTo(dest); err != nil {
		return fmt.Errorf("download %s: %w", id, err)
	}
	return nil
}

// Filter narrows Search. Blank (empty or whitespace-only) strings and nil
// times do not constrain.
type Filter struct {
	UploaderID   string
	ID           string
	NameContains string // case-insensitive
	// After and Before are inclusive and compared by calendar day in their
	// own location.
	After  *time.Time
	Before *time.Time
}

func (f Filter) dated() bool {
	return f.After != nil || f.Before != nil
}

// Search returns every document matching all constraints of f, newest first.
func (s *DocumentStore) Search(f Filter) ([]*record.Document, error) {
	docs, err := s.SortedByDate()
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	if f.After != nil {
		from = startOfDay(*f.After)
	}
	if f.Before != nil {
		to = endOfDay(*f.Before)
	}
	needle := ""
	if !util.IsBlank(f.NameContains) {
		needle = strings.ToLower(f.NameContains)
	}

	out := make([]*record.Document, 0, len(docs))
	for _, d := range docs {
		if !util.IsBlank(f.ID) && d.ID() != f.ID {
			continue
		}
		if !util.IsBlank(f.UploaderID) {
			if u, ok := d.UploaderID(); !ok || u != f.UploaderID {
				continue
			}
		}
		if needle != "" {
			if n, ok := d.Name(); !ok || !strings.Contains(strings.ToLower(n), needle) {
				continue
			}
		}
		if f.dated() {
			date, ok := d.UploadDate()
			if !ok {
				continue
			}
			if f.After != nil && date.Before(from) {
				continue
			}
			if f.Before != nil && date.After(to) {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// SortedByDate lists every document by upload date, newest first. Unset
// dates count as the epoch and ties are broken by ascending id.
func (s *DocumentStore) SortedByDate() ([]*record.Document, error) {
	docs, err := s.All()
	if err != nil {
		return nil, err
	}

	type keyed struct {
		doc *record.Document
		ms  int64
	}
	keys := make([]keyed, len(docs))
	for i, d := range docs {
		keys[i].doc = d
		if t, ok := d.UploadDate(); ok {
			keys[i].ms = t.UnixMilli()
		}
	}
	slices.SortFunc(keys, func(a, b keyed) int {
		if c := cmp.Compare(b.ms, a.ms); c != 0 {
			return c
		}
		return strings.Compare(a.doc.ID(), b.doc.ID())
	})

	out := make([]*record.Document, len(keys))
	for i, k := range keys {
		out[i] = k.doc
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
