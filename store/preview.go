package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Preview is the leading text of a document with its metadata. Unset fields
// are zero values.
type Preview struct {
	ID         string
	Name       string
	UploaderID string
	UploadDate time.Time
	Text       string
	// Truncated is set only when content follows the preview window.
	Truncated bool
}

// Preview reads up to the configured number of runes from the blob of
// document id.
func (s *DocumentStore) Preview(id string) (*Preview, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	r, err := d.OpenContent()
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", id, err)
	}
	defer r.Close()

	text, truncated, err := readRunes(r, s.previewChars)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", id, err)
	}

	p := &Preview{ID: d.ID(), Text: text, Truncated: truncated}
	p.Name, _ = d.Name()
	p.UploaderID, _ = d.UploaderID()
	p.UploadDate, _ = d.UploadDate()
	return p, nil
}

// readRunes decodes at most limit runes of UTF-8 from r and reports whether any
// input remains after them. Invalid bytes decode as U+FFFD.
func readRunes(r io.Reader, limit int) (string, bool, error) {
	br := bufio.NewReader(r)
	var sb strings.Builder
	for i := 0; i < limit; i++ {
		c, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			return sb.String(), false, nil
		}
		if err != nil {
			return "", false, err
		}
		sb.WriteRune(c)
	}
	_, err := br.Peek(1)
	if errors.Is(err, io.EOF) {
		return sb.String(), false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sb.String(), true, nil
}
