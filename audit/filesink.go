package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FileSink appends events to a file as JSON lines.
type FileSink struct {
	fs   afero.Fs
	path string
	f    afero.File
	enc  zerolog.Logger
	now  func() time.Time
}

// OpenFileSink opens path for appending, creating it and its parent
// directories if needed. Write failures are reported to diag and never to
// the recording caller.
func OpenFileSink(fsys afero.Fs, path string, diag zerolog.Logger) (*FileSink, error) {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileSink{
		fs:   fsys,
		path: path,
		f:    f,
		enc:  zerolog.New(reportingWriter{w: f, diag: diag}),
		now:  time.Now,
	}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Record(actorID, actorName, action, details string) {
	s.enc.Log().
		Str("time", s.now().Format(time.RFC3339Nano)).
		Str("actor_id", actorID).
		Str("actor", actorName).
		Str("action", action).
		Str("details", details).
		Send()
}

// Events reads back everything recorded in the file so far.
func (s *FileSink) Events() ([]Event, error) {
	return ReadEvents(s.fs, s.path)
}

func (s *FileSink) Close() error {
	return s.f.Close()
}

var _ Sink = (*FileSink)(nil)

// ReadEvents parses an audit log. A missing file holds no events.
func ReadEvents(fsys afero.Fs, path string) ([]Event, error) {
	f, err := fsys.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return events, fmt.Errorf("audit log %s line %d: %w", path, line, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return events, fmt.Errorf("read audit log: %w", err)
	}
	return events, nil
}

// reportingWriter logs write failures and swallows them so that zerolog does
// not print its own complaint.
type reportingWriter struct {
	w    io.Writer
	diag zerolog.Logger
}

func (r reportingWriter) Write(p []byte) (int, error) {
	if _, err := r.w.Write(p); err != nil {
		r.diag.Error().Err(err).Msg("Failed to write audit event")
	}
	return len(p), nil
}
