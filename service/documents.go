package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brettbedarf/docvault/audit"
	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/node"
	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Documents handles document operations. A nil actor is a guest, who may
// list, search, view and preview but not change or download anything. Only
// the uploader or an admin may change a document.
type Documents struct {
	store  *store.DocumentStore
	sink   audit.Sink
	logger zerolog.Logger
	newID  func() string
	now    func() time.Time
}

func NewDocuments(docs *store.DocumentStore, sink audit.Sink, logger zerolog.Logger) *Documents {
	return &Documents{store: docs, sink: sink, logger: logger, newID: uuid.NewString, now: time.Now}
}

func (s *Documents) requireAccount(a *record.Account, failed, details string) error {
	if a != nil {
		return nil
	}
	s.sink.Record(GuestActor, GuestActor, failed, details)
	return fmt.Errorf("%w: guests cannot %s", ErrUnauthorized, strings.ToLower(details))
}

// owned returns document id if a uploaded it or is an admin.
func (s *Documents) owned(a *record.Account, id, failed string) (*record.Document, error) {
	if err := s.requireAccount(a, failed, "Modify scroll "+id); err != nil {
		return nil, err
	}
	d, err := s.store.Get(id)
	if err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), failed, "Scroll not found: "+id)
		return nil, err
	}
	if uploader, _ := d.UploaderID(); uploader != a.ID() && !a.IsAdmin() {
		s.sink.Record(a.ID(), a.DisplayName(), failed, "Not the uploader of scroll: "+id)
		return nil, fmt.Errorf("%w: %s is not the uploader of %s", ErrUnauthorized, a.ID(), id)
	}
	return d, nil
}

// Create makes an empty document under id.
func (s *Documents) Create(a *record.Account, id string) (*record.Document, error) {
	if err := s.requireAccount(a, audit.AddScrollFailed, "Add scroll"); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, "Invalid scroll ID: "+id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	d, err := s.store.Create(id)
	if err != nil {
		if createFailed(err) {
			err = errors.Join(err, discard(s.store.Delete, id))
		}
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, err.Error())
		return nil, err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.AddScroll, "Created scroll ID: "+id)
	return d, nil
}

// Upload stores the file at sourcePath as a new document named name, owned
// by a. Names are unique.
func (s *Documents) Upload(a *record.Account, name, sourcePath string) (*record.Document, error) {
	if err := s.requireAccount(a, audit.AddScrollFailed, "Upload scroll"); err != nil {
		return nil, err
	}
	if util.IsBlank(name) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, "Scroll name cannot be empty")
		return nil, fmt.Errorf("%w: blank scroll name", ErrInvalidField)
	}
	if _, err := s.store.FindByName(name); err == nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, "A scroll with that name already exists: "+name)
		return nil, fmt.Errorf("scroll name %q: %w", name, node.AlreadyExists)
	}

	id := s.newID()
	d, err := s.store.Create(id)
	if err != nil {
		if createFailed(err) {
			err = errors.Join(err, discard(s.store.Delete, id))
		}
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, err.Error())
		return nil, err
	}

	err = errors.Join(
		d.SetName(name),
		d.SetUploaderID(a.ID()),
		d.SetContent(sourcePath),
		d.SetUploadDate(s.now()),
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("Rolling back upload")
		err = errors.Join(err, discard(s.store.Delete, id))
		s.sink.Record(a.ID(), a.DisplayName(), audit.AddScrollFailed, err.Error())
		return nil, err
	}

	s.sink.Record(a.ID(), a.DisplayName(), audit.AddScroll, "Created scroll ID: "+id)
	return d, nil
}

// Rename gives document id a new display name. Names are unique.
func (s *Documents) Rename(a *record.Account, id, newName string) error {
	d, err := s.owned(a, id, audit.UpdateScrollFailed)
	if err != nil {
		return err
	}
	if util.IsBlank(newName) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFailed, "Scroll name cannot be empty")
		return fmt.Errorf("%w: blank scroll name", ErrInvalidField)
	}
	if other, err := s.store.FindByName(newName); err == nil && other.ID() != id {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFailed, "A scroll with that name already exists: "+newName)
		return fmt.Errorf("scroll name %q: %w", newName, node.AlreadyExists)
	}
	if err := d.SetName(newName); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFailed, "Failed to set new name for scroll ID: "+id)
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScroll, "Updated scroll ID: "+id+" to new name: "+newName)
	return nil
}

// UpdateContent replaces the blob of document id and refreshes its upload date.
func (s *Documents) UpdateContent(a *record.Account, id, sourcePath string) error {
	d, err := s.owned(a, id, audit.UpdateScrollFileFailed)
	if err != nil {
		return err
	}
	if err := d.SetContent(sourcePath); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFileFailed, "Failed to update file for scroll ID: "+id)
		return err
	}
	if err := d.SetUploadDate(s.now()); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFileFailed, err.Error())
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateScrollFile, "Updated file for scroll ID: "+id)
	return nil
}

func (s *Documents) ChangeID(a *record.Account, oldID, newID string) error {
	if _, err := s.owned(a, oldID, audit.ChangeScrollIDFailed); err != nil {
		return err
	}
	if !ValidID(newID) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeScrollIDFailed, "Invalid scroll ID: "+newID)
		return fmt.Errorf("%w: %q", ErrInvalidID, newID)
	}
	if err := s.store.Rename(oldID, newID); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeScrollIDFailed, err.Error())
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeScrollID, "Changed scroll ID from "+oldID+" to "+newID)
	return nil
}

func (s *Documents) Delete(a *record.Account, id string) error {
	if _, err := s.owned(a, id, audit.DeleteScrollFailed); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.DeleteScrollFailed, err.Error())
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.DeleteScroll, "Deleted scroll ID: "+id)
	return nil
}

// Download copies the blob of document id to dest. Any account may download.
func (s *Documents) Download(a *record.Account, id, dest string) error {
	if err := s.requireAccount(a, audit.DownloadScrollFailed, "Download scroll "+id); err != nil {
		return err
	}
	if err := s.store.Download(id, dest); err != nil {
		if errors.Is(err, node.NotFound) {
			s.sink.Record(a.ID(), a.DisplayName(), audit.DownloadScrollFailed, "Scroll not found: "+id)
		} else {
			s.sink.Record(a.ID(), a.DisplayName(), audit.DownloadScrollFailed, err.Error())
		}
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.DownloadScroll, "Downloaded scroll ID: "+id)
	return nil
}

// View returns document id. Only successful views are recorded.
func (s *Documents) View(a *record.Account, id string) (*record.Document, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	actorID, actorName := actor(a)
	s.sink.Record(actorID, actorName, audit.ViewScroll, "Viewed scroll ID: "+id)
	return d, nil
}

// FindByName returns the document named exactly name. Only hits are recorded.
func (s *Documents) FindByName(a *record.Account, name string) (*record.Document, error) {
	d, err := s.store.FindByName(name)
	if err != nil {
		return nil, err
	}
	actorID, actorName := actor(a)
	s.sink.Record(actorID, actorName, audit.SearchScroll, "Searched scroll name: "+name)
	return d, nil
}

func (s *Documents) List(a *record.Account) ([]*record.Document, error) {
	docs, err := s.store.SortedByDate()
	if err != nil {
		return nil, err
	}
	actorID, actorName := actor(a)
	s.sink.Record(actorID, actorName, audit.ViewAllScrolls, "Listed all scrolls")
	return docs, nil
}

func (s *Documents) Search(a *record.Account, f store.Filter) ([]*record.Document, error) {
	docs, err := s.store.Search(f)
	if err != nil {
		return nil, err
	}
	actorID, actorName := actor(a)
	s.sink.Record(actorID, actorName, audit.SearchScroll, fmt.Sprintf("Searched scrolls: %d result(s)", len(docs)))
	return docs, nil
}

func (s *Documents) Preview(a *record.Account, id string) (*store.Preview, error) {
	actorID, actorName := actor(a)
	p, err := s.store.Preview(id)
	if err != nil {
		s.sink.Record(actorID, actorName, audit.PreviewScrollFailed, "Failed to preview scroll: "+id)
		return nil, err
	}
	s.sink.Record(actorID, actorName, audit.PreviewScroll, "Previewed scroll: "+id)
	return p, nil
}
