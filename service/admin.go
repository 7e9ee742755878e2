package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brettbedarf/docvault/audit"
	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/store"
	"github.com/rs/zerolog"
)

// Admin handles privileged operations. Every method requires an admin actor.
// The root account can be neither deleted, demoted nor renamed.
type Admin struct {
	accounts *store.AccountStore
	docs     *store.DocumentStore
	sink     audit.Sink
	logger   zerolog.Logger
	rootID   string
}

func NewAdmin(accounts *store.AccountStore, docs *store.DocumentStore, sink audit.Sink, logger zerolog.Logger, rootID string) *Admin {
	return &Admin{accounts: accounts, docs: docs, sink: sink, logger: logger, rootID: rootID}
}

// DocumentStat summarizes one document. Unset fields are zero values.
type DocumentStat struct {
	ID         string
	Name       string
	UploaderID string
	UploadDate time.Time
	HasContent bool
}

func (s *Admin) check(a *record.Account, denied string) error {
	if a != nil && a.IsAdmin() {
		return nil
	}
	actorID, actorName := actor(a)
	s.sink.Record(actorID, actorName, denied, "Access denied: user is not an admin.")
	return ErrUnauthorized
}

func (s *Admin) ListAccounts(a *record.Account) ([]*record.Account, error) {
	if err := s.check(a, audit.AdminViewUsersDenied); err != nil {
		return nil, err
	}
	all, err := s.accounts.All()
	if err != nil {
		return nil, err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.AdminViewUsers, "Viewed all users")
	return all, nil
}

// CreateAccount creates account id with the given credentials and role. The
// id is trimmed and must match [A-Za-z0-9_-]+.
func (s *Admin) CreateAccount(a *record.Account, id, username, password string, isAdmin bool) (*record.Account, error) {
	if err := s.check(a, audit.AdminCreateUserDenied); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if !ValidID(id) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminCreateUserFailed, "Invalid user ID: "+id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if util.IsBlank(username) || strings.EqualFold(username, "null") {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminCreateUserFailed, "Invalid username for: "+id)
		return nil, fmt.Errorf("%w: username %q", ErrInvalidField, username)
	}

	created, err := s.accounts.Create(id)
	if err != nil {
		if createFailed(err) {
			err = errors.Join(err, discard(s.accounts.Delete, id))
		}
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminCreateUserFailed, "Failed to create user: "+id)
		return nil, err
	}

	err = runSteps(
		func() error { return created.SetUsername(username) },
		func() error { return s.accounts.SetPassword(created, password) },
		func() error { return created.SetAdmin(isAdmin) },
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("User creation failed, rolling back")
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminCreateUserFailed, "Failed to create user: "+id)
		return nil, errors.Join(err, discard(s.accounts.Delete, id))
	}

	s.sink.Record(a.ID(), a.DisplayName(), audit.AdminCreateUser, "Created user: "+id)
	return created, nil
}

// DeleteAccount removes account id and every document it uploaded. Admins
// cannot delete themselves or the root account.
func (s *Admin) DeleteAccount(a *record.Account, id string) error {
	if err := s.check(a, audit.AdminDeleteUserDenied); err != nil {
		return err
	}
	if id == a.ID() {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminDeleteUserFailed, "Admins cannot delete their own account while logged in.")
		return fmt.Errorf("%w: cannot delete own account", ErrProtectedAccount)
	}
	if id == s.rootID {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminDeleteUserFailed, "Cannot delete the root admin.")
		return fmt.Errorf("%w: %s is the root account", ErrProtectedAccount, id)
	}
	if _, err := s.accounts.Get(id); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminDeleteUserFailed, "User not found: "+id)
		return err
	}

	err := s.accounts.Delete(id)
	if cerr := s.deleteUploads(id); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminDeleteUserFailed, "Failed to delete user: "+id)
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.AdminDeleteUser, "Deleted user: "+id)
	return nil
}

func (s *Admin) deleteUploads(uploaderID string) error {
	docs, err := s.docs.All()
	if err != nil {
		return err
	}
	var errs []error
	for _, d := range docs {
		if u, ok := d.UploaderID(); ok && u == uploaderID {
			if err := s.docs.Delete(d.ID()); err != nil {
				errs = append(errs, err)
				continue
			}
			s.logger.Debug().Str("id", d.ID()).Str("uploader", uploaderID).Msg("Deleted upload of removed user")
		}
	}
	return errors.Join(errs...)
}

// SetAdmin grants or revokes the admin role. The root account keeps its role.
func (s *Admin) SetAdmin(a *record.Account, id string, isAdmin bool) error {
	if err := s.check(a, audit.AdminUpdateRoleDenied); err != nil {
		return err
	}
	if id == s.rootID {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminUpdateRoleFailed, "Cannot change role of root admin.")
		return fmt.Errorf("%w: %s is the root account", ErrProtectedAccount, id)
	}
	target, err := s.accounts.Get(id)
	if err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminUpdateRoleFailed, "User not found: "+id)
		return err
	}
	if err := target.SetAdmin(isAdmin); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.AdminUpdateRoleFailed, "Failed to update admin status for: "+id)
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.AdminUpdateRole, "Updated admin status for: "+id)
	return nil
}

// RenameAccount moves account oldID to newID. The root account and the
// caller's own account keep their ids. Documents keep the old uploader id.
func (s *Admin) RenameAccount(a *record.Account, oldID, newID string) error {
	if err := s.check(a, audit.ChangeUserIDFailed); err != nil {
		return err
	}
	if oldID == s.rootID || oldID == a.ID() {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeUserIDFailed, "Cannot change ID of: "+oldID)
		return fmt.Errorf("%w: cannot change id of %s", ErrProtectedAccount, oldID)
	}
	newID = strings.TrimSpace(newID)
	if !ValidID(newID) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeUserIDFailed, "Invalid user ID: "+newID)
		return fmt.Errorf("%w: %q", ErrInvalidID, newID)
	}
	if err := s.accounts.Rename(oldID, newID); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeUserIDFailed, err.Error())
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.ChangeUserID, "Changed user ID from "+oldID+" to "+newID)
	return nil
}

// ViewAsUser returns a non-admin account for inspection.
func (s *Admin) ViewAsUser(a *record.Account, id string) (*record.Account, error) {
	if err := s.check(a, audit.ViewAsUserDenied); err != nil {
		return nil, err
	}
	target, err := s.accounts.Get(strings.TrimSpace(id))
	if err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ViewAsUserFailed, "Failed to view user: "+id)
		return nil, err
	}
	if target.IsAdmin() {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ViewAsUserFailed, "Failed to view user: "+id)
		return nil, fmt.Errorf("%w: cannot view as another admin", ErrUnauthorized)
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.ViewAsUser, "Viewed data of user: "+id)
	return target, nil
}

// Stats summarizes every document, newest first.
func (s *Admin) Stats(a *record.Account) ([]DocumentStat, error) {
	if err := s.check(a, audit.ViewScrollStatsFailed); err != nil {
		return nil, err
	}
	docs, err := s.docs.SortedByDate()
	if err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.ViewScrollStatsFailed, err.Error())
		return nil, err
	}
	stats := make([]DocumentStat, 0, len(docs))
	for _, d := range docs {
		st := DocumentStat{ID: d.ID()}
		st.Name, _ = d.Name()
		st.UploaderID, _ = d.UploaderID()
		st.UploadDate, _ = d.UploadDate()
		_, st.HasContent = d.ContentPath()
		stats = append(stats, st)
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.ViewScrollStats, "Accessed scroll statistics")
	return stats, nil
}
