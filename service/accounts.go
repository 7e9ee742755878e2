package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/docvault/audit"
	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/node"
	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/store"
	"github.com/rs/zerolog"
)

// Profile fields accepted by UpdateProfile.
const (
	FieldUsername = "username"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
)

// Accounts handles self-service account operations.
type Accounts struct {
	store  *store.AccountStore
	sink   audit.Sink
	logger zerolog.Logger
}

func NewAccounts(accounts *store.AccountStore, sink audit.Sink, logger zerolog.Logger) *Accounts {
	return &Accounts{store: accounts, sink: sink, logger: logger}
}

// Register creates an account with the given username and password. The
// username must not be blank or taken.
func (s *Accounts) Register(id, username, password string) (*record.Account, error) {
	if !ValidID(id) {
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.CreateUserFailed, "Invalid user ID: "+id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if util.IsBlank(username) {
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.CreateUserFailed, "Username cannot be blank")
		return nil, fmt.Errorf("%w: blank username", ErrInvalidField)
	}
	if _, err := s.store.FindByUsername(username); err == nil {
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.CreateUserFailed, "Username already taken: "+username)
		return nil, fmt.Errorf("username %q: %w", username, node.AlreadyExists)
	}

	a, err := s.store.Create(id)
	if err != nil {
		if createFailed(err) {
			err = errors.Join(err, discard(s.store.Delete, id))
		}
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.CreateUserFailed, err.Error())
		return nil, err
	}

	if err := errors.Join(a.SetUsername(username), s.store.SetPassword(a, password)); err != nil {
		s.sink.Record(a.ID(), username, audit.CreateUserFailed, "Failed to set password")
		s.logger.Warn().Err(err).Str("id", id).Msg("Rolling back account registration")
		return nil, errors.Join(err, discard(s.store.Delete, id))
	}

	s.sink.Record(a.ID(), username, audit.CreateUser, "User created successfully")
	return a, nil
}

// Login returns the account whose username and password match.
func (s *Accounts) Login(username, password string) (*record.Account, error) {
	a, err := s.store.FindByUsername(username)
	if errors.Is(err, node.NotFound) {
		s.sink.Record(audit.UnknownActor, username, audit.LoginFailed, "User not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.LoginError, err.Error())
		return nil, err
	}

	if !s.store.CheckPassword(a, password) {
		s.sink.Record(a.ID(), a.DisplayName(), audit.LoginFailed, "Incorrect password")
		return nil, ErrInvalidCredentials
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.LoginSuccess, "User logged in")
	return a, nil
}

// Logout only records the event; there is no session state.
func (s *Accounts) Logout(a *record.Account) {
	if a == nil {
		return
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.Logout, "User logged out")
}

// UpdateProfile sets one of the profile fields. Field names are matched
// case-insensitively.
func (s *Accounts) UpdateProfile(a *record.Account, field, value string) error {
	var set func(string) error
	switch strings.ToLower(field) {
	case FieldUsername:
		set = a.SetUsername
	case FieldName:
		set = a.SetName
	case FieldEmail:
		set = a.SetEmail
	case FieldPhone:
		set = a.SetPhone
	default:
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateProfileFailed, "Invalid field: "+field)
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	if err := set(value); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateProfileFailed, err.Error())
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.UpdateProfile, "Updated field: "+field)
	return nil
}

func (s *Accounts) ChangePassword(a *record.Account, newPassword string) error {
	if err := s.store.SetPassword(a, newPassword); err != nil {
		s.sink.Record(a.ID(), a.DisplayName(), audit.UpdatePasswordFailed, "Password update failed")
		return err
	}
	s.sink.Record(a.ID(), a.DisplayName(), audit.UpdatePassword, "Password updated")
	return nil
}

func (s *Accounts) List() ([]*record.Account, error) {
	all, err := s.store.All()
	if err != nil {
		s.sink.Record(audit.SystemActor, audit.SystemActor, audit.ViewAllUsersFailed, err.Error())
		return nil, err
	}
	s.sink.Record(audit.SystemActor, audit.SystemActor, audit.ViewAllUsers, "Retrieved user list")
	return all, nil
}

// ChangeID moves an account to a new id. Documents keep the old uploader id.
// It checks no permissions and protects no account; callers acting for a
// user go through Admin.RenameAccount.
func (s *Accounts) ChangeID(oldID, newID string) error {
	if !ValidID(newID) {
		s.sink.Record(oldID, newID, audit.ChangeUserIDFailed, "Invalid user ID: "+newID)
		return fmt.Errorf("%w: %q", ErrInvalidID, newID)
	}
	if err := s.store.Rename(oldID, newID); err != nil {
		s.sink.Record(oldID, newID, audit.ChangeUserIDFailed, err.Error())
		return err
	}
	s.sink.Record(oldID, newID, audit.ChangeUserID, "User ID changed")
	return nil
}
