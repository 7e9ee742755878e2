package store

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/docvault/passwd"
	"github.com/brettbedarf/docvault/record"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// AccountStore manages the account records under one root directory.
type AccountStore struct {
	c      *collection[*record.Account]
	hasher passwd.Hasher
	logger zerolog.Logger
}

// NewAccountStore opens the account root at root, creating it if missing.
func NewAccountStore(fsys afero.Fs, root string, hasher passwd.Hasher, logger zerolog.Logger) (*AccountStore, error) {
	c, err := newCollection(fsys, root, record.AccountFactory, logger)
	if err != nil {
		return nil, fmt.Errorf("open account store: %w", err)
	}
	return &AccountStore{c: c, hasher: hasher, logger: logger}, nil
}

// Root returns the directory holding the account records.
func (s *AccountStore) Root() string {
	return s.c.root.Path()
}

// Create makes a new account with empty text fields and Admin false. The
// password slots stay unwritten until SetPassword. If a default cannot be
// written the partially populated directory is left in place.
func (s *AccountStore) Create(id string) (*record.Account, error) {
	a, err := s.c.create(id)
	if err != nil {
		return nil, err
	}
	err = runSteps(
		func() error { return a.SetUsername("") },
		func() error { return a.SetName("") },
		func() error { return a.SetPhone("") },
		func() error { return a.SetEmail("") },
		func() error { return a.SetPasswordHash("") },
		func() error { return a.SetAdmin(false) },
	)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to write account defaults")
		return nil, fmt.Errorf("populate account %s: %w", id, err)
	}
	return a, nil
}

func (s *AccountStore) Rename(oldID, newID string) error {
	return s.c.rename(oldID, newID)
}

func (s *AccountStore) Get(id string) (*record.Account, error) {
	return s.c.get(id)
}

func (s *AccountStore) All() ([]*record.Account, error) {
	return s.c.all()
}

func (s *AccountStore) Find(match func(*record.Account) bool) (*record.Account, error) {
	return s.c.find(match)
}

// FindByUsername returns the first account whose username equals username.
// Accounts with an unset username never match.
func (s *AccountStore) FindByUsername(username string) (*record.Account, error) {
	return s.c.find(func(a *record.Account) bool {
		u, ok := a.Username()
		return ok && u == username
	})
}

func (s *AccountStore) Delete(id string) error {
	return s.c.delete(id)
}

// SetPassword derives a key from plaintext with a fresh salt and stores the
// key, salt, algorithm and iteration count. All four writes are attempted.
func (s *AccountStore) SetPassword(a *record.Account, plaintext string) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key, err := s.hasher.DeriveKey(plaintext, salt, s.hasher.Iterations(), s.hasher.KeyLengthBits())
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	return errors.Join(
		a.SetPasswordHash(passwd.EncodeBase64(key)),
		a.SetPasswordSalt(passwd.EncodeBase64(salt)),
		a.SetPasswordAlgo(s.hasher.Algorithm()),
		a.SetPasswordIters(int32(s.hasher.Iterations())),
	)
}

// CheckPassword reports whether candidate matches the stored password. Any
// unset, malformed or foreign-algorithm credential is a mismatch.
func (s *AccountStore) CheckPassword(a *record.Account, candidate string) bool {
	hash, ok := a.PasswordHash()
	if !ok || hash == "" {
		return false
	}
	salt64, ok := a.PasswordSalt()
	if !ok {
		return false
	}
	algo, ok := a.PasswordAlgo()
	if !ok || algo != s.hasher.Algorithm() {
		return false
	}
	iters, ok := a.PasswordIters()
	if !ok || iters <= 0 {
		return false
	}

	want, err := passwd.DecodeBase64(hash)
	if err != nil || len(want) == 0 {
		return false
	}
	salt, err := passwd.DecodeBase64(salt64)
	if err != nil {
		return false
	}
	got, err := s.hasher.DeriveKey(candidate, salt, int(iters), len(want)*8)
	if err != nil {
		return false
	}
	return passwd.ConstantTimeEqual(got, want)
}
