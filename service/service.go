// Package service implements the audited operations of the vault on top of
// the record stores. Every operation reports to an audit.Sink, and every
// operation that creates a record and then fills it in removes the record
// again when filling it in fails.
package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/brettbedarf/docvault/node"
	"github.com/brettbedarf/docvault/record"
)

var (
	ErrUnauthorized       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidField       = errors.New("invalid field")
	ErrInvalidID          = errors.New("invalid id")
	ErrProtectedAccount   = errors.New("protected account")
)

// GuestActor names the actor of operations performed without an account.
const GuestActor = "GUEST"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether id may be used for a new account or document.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func actor(a *record.Account) (id, name string) {
	if a == nil {
		return GuestActor, GuestActor
	}
	return a.ID(), a.DisplayName()
}

// createFailed reports whether a failed create may have left a directory.
func createFailed(err error) bool {
	k := node.KindOf(err)
	return k != node.AlreadyExists && k != node.InvalidInput
}

// discard deletes a half-built record. A record that is already gone is not
// an error.
func discard(del func(string) error, id string) error {
	if err := del(id); err != nil && !errors.Is(err, node.NotFound) {
		return fmt.Errorf("roll back %s: %w", id, err)
	}
	return nil
}

// runSteps runs steps in order and stops at the first failure.
func runSteps(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
