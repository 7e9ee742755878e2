// Package store manages collections of records that live as child directories
// of one root directory. Stores never roll back partial work; a failed create
// or delete can leave a record directory behind for the caller to clean up.
package store

import (
	"github.com/brettbedarf/docvault/node"
	"github.com/brettbedarf/docvault/record"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// collection is the directory-per-record bookkeeping shared by the stores.
type collection[R any] struct {
	root    *node.Node
	factory record.Factory[R]
	logger  zerolog.Logger
}

// newCollection binds to root, creating the directory if it is missing.
func newCollection[R any](fsys afero.Fs, root string, factory record.Factory[R], logger zerolog.Logger) (*collection[R], error) {
	n := node.New(fsys, root)
	if err := n.CreateDir(); err != nil {
		return nil, err
	}
	return &collection[R]{root: n, factory: factory, logger: logger}, nil
}

func checkID(op, id string) error {
	if !node.ValidName(id) {
		return &node.Error{Op: op, Path: id, Kind: node.InvalidInput}
	}
	return nil
}

// create makes the record directory. An existing entry is AlreadyExists.
func (c *collection[R]) create(id string) (R, error) {
	var zero R
	if err := checkID("create", id); err != nil {
		return zero, err
	}
	if c.root.ChildExists(id) {
		return zero, &node.Error{Op: "create", Path: c.root.Child(id).Path(), Kind: node.AlreadyExists}
	}
	if err := c.root.CreateChildDir(id); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("Failed to create record directory")
		return zero, err
	}
	c.logger.Debug().Str("id", id).Msg("Created record directory")
	return c.factory(c.root, id), nil
}

func (c *collection[R]) rename(oldID, newID string) error {
	if err := checkID("rename", oldID); err != nil {
		return err
	}
	if err := checkID("rename", newID); err != nil {
		return err
	}
	if !c.root.ChildExists(oldID) {
		return &node.Error{Op: "rename", Path: c.root.Child(oldID).Path(), Kind: node.NotFound}
	}
	if err := c.root.RenameChild(oldID, newID); err != nil {
		c.logger.Debug().Err(err).Str("from", oldID).Str("to", newID).Msg("Record rename refused")
		return err
	}
	c.logger.Debug().Str("from", oldID).Str("to", newID).Msg("Renamed record")
	return nil
}

func (c *collection[R]) get(id string) (R, error) {
	var zero R
	if err := checkID("get", id); err != nil {
		return zero, err
	}
	if !c.root.ChildExists(id) {
		return zero, &node.Error{Op: "get", Path: c.root.Child(id).Path(), Kind: node.NotFound}
	}
	return c.factory(c.root, id), nil
}

// all returns one record per entry under root, in listing order.
func (c *collection[R]) all() ([]R, error) {
	names, err := c.root.List()
	if err != nil {
		return nil, err
	}
	out := make([]R, 0, len(names))
	for _, name := range names {
		out = append(out, c.factory(c.root, name))
	}
	return out, nil
}

// find returns the first record, in listing order, that match accepts.
func (c *collection[R]) find(match func(R) bool) (R, error) {
	var zero R
	recs, err := c.all()
	if err != nil {
		return zero, err
	}
	for _, r := range recs {
		if match(r) {
			return r, nil
		}
	}
	return zero, &node.Error{Op: "find", Path: c.root.Path(), Kind: node.NotFound}
}

// delete removes every immediate child of the record, then the record
// directory. Nested directories must already be empty. Every removal is
// attempted; the first failure is returned.
func (c *collection[R]) delete(id string) error {
	if err := checkID("delete", id); err != nil {
		return err
	}
	rec := c.root.Child(id)
	names, err := rec.List()
	if err != nil {
		return err
	}

	var firstErr error
	for _, name := range names {
		if err := rec.Child(name).Remove(); err != nil {
			c.logger.Warn().Err(err).Str("id", id).Str("entry", name).Msg("Failed to remove record entry")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := rec.Remove(); err != nil {
		c.logger.Warn().Err(err).Str("id", id).Msg("Failed to remove record directory")
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		c.logger.Debug().Str("id", id).Msg("Deleted record")
	}
	return firstErr
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
