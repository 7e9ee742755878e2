// Package docvault is a document vault that keeps user accounts and uploaded
// documents as plain directories of attribute files.
package docvault

import (
	"github.com/brettbedarf/docvault/config"
	"github.com/brettbedarf/docvault/server"
	"github.com/spf13/afero"
)

// New creates a Vault on the host filesystem given your config. Call Open on
// the result before use.
func New(cfg *config.Config) *server.Vault {
	return server.New(afero.NewOsFs(), cfg)
}
