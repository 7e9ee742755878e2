package server

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/docvault/audit"
	"github.com/brettbedarf/docvault/config"
	"github.com/brettbedarf/docvault/internal/util"
	"github.com/brettbedarf/docvault/node"
	"github.com/brettbedarf/docvault/passwd"
	"github.com/brettbedarf/docvault/record"
	"github.com/brettbedarf/docvault/service"
	"github.com/brettbedarf/docvault/store"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Vault owns the stores, services and audit sink of one data directory.
// Services are nil until Open succeeds.
type Vault struct {
	Accounts  *service.Accounts
	Documents *service.Documents
	Admin     *service.Admin

	fs       afero.Fs
	cfg      *config.Config
	logger   zerolog.Logger
	users    *store.AccountStore
	docs     *store.DocumentStore
	sink     *audit.FileSink
	hasher   passwd.Hasher
	rootAcct *record.Account
}

// New creates a Vault over fsys given your config.
func New(fsys afero.Fs, cfg *config.Config) *Vault {
	return &Vault{
		fs:     fsys,
		cfg:    cfg,
		logger: util.GetLogger("vault"),
		hasher: passwd.NewPBKDF2(cfg.HashIterations),
	}
}

// Open validates the config, opens the record stores and the audit log, and
// creates the root admin account if it does not exist yet.
func (v *Vault) Open() error {
	if err := config.Validate(v.cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	users, err := store.NewAccountStore(v.fs, v.cfg.AccountsPath(), v.hasher, util.GetLogger("accounts"))
	if err != nil {
		return err
	}
	docs, err := store.NewDocumentStore(v.fs, v.cfg.DocumentsPath(), util.GetLogger("documents"),
		store.WithPreviewChars(v.cfg.PreviewChars))
	if err != nil {
		return err
	}
	sink, err := audit.OpenFileSink(v.fs, v.cfg.AuditLogPath(), util.GetLogger("audit"))
	if err != nil {
		return err
	}
	v.users, v.docs, v.sink = users, docs, sink

	root, err := v.bootstrapRoot()
	if err != nil {
		return errors.Join(err, v.sink.Close())
	}
	v.rootAcct = root

	v.Accounts = service.NewAccounts(users, sink, util.GetLogger("accounts"))
	v.Documents = service.NewDocuments(docs, sink, util.GetLogger("documents"))
	v.Admin = service.NewAdmin(users, docs, sink, util.GetLogger("admin"), v.cfg.RootAccountID)

	v.logger.Info().
		Str("accounts", users.Root()).
		Str("documents", docs.Root()).
		Str("audit", sink.Path()).
		Msg("Vault opened")
	return nil
}

func (v *Vault) bootstrapRoot() (*record.Account, error) {
	id := v.cfg.RootAccountID
	if root, err := v.users.Get(id); err == nil {
		return root, nil
	} else if !errors.Is(err, node.NotFound) {
		return nil, err
	}

	root, err := v.users.Create(id)
	if err == nil {
		err = errors.Join(
			root.SetUsername(v.cfg.RootUsername),
			root.SetName("root"),
			root.SetAdmin(true),
			v.users.SetPassword(root, v.cfg.RootPassword),
		)
	}
	if err != nil {
		if derr := v.users.Delete(id); derr != nil && !errors.Is(derr, node.NotFound) {
			err = errors.Join(err, derr)
		}
		v.sink.Record(audit.SystemActor, audit.SystemActor, audit.CreateUserFailed, "Failed to create root admin: "+err.Error())
		return nil, fmt.Errorf("bootstrap root account: %w", err)
	}

	v.sink.Record(id, v.cfg.RootUsername, audit.CreateUser, "Root admin created")
	v.logger.Info().Str("id", id).Str("username", v.cfg.RootUsername).Msg("Created root admin account")
	return root, nil
}

// Root returns the root admin account. It is nil before Open.
func (v *Vault) Root() *record.Account {
	return v.rootAcct
}

// Config returns the configuration the vault was created with.
func (v *Vault) Config() *config.Config {
	return v.cfg
}

// AuditEvents reads back the audit log.
func (v *Vault) AuditEvents() ([]audit.Event, error) {
	if v.sink == nil {
		return audit.ReadEvents(v.fs, v.cfg.AuditLogPath())
	}
	return v.sink.Events()
}

// Close flushes and closes the audit log. It is safe to call on a vault that
// failed to open.
func (v *Vault) Close() error {
	if v.sink == nil {
		return nil
	}
	err := v.sink.Close()
	v.sink = nil
	return err
}
