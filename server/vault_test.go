package server

import (
	"testing"

	"github.com/brettbedarf/docvault/audit"
	"github.com/brettbedarf/docvault/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.DataDir = "/vault"
	cfg.HashIterations = 1000
	return cfg
}

func openVault(t *testing.T, fsys afero.Fs, cfg *config.Config) *Vault {
	t.Helper()
	v := New(fsys, cfg)
	require.NoError(t, v.Open())
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestVault_Open_BootstrapsRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	v := openVault(t, fsys, testConfig())

	root := v.Root()
	require.NotNil(t, root)
	assert.Equal(t, "root", root.ID())
	assert.True(t, root.IsAdmin())
	name, ok := root.Name()
	require.True(t, ok)
	assert.Equal(t, "root", name)

	got, err := v.Accounts.Login("rootadmin", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, "root", got.ID())

	for _, dir := range []string{"/vault/users", "/vault/scrolls"} {
		ok, err := afero.DirExists(fsys, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}

	events, err := v.AuditEvents()
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, audit.CreateUser, events[0].Action)
	assert.Equal(t, "root", events[0].ActorID)
}

func TestVault_Open_KeepsExistingRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg := testConfig()

	first := New(fsys, cfg)
	require.NoError(t, first.Open())
	require.NoError(t, first.Accounts.ChangePassword(first.Root(), "changed"))
	require.NoError(t, first.Close())

	second := openVault(t, fsys, cfg)
	_, err := second.Accounts.Login("rootadmin", "changed")
	require.NoError(t, err, "reopening must not reset the root password")

	events, err := second.AuditEvents()
	require.NoError(t, err)
	var creates int
	for _, e := range events {
		if e.Action == audit.CreateUser {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
}

func TestVault_Open_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DocumentsDir = cfg.AccountsDir

	v := New(afero.NewMemMapFs(), cfg)
	err := v.Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Nil(t, v.Accounts)
	assert.NoError(t, v.Close())
}

func TestVault_AdminFlow(t *testing.T) {
	v := openVault(t, afero.NewMemMapFs(), testConfig())

	alice, err := v.Admin.CreateAccount(v.Root(), "alice", "alice", "pw", false)
	require.NoError(t, err)

	accounts, err := v.Admin.ListAccounts(v.Root())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = v.Admin.ListAccounts(alice)
	assert.Error(t, err)
}
