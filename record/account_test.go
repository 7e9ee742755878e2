package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/docvault/node"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestParent returns an existing root directory node
func newTestParent(t *testing.T) *node.Node {
	t.Helper()
	return node.New(afero.NewOsFs(), t.TempDir())
}

func newTestAccount(t *testing.T, id string) (*Account, *node.Node) {
	t.Helper()
	parent := newTestParent(t)
	require.NoError(t, parent.CreateChildDir(id))
	return AccountFactory(parent, id), parent
}

func TestAccountFactory_BindsToChild(t *testing.T) {
	t.Parallel()

	parent := newTestParent(t)
	a := AccountFactory(parent, "alice")

	assert.Equal(t, "alice", a.ID())
	assert.False(t, a.Exists(), "factory must never create anything")

	require.NoError(t, parent.CreateChildDir("alice"))
	assert.True(t, a.Exists())
}

func TestAccount_TextFields_RoundTrip(t *testing.T) {
	t.Parallel()

	a, _ := newTestAccount(t, "u1")

	fields := []struct {
		name string
		set  func(string) error
		get  func() (string, bool)
	}{
		{"username", a.SetUsername, a.Username},
		{"name", a.SetName, a.Name},
		{"phone", a.SetPhone, a.Phone},
		{"email", a.SetEmail, a.Email},
		{"password_hash", a.SetPasswordHash, a.PasswordHash},
		{"password_salt", a.SetPasswordSalt, a.PasswordSalt},
		{"password_algo", a.SetPasswordAlgo, a.PasswordAlgo},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			_, ok := f.get()
			assert.False(t, ok, "never written field must be unset")

			require.NoError(t, f.set("value-"+f.name))
			got, ok := f.get()
			require.True(t, ok)
			assert.Equal(t, "value-"+f.name, got)

			require.NoError(t, f.set(""))
			got, ok = f.get()
			require.True(t, ok, "empty string is a set value")
			assert.Equal(t, "", got)
		})
	}
}

func TestAccount_AdminAndIters(t *testing.T) {
	t.Parallel()

	a, _ := newTestAccount(t, "u1")

	_, ok := a.Admin()
	assert.False(t, ok)
	assert.False(t, a.IsAdmin())

	require.NoError(t, a.SetAdmin(true))
	v, ok := a.Admin()
	require.True(t, ok)
	assert.True(t, v)
	assert.True(t, a.IsAdmin())

	require.NoError(t, a.SetPasswordIters(120000))
	iters, ok := a.PasswordIters()
	require.True(t, ok)
	assert.Equal(t, int32(120000), iters)
}

func TestAccount_SlotsMatchOnDiskLayout(t *testing.T) {
	t.Parallel()

	a, parent := newTestAccount(t, "u1")
	require.NoError(t, a.SetUsername("alice"))
	require.NoError(t, a.SetAdmin(false))
	require.NoError(t, a.SetPasswordIters(42))

	dir := filepath.Join(parent.Path(), "u1")
	for name, want := range map[string]string{"username": "alice", "admin": "false", "password_iters": "42"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(b), name)
	}
}

// Getters swallow every read failure into "unset", including corrupt values
// and slots that are not files. This pins that contract.
func TestAccount_ReadFailuresAreUnset(t *testing.T) {
	t.Parallel()

	a, parent := newTestAccount(t, "u1")
	dir := filepath.Join(parent.Path(), "u1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, AdminSlot), []byte("maybe"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PasswordItersSlot), []byte("lots"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, UsernameSlot), 0o755))

	_, ok := a.Admin()
	assert.False(t, ok, "parse error must read as unset")
	assert.False(t, a.IsAdmin())

	_, ok = a.PasswordIters()
	assert.False(t, ok)

	_, ok = a.Username()
	assert.False(t, ok, "type mismatch must read as unset")
	assert.Equal(t, "u1", a.DisplayName())
}

func TestAccount_SetterOnMissingRecord(t *testing.T) {
	t.Parallel()

	a := AccountFactory(newTestParent(t), "ghost")
	err := a.SetUsername("x")
	require.Error(t, err)
	assert.Equal(t, node.IOFailure, node.KindOf(err))
	assert.False(t, a.Exists(), "setter must not create the record directory")
}

func TestAccount_DisplayName(t *testing.T) {
	t.Parallel()

	a, _ := newTestAccount(t, "u1")
	assert.Equal(t, "u1", a.DisplayName())
	require.NoError(t, a.SetUsername(""))
	assert.Equal(t, "u1", a.DisplayName())
	require.NoError(t, a.SetUsername("alice"))
	assert.Equal(t, "alice", a.DisplayName())
}
