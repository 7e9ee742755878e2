package node

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttr_RoundTrip_Self(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		n := newTestNode(t, "attr")
		for _, v := range []string{"", "plain", "multi\nline\n", "  padded  ", "ünïcødé"} {
			require.NoError(t, n.WriteString(v))
			got, err := n.ReadString()
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})
	t.Run("bool", func(t *testing.T) {
		t.Parallel()
		n := newTestNode(t, "attr")
		for _, v := range []bool{true, false} {
			require.NoError(t, n.WriteBool(v))
			got, err := n.ReadBool()
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})
	t.Run("int32", func(t *testing.T) {
		t.Parallel()
		n := newTestNode(t, "attr")
		for _, v := range []int32{0, 1, -1, 120000, math.MaxInt32, math.MinInt32} {
			require.NoError(t, n.WriteInt32(v))
			got, err := n.ReadInt32()
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})
	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		n := newTestNode(t, "attr")
		for _, v := range []float32{0, 3.14, -2.5, 1e-7, math.MaxFloat32} {
			require.NoError(t, n.WriteFloat32(v))
			got, err := n.ReadFloat32()
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})
}

func TestAttr_RoundTrip_Child(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateDir())

	require.NoError(t, n.WriteChildString("s", "hello"))
	require.NoError(t, n.WriteChildBool("b", true))
	require.NoError(t, n.WriteChildInt32("i", -42))
	require.NoError(t, n.WriteChildFloat32("f", 0.5))

	s, err := n.ReadChildString("s")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	b, err := n.ReadChildBool("b")
	require.NoError(t, err)
	assert.True(t, b)
	i, err := n.ReadChildInt32("i")
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i)
	f, err := n.ReadChildFloat32("f")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f)

	// child accessors and a node bound to the child see the same file
	viaChild, err := n.Child("i").ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, i, viaChild)
}

func TestAttr_OnDiskEncoding(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateDir())
	require.NoError(t, n.WriteChildBool("admin", false))
	require.NoError(t, n.WriteChildInt32("iters", 120000))
	require.NoError(t, n.WriteChildFloat32("ratio", 1.5))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(n.Path(), name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "false", read("admin"))
	assert.Equal(t, "120000", read("iters"))
	assert.Equal(t, "1.5", read("ratio"))
}

func TestAttr_ReadTrimsScalarWhitespace(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateDir())
	require.NoError(t, os.WriteFile(filepath.Join(n.Path(), "b"), []byte("true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(n.Path(), "i"), []byte(" 7 \n"), 0o644))

	b, err := n.ReadChildBool("b")
	require.NoError(t, err)
	assert.True(t, b)
	i, err := n.ReadChildInt32("i")
	require.NoError(t, err)
	assert.Equal(t, int32(7), i)
}

func TestAttr_ReadErrors(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateDir())
	require.NoError(t, n.CreateChildDir("dir"))
	require.NoError(t, n.WriteChildString("junk", "not-a-number"))
	require.NoError(t, n.WriteChildString("huge", "99999999999"))
	require.NoError(t, n.WriteChildString("yes", "yes"))

	tests := []struct {
		name string
		read func() error
		kind Kind
	}{
		{"missing string", func() error { _, err := n.ReadChildString("missing"); return err }, NotFound},
		{"missing bool", func() error { _, err := n.ReadChildBool("missing"); return err }, NotFound},
		{"dir string", func() error { _, err := n.ReadChildString("dir"); return err }, TypeMismatch},
		{"dir int", func() error { _, err := n.ReadChildInt32("dir"); return err }, TypeMismatch},
		{"junk int", func() error { _, err := n.ReadChildInt32("junk"); return err }, ParseError},
		{"int32 overflow", func() error { _, err := n.ReadChildInt32("huge"); return err }, ParseError},
		{"junk float", func() error { _, err := n.ReadChildFloat32("junk"); return err }, ParseError},
		{"non-literal bool", func() error { _, err := n.ReadChildBool("yes"); return err }, ParseError},
		{"self on directory", func() error { _, err := n.ReadString(); return err }, TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, tt.read(), tt.kind)
		})
	}
}

func TestAttr_WriteCreatesThenReplaces(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateDir())
	assert.False(t, n.ChildExists("field"))

	require.NoError(t, n.WriteChildString("field", strings.Repeat("long value ", 20)))
	assert.True(t, n.Child("field").IsFile())

	require.NoError(t, n.WriteChildString("field", "short"))
	got, err := n.ReadChildString("field")
	require.NoError(t, err)
	assert.Equal(t, "short", got, "overwrite must not leave trailing bytes")

	names, err := n.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"field"}, names, "no temp files may be left behind")
}

func TestAttr_WriteErrors(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, "rec")
	require.NoError(t, n.CreateChildDir("dir"))
	requireKind(t, n.WriteChildString("dir", "v"), TypeMismatch)
	requireKind(t, n.WriteChildBool("dir", true), TypeMismatch)

	ro := New(afero.NewReadOnlyFs(afero.NewOsFs()), n.Path())
	requireKind(t, ro.WriteChildString("new", "v"), IOFailure)

	orphan := n.Child("missing-parent").Child("field")
	requireKind(t, orphan.WriteString("v"), IOFailure)
}
