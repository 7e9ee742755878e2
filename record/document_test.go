package record

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brettbedarf/docvault/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T, id string) (*Document, *node.Node) {
	t.Helper()
	parent := newTestParent(t)
	require.NoError(t, parent.CreateChildDir(id))
	return DocumentFactory(parent, id), parent
}

func TestDocument_TextFields(t *testing.T) {
	t.Parallel()

	d, _ := newTestDocument(t, "doc1")
	assert.Equal(t, "doc1", d.ID())

	_, ok := d.Name()
	assert.False(t, ok)

	require.NoError(t, d.SetName("Project Plan"))
	require.NoError(t, d.SetUploaderID("alice"))

	name, ok := d.Name()
	require.True(t, ok)
	assert.Equal(t, "Project Plan", name)
	uploader, ok := d.UploaderID()
	require.True(t, ok)
	assert.Equal(t, "alice", uploader)
}

func TestDocument_UploadDate(t *testing.T) {
	t.Parallel()

	t.Run("unset without stamp file", func(t *testing.T) {
		t.Parallel()
		d, _ := newTestDocument(t, "doc")
		_, ok := d.UploadDate()
		assert.False(t, ok)
	})
	t.Run("creates stamp and round trips at ms precision", func(t *testing.T) {
		t.Parallel()
		d, parent := newTestDocument(t, "doc")
		want := time.Date(2024, 5, 17, 13, 45, 12, 987_654_321, time.UTC)

		require.NoError(t, d.SetUploadDate(want))
		assert.True(t, parent.Child("doc").ChildExists(UploadStampSlot))

		got, ok := d.UploadDate()
		require.True(t, ok)
		assert.Equal(t, want.UnixMilli(), got.UnixMilli())
		assert.True(t, got.Equal(want.Truncate(time.Millisecond)))
	})
	t.Run("stamp carries no content", func(t *testing.T) {
		t.Parallel()
		d, parent := newTestDocument(t, "doc")
		require.NoError(t, d.SetUploadDate(time.UnixMilli(1000)))
		require.NoError(t, d.SetUploadDate(time.UnixMilli(2000)))

		b, err := os.ReadFile(filepath.Join(parent.Path(), "doc", UploadStampSlot))
		require.NoError(t, err)
		assert.Empty(t, b)
		got, ok := d.UploadDate()
		require.True(t, ok)
		assert.Equal(t, int64(2000), got.UnixMilli())
	})
	t.Run("epoch zero reads as unset", func(t *testing.T) {
		t.Parallel()
		d, _ := newTestDocument(t, "doc")
		require.NoError(t, d.SetUploadDate(time.UnixMilli(0)))
		_, ok := d.UploadDate()
		assert.False(t, ok)
	})
	t.Run("negative epoch rejected", func(t *testing.T) {
		t.Parallel()
		d, parent := newTestDocument(t, "doc")
		err := d.SetUploadDate(time.UnixMilli(-1))
		require.Error(t, err)
		assert.ErrorIs(t, err, node.InvalidInput)
		assert.False(t, parent.Child("doc").ChildExists(UploadStampSlot), "nothing may be created on rejection")
	})
}

func TestDocument_Content(t *testing.T) {
	t.Parallel()

	d, parent := newTestDocument(t, "doc")
	src := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello scrolls"), 0o644))

	_, ok := d.ContentPath()
	assert.False(t, ok, "no blob yet")

	require.NoError(t, d.SetContent(src))
	path, ok := d.ContentPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(parent.Path(), "doc", BlobSlot), path)

	r, err := d.OpenContent()
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello scrolls", string(b))

	dst := filepath.Join(t.TempDir(), "download.txt")
	require.NoError(t, d.CopyContentTo(dst))
	b, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello scrolls", string(b))
}

func TestDocument_SetContent_InvalidSource(t *testing.T) {
	t.Parallel()

	d, _ := newTestDocument(t, "doc")

	err := d.SetContent(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, node.InvalidInput)

	err = d.SetContent(t.TempDir())
	assert.ErrorIs(t, err, node.InvalidInput, "directories are not regular files")

	_, ok := d.ContentPath()
	assert.False(t, ok)
}
