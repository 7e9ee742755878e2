package record

import (
	"io"
	"time"

	"github.com/brettbedarf/docvault/node"
)

// Document attribute slots. The names match existing data directories.
const (
	DocNameSlot     = "scroll_name"
	UploaderIDSlot  = "uploader_id"
	UploadStampSlot = "upload_timestamp"
	BlobSlot        = "scroll_blob"
)

// Document is an uploaded file plus its metadata. The upload time is carried
// by the modification time of the empty UploadStampSlot file, not by content.
type Document struct {
	n *node.Node
}

// DocumentFactory is the Factory for documents.
func DocumentFactory(parent *node.Node, id string) *Document {
	return &Document{n: parent.Child(id)}
}

var _ Factory[*Document] = DocumentFactory

// ID returns the document's identity (its directory name).
func (d *Document) ID() string {
	return d.n.Name()
}

// Exists reports whether the backing directory is still present.
func (d *Document) Exists() bool {
	return d.n.IsDir()
}

func (d *Document) Name() (string, bool)   { return getString(d.n, DocNameSlot) }
func (d *Document) SetName(v string) error { return d.n.WriteChildString(DocNameSlot, v) }

func (d *Document) UploaderID() (string, bool)   { return getString(d.n, UploaderIDSlot) }
func (d *Document) SetUploaderID(v string) error { return d.n.WriteChildString(UploaderIDSlot, v) }

// SetUploadDate stores t, at millisecond precision, as the stamp file's
// modification time. The stamp file is created if missing. Times before the
// Unix epoch are rejected.
func (d *Document) SetUploadDate(t time.Time) error {
	ms := t.UnixMilli()
	if ms < 0 {
		return &node.Error{Op: "set upload date", Path: d.n.Child(UploadStampSlot).Path(), Kind: node.InvalidInput}
	}
	if !d.n.ChildExists(UploadStampSlot) {
		if err := d.n.CreateChildFile(UploadStampSlot); err != nil {
			return err
		}
	}
	return d.n.SetChildModTime(UploadStampSlot, time.UnixMilli(ms))
}

// UploadDate returns the stored upload time. It is unset when the stamp file
// is missing or its modification time is exactly the epoch.
func (d *Document) UploadDate() (time.Time, bool) {
	mt, err := d.n.ChildModTime(UploadStampSlot)
	if err != nil {
		return time.Time{}, false
	}
	ms := mt.UnixMilli()
	if ms == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// SetContent copies the regular file at sourcePath into the blob slot,
// replacing any previous content.
func (d *Document) SetContent(sourcePath string) error {
	return d.n.CopyChildFrom(BlobSlot, sourcePath)
}

// CreateEmptyContent creates an empty blob file. It fails if one already exists.
func (d *Document) CreateEmptyContent() error {
	return d.n.CreateChildFile(BlobSlot)
}

// ContentPath returns the blob's location, unset if there is no blob file.
func (d *Document) ContentPath() (string, bool) {
	blob := d.n.Child(BlobSlot)
	if !blob.Exists() {
		return "", false
	}
	return blob.Path(), true
}

// OpenContent opens the blob for reading. The caller closes it.
func (d *Document) OpenContent() (io.ReadCloser, error) {
	return d.n.Child(BlobSlot).Open()
}

// CopyContentTo writes a copy of the blob to dst.
func (d *Document) CopyContentTo(dst string) error {
	return d.n.Child(BlobSlot).CopyTo(dst)
}
