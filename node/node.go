package node

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Node binds to exactly one path on a filesystem. The path may or may not exist
// yet. A Node caches nothing: every query goes to the filesystem.
type Node struct {
	fs   afero.Fs
	path string
}

// New binds a Node to path on fsys.
func New(fsys afero.Fs, path string) *Node {
	return &Node{fs: fsys, path: filepath.Clean(path)}
}

// Path returns the full path the node is bound to.
func (n *Node) Path() string {
	return n.path
}

// Name returns the node's identity relative to its parent (last path element).
func (n *Node) Name() string {
	return filepath.Base(n.path)
}

// Fs returns the filesystem backing the node.
func (n *Node) Fs() afero.Fs {
	return n.fs
}

// Child returns a plain node bound to the named child of n. Record types wrap
// the result in their own kind; the node layer never assumes one.
func (n *Node) Child(name string) *Node {
	return &Node{fs: n.fs, path: n.childPath(name)}
}

func (n *Node) childPath(name string) string {
	return filepath.Join(n.path, name)
}

// ValidName reports whether name can be used as a single child name: not
// empty, not "." or "..", and free of path separators.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// ---[ Queries ]---

func (n *Node) Exists() bool {
	return exists(n.fs, n.path)
}

func (n *Node) IsDir() bool {
	info, err := n.fs.Stat(n.path)
	return err == nil && info.IsDir()
}

// IsFile reports whether the node is a regular file.
func (n *Node) IsFile() bool {
	info, err := n.fs.Stat(n.path)
	return err == nil && info.Mode().IsRegular()
}

func (n *Node) ChildExists(name string) bool {
	return exists(n.fs, n.childPath(name))
}

func exists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// ---[ Creation ]---

// CreateDir creates the node as a directory, including missing parents. It is
// a no-op if the directory already exists.
func (n *Node) CreateDir() error {
	return createDir(n.fs, n.path)
}

// CreateFile creates the node as an empty file. It fails if anything already
// exists at the path.
func (n *Node) CreateFile() error {
	return createFile(n.fs, n.path)
}

func (n *Node) CreateChildDir(name string) error {
	return createDir(n.fs, n.childPath(name))
}

func (n *Node) CreateChildFile(name string) error {
	return createFile(n.fs, n.childPath(name))
}

func createDir(fsys afero.Fs, path string) error {
	info, err := fsys.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return newError("mkdir", path, TypeMismatch, nil)
		}
		return nil
	}
	if err := fsys.MkdirAll(path, dirPerm); err != nil {
		return newError("mkdir", path, IOFailure, err)
	}
	return nil
}

func createFile(fsys afero.Fs, path string) error {
	if exists(fsys, path) {
		return newError("create", path, AlreadyExists, nil)
	}
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return newError("create", path, AlreadyExists, err)
		}
		return newError("create", path, IOFailure, err)
	}
	if err := f.Close(); err != nil {
		return newError("create", path, IOFailure, err)
	}
	return nil
}

// ---[ Rename ]---

// RenameTo moves the node to newPath with a single rename call and rebinds the
// node to it. Existing references to the old path are not updated.
func (n *Node) RenameTo(newPath string) error {
	newPath = filepath.Clean(newPath)
	if err := rename(n.fs, n.path, newPath); err != nil {
		return err
	}
	n.path = newPath
	return nil
}

// RenameChild renames the child oldName to newName within n. Nodes bound to
// the old child path are invalidated.
func (n *Node) RenameChild(oldName, newName string) error {
	return rename(n.fs, n.childPath(oldName), n.childPath(newName))
}

func rename(fsys afero.Fs, from, to string) error {
	if exists(fsys, to) {
		return newError("rename", to, AlreadyExists, nil)
	}
	if !exists(fsys, from) {
		return newError("rename", from, NotFound, nil)
	}
	if err := fsys.Rename(from, to); err != nil {
		return newError("rename", from, IOFailure, err)
	}
	return nil
}

// ---[ Listing and removal ]---

// List returns the names of the node's immediate children in the order the
// filesystem reports them.
func (n *Node) List() ([]string, error) {
	info, err := n.fs.Stat(n.path)
	if err != nil {
		return nil, newError("list", n.path, NotFound, err)
	}
	if !info.IsDir() {
		return nil, newError("list", n.path, TypeMismatch, nil)
	}
	d, err := n.fs.Open(n.path)
	if err != nil {
		return nil, newError("list", n.path, IOFailure, err)
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, newError("list", n.path, IOFailure, err)
	}
	return names, nil
}

// Remove deletes the node if it is a file or an empty directory. It never
// recurses.
func (n *Node) Remove() error {
	if !n.Exists() {
		return newError("remove", n.path, NotFound, nil)
	}
	if err := n.fs.Remove(n.path); err != nil {
		return newError("remove", n.path, IOFailure, err)
	}
	return nil
}

// ---[ Metadata ]---

// ModTime returns the node's modification time.
func (n *Node) ModTime() (time.Time, error) {
	return modTime(n.fs, n.path)
}

// SetModTime sets the node's modification time. The node must exist.
func (n *Node) SetModTime(t time.Time) error {
	return setModTime(n.fs, n.path, t)
}

func (n *Node) ChildModTime(name string) (time.Time, error) {
	return modTime(n.fs, n.childPath(name))
}

func (n *Node) SetChildModTime(name string, t time.Time) error {
	return setModTime(n.fs, n.childPath(name), t)
}

func modTime(fsys afero.Fs, path string) (time.Time, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return time.Time{}, newError("stat", path, NotFound, err)
	}
	return info.ModTime(), nil
}

func setModTime(fsys afero.Fs, path string, t time.Time) error {
	if !exists(fsys, path) {
		return newError("chtimes", path, NotFound, nil)
	}
	if err := fsys.Chtimes(path, time.Now(), t); err != nil {
		return newError("chtimes", path, IOFailure, err)
	}
	return nil
}

// ---[ Streams ]---

// Open opens the node for reading. The caller closes the returned file.
func (n *Node) Open() (afero.File, error) {
	info, err := n.fs.Stat(n.path)
	if err != nil {
		return nil, newError("open", n.path, NotFound, err)
	}
	if info.IsDir() {
		return nil, newError("open", n.path, TypeMismatch, nil)
	}
	f, err := n.fs.Open(n.path)
	if err != nil {
		return nil, newError("open", n.path, NotFound, err)
	}
	return f, nil
}

// CopyChildFrom replaces the named child with a copy of the regular file at
// src on the same filesystem.
func (n *Node) CopyChildFrom(name, src string) error {
	info, err := n.fs.Stat(src)
	if err != nil {
		return newError("copy", src, InvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return newError("copy", src, InvalidInput, nil)
	}
	in, err := n.fs.Open(src)
	if err != nil {
		return newError("copy", src, InvalidInput, err)
	}
	defer in.Close()

	return replace(n.fs, "copy", n.childPath(name), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// CopyTo writes a copy of the node's content to dst, replacing anything there.
func (n *Node) CopyTo(dst string) error {
	in, err := n.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	return replace(n.fs, "copy", dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// replace writes a temp file beside path and renames it over path, so readers
// see either the old content or the new, never a partial write.
func replace(fsys afero.Fs, op, path string, write func(io.Writer) error) error {
	info, err := fsys.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return newError(op, path, TypeMismatch, nil)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return newError(op, path, IOFailure, err)
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return newError(op, path, IOFailure, err)
	}
	tmpName := tmp.Name()

	werr := write(tmp)
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = fsys.Chmod(tmpName, filePerm)
	}
	if werr == nil {
		werr = fsys.Rename(tmpName, path)
	}
	if werr != nil {
		_ = fsys.Remove(tmpName)
		return newError(op, path, IOFailure, werr)
	}
	return nil
}
