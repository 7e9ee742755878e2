package mocks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrInjected is returned by FaultyFs for every operation it fails.
var ErrInjected = errors.New("injected fault")

// FaultyFs wraps a real afero.Fs and fails selected calls. A nil predicate
// never fails.
type FaultyFs struct {
	afero.Fs
	FailWrite  func(name string) bool // Create and OpenFile for writing
	FailMkdir  func(name string) bool
	FailRemove func(name string) bool
	FailRename func(oldname, newname string) bool
}

// Slot matches the attribute file slot and the temp files written while
// replacing it.
func Slot(slot string) func(string) bool {
	return func(name string) bool {
		base := filepath.Base(name)
		return base == slot || strings.HasPrefix(base, "."+slot+".tmp-")
	}
}

func (f *FaultyFs) Create(name string) (afero.File, error) {
	if f.FailWrite != nil && f.FailWrite(name) {
		return nil, &os.PathError{Op: "create", Path: name, Err: ErrInjected}
	}
	return f.Fs.Create(name)
}

func (f *FaultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	writing := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0
	if writing && f.FailWrite != nil && f.FailWrite(name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultyFs) Mkdir(name string, perm os.FileMode) error {
	if f.FailMkdir != nil && f.FailMkdir(name) {
		return &os.PathError{Op: "mkdir", Path: name, Err: ErrInjected}
	}
	return f.Fs.Mkdir(name, perm)
}

func (f *FaultyFs) MkdirAll(path string, perm os.FileMode) error {
	if f.FailMkdir != nil && f.FailMkdir(path) {
		return &os.PathError{Op: "mkdir", Path: path, Err: ErrInjected}
	}
	return f.Fs.MkdirAll(path, perm)
}

func (f *FaultyFs) Remove(name string) error {
	if f.FailRemove != nil && f.FailRemove(name) {
		return &os.PathError{Op: "remove", Path: name, Err: ErrInjected}
	}
	return f.Fs.Remove(name)
}

func (f *FaultyFs) Rename(oldname, newname string) error {
	if f.FailRename != nil && f.FailRename(oldname, newname) {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrInjected}
	}
	return f.Fs.Rename(oldname, newname)
}
