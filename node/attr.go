package node

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// An attribute is one scalar stored as the entire content of one file. Text is
// stored verbatim; numbers and booleans are stored as their decimal/literal
// form and read back with surrounding whitespace trimmed.

func readRaw(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return "", newError("read", path, NotFound, err)
	}
	if info.IsDir() {
		return "", newError("read", path, TypeMismatch, nil)
	}
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", newError("read", path, NotFound, err)
	}
	return string(b), nil
}

func writeRaw(fsys afero.Fs, path, v string) error {
	return replace(fsys, "write", path, func(w io.Writer) error {
		_, err := io.WriteString(w, v)
		return err
	})
}

func readScalar[T any](fsys afero.Fs, path string, decode func(string) (T, error)) (T, error) {
	var zero T
	s, err := readRaw(fsys, path)
	if err != nil {
		return zero, err
	}
	v, err := decode(strings.TrimSpace(s))
	if err != nil {
		return zero, newError("read", path, ParseError, err)
	}
	return v, nil
}

func decodeBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func encodeBool(v bool) string {
	return strconv.FormatBool(v)
}

func decodeInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func encodeInt32(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

func decodeFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

func encodeFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// =[ Self ]=

func (n *Node) ReadString() (string, error) {
	return readRaw(n.fs, n.path)
}

func (n *Node) WriteString(v string) error {
	return writeRaw(n.fs, n.path, v)
}

func (n *Node) ReadBool() (bool, error) {
	return readScalar(n.fs, n.path, decodeBool)
}

func (n *Node) WriteBool(v bool) error {
	return writeRaw(n.fs, n.path, encodeBool(v))
}

func (n *Node) ReadInt32() (int32, error) {
	return readScalar(n.fs, n.path, decodeInt32)
}

func (n *Node) WriteInt32(v int32) error {
	return writeRaw(n.fs, n.path, encodeInt32(v))
}

func (n *Node) ReadFloat32() (float32, error) {
	return readScalar(n.fs, n.path, decodeFloat32)
}

func (n *Node) WriteFloat32(v float32) error {
	return writeRaw(n.fs, n.path, encodeFloat32(v))
}

// =[ Child ]=

func (n *Node) ReadChildString(name string) (string, error) {
	return readRaw(n.fs, n.childPath(name))
}

func (n *Node) WriteChildString(name, v string) error {
	return writeRaw(n.fs, n.childPath(name), v)
}

func (n *Node) ReadChildBool(name string) (bool, error) {
	return readScalar(n.fs, n.childPath(name), decodeBool)
}

func (n *Node) WriteChildBool(name string, v bool) error {
	return writeRaw(n.fs, n.childPath(name), encodeBool(v))
}

func (n *Node) ReadChildInt32(name string) (int32, error) {
	return readScalar(n.fs, n.childPath(name), decodeInt32)
}

func (n *Node) WriteChildInt32(name string, v int32) error {
	return writeRaw(n.fs, n.childPath(name), encodeInt32(v))
}

func (n *Node) ReadChildFloat32(name string) (float32, error) {
	return readScalar(n.fs, n.childPath(name), decodeFloat32)
}

func (n *Node) WriteChildFloat32(name string, v float32) error {
	return writeRaw(n.fs, n.childPath(name), encodeFloat32(v))
}
