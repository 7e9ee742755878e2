// Package record defines the concrete record schemas layered on node.Node.
//
// A record is a directory; each field is one attribute file inside it. Field
// setters return the underlying node error. Field getters return (value, ok)
// and report ok == false on ANY read failure: a field that was never written,
// a corrupt value and a storage fault all look the same from this layer. Code
// that needs to tell those apart must go below the record layer.
package record

import "github.com/brettbedarf/docvault/node"

// Factory binds a record of kind R to the named child of parent.
type Factory[R any] func(parent *node.Node, name string) R

func getString(n *node.Node, slot string) (string, bool) {
	v, err := n.ReadChildString(slot)
	if err != nil {
		return "", false
	}
	return v, true
}

func getBool(n *node.Node, slot string) (bool, bool) {
	v, err := n.ReadChildBool(slot)
	if err != nil {
		return false, false
	}
	return v, true
}

func getInt32(n *node.Node, slot string) (int32, bool) {
	v, err := n.ReadChildInt32(slot)
	if err != nil {
		return 0, false
	}
	return v, true
}
