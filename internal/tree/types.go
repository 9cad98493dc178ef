package tree

import "fmt"

// Kind identifies which variant of the layout union a Node holds.
type Kind int

const (
	// KindDirectory is a directory with named, ordered children.
	KindDirectory Kind = iota
	// KindFileList is a directory holding one empty file per listed name.
	KindFileList
	// KindEmptyFile is a single empty regular file.
	KindEmptyFile
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFileList:
		return "file list"
	case KindEmptyFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one position in a layout. Children is only set for directories
// and Files only for file lists.
type Node struct {
	Kind     Kind
	Children []Entry
	Files    []string
}

// Entry pairs a name with the node stored under it.
type Entry struct {
	Name string
	Node *Node
}

// Tree is the implicit root directory of a layout, in document order.
type Tree []Entry

// Document is a loaded layout file.
type Document struct {
	Version string // Format version from the envelope; empty for bare documents
	Root    string // Default root directory from the envelope, may be empty
	Tree    Tree
}

// Dir builds a directory node.
func Dir(children ...Entry) *Node {
	return &Node{Kind: KindDirectory, Children: children}
}

// Files builds a file list node.
func Files(names ...string) *Node {
	return &Node{Kind: KindFileList, Files: names}
}

// File builds an empty file node.
func File() *Node {
	return &Node{Kind: KindEmptyFile}
}

// E is shorthand for an Entry literal.
func E(name string, n *Node) Entry {
	return Entry{Name: name, Node: n}
}

// IsDir reports whether the node materializes as a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory || n.Kind == KindFileList
}
