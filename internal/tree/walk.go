package tree

import "path"

// WalkFunc is called once per entry. rel is the slash-separated path of the
// entry relative to the layout root. Files of a file list are reported as
// empty-file nodes.
type WalkFunc func(rel string, n *Node) error

// Walk visits the tree depth-first in pre-order, parents before children,
// siblings in document order. It stops at the first error fn returns.
func (t Tree) Walk(fn WalkFunc) error {
	return walkEntries(t, "", fn)
}

func walkEntries(entries []Entry, parent string, fn WalkFunc) error {
	for _, e := range entries {
		rel := path.Join(parent, e.Name)
		if err := fn(rel, e.Node); err != nil {
			return err
		}

		switch e.Node.Kind {
		case KindDirectory:
			if err := walkEntries(e.Node.Children, rel, fn); err != nil {
				return err
			}
		case KindFileList:
			for _, name := range e.Node.Files {
				if err := fn(path.Join(rel, name), File()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Count returns the number of directories and files the tree describes,
// not counting the root.
func (t Tree) Count() (dirs, files int) {
	_ = t.Walk(func(_ string, n *Node) error {
		if n.IsDir() {
			dirs++
		} else {
			files++
		}
		return nil
	})
	return dirs, files
}
