// Package scaffold materializes a tree.Tree on a filesystem. It powers the
// "treeforge apply" command: directories are created with all missing
// ancestors, files are created empty, and anything that already exists is
// left exactly as it is, so running the same layout twice is a no-op.
package scaffold
