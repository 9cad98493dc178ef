// Package tree defines the declarative layout model consumed by the
// scaffolder. A layout is a tree of three node kinds (directory, file list
// and empty file) loaded from a YAML or JSON document, validated against an
// embedded JSON Schema, and converted into an ordered, read-only Tree.
package tree
