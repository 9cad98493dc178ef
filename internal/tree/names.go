package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidName is wrapped by every name rule violation.
var ErrInvalidName = errors.New("invalid name")

// ValidateName checks that name is a single path segment: non-empty, not
// "." or "..", free of separators and NUL bytes, and not absolute.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	case filepath.IsAbs(name):
		return fmt.Errorf("%w: %q is an absolute path", ErrInvalidName, name)
	}
	return nil
}

// Validate checks a tree built in code: every node is set, every name is a
// valid segment, and names are unique within each directory. Trees returned
// by Parse already satisfy it.
func (t Tree) Validate() error {
	return validateEntries(t, "")
}

func validateEntries(entries []Entry, parent string) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		p := joinPath(parent, e.Name)
		if err := ValidateName(e.Name); err != nil {
			return &ConfigurationError{Path: p, Reason: "bad entry name", Err: err}
		}
		if seen[e.Name] {
			return configErr(p, "duplicate name %q", e.Name)
		}
		seen[e.Name] = true

		if e.Node == nil {
			return configErr(p, "entry has no node")
		}
		switch e.Node.Kind {
		case KindDirectory:
			if err := validateEntries(e.Node.Children, p); err != nil {
				return err
			}
		case KindFileList:
			if err := validateFileNames(e.Node.Files, p); err != nil {
				return err
			}
		case KindEmptyFile:
		default:
			return configErr(p, "unknown node kind %s", e.Node.Kind)
		}
	}
	return nil
}

func validateFileNames(names []string, parent string) error {
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		p := fmt.Sprintf("%s[%d]", parent, i)
		if err := ValidateName(name); err != nil {
			return &ConfigurationError{Path: p, Reason: "bad file name", Err: err}
		}
		if seen[name] {
			return configErr(p, "duplicate file name %q", name)
		}
		seen[name] = true
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
