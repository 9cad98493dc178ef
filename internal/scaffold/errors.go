package scaffold

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDirectory means a non-directory sits where a directory is expected.
	ErrNotDirectory = errors.New("exists and is not a directory")
	// ErrIsDirectory means a directory sits where a file is expected.
	ErrIsDirectory = errors.New("exists and is a directory")
)

// FilesystemError reports a filesystem operation that failed while
// materializing a layout. Op is one of "stat", "mkdir", "create" or "chmod".
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
