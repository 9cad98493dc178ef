package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/treeforge/internal/platform"
	"github.com/agentx-labs/treeforge/internal/tree"
	"github.com/spf13/afero"
)

// Default permissions for created entries.
const (
	DefaultDirMode  os.FileMode = 0755
	DefaultFileMode os.FileMode = 0644
)

// Options controls how a Scaffolder creates entries.
type Options struct {
	DirMode  os.FileMode // Applied to created directories
	FileMode os.FileMode // Applied to created files
	DryRun   bool        // Report what would be created without writing
	Log      io.Writer   // One line per entry when set
}

// DefaultOptions returns options with the default modes and no logging.
func DefaultOptions() Options {
	return Options{DirMode: DefaultDirMode, FileMode: DefaultFileMode}
}

// Result holds the outcome of a materialization. Paths are slash-separated
// and relative to Root, in traversal order.
type Result struct {
	Root     string
	Created  []string
	Existing []string
	DryRun   bool
}

// Scaffolder creates layouts on an afero filesystem.
type Scaffolder struct {
	fs   afero.Fs
	opts Options
}

// New creates a Scaffolder writing to fsys. Zero modes fall back to the
// defaults.
func New(fsys afero.Fs, opts Options) *Scaffolder {
	if opts.DirMode == 0 {
		opts.DirMode = DefaultDirMode
	}
	if opts.FileMode == 0 {
		opts.FileMode = DefaultFileMode
	}
	return &Scaffolder{fs: fsys, opts: opts}
}

// Materialize creates root and every entry of t beneath it on the host
// filesystem with default options.
func Materialize(root string, t tree.Tree) (*Result, error) {
	return New(afero.NewOsFs(), DefaultOptions()).Materialize(context.Background(), root, t)
}

// Materialize ensures root is a directory and walks t depth-first,
// creating what is missing. It stops at the first failure and returns a
// *FilesystemError; entries created before the failure are kept. A tree
// that breaks the naming rules yields a *tree.ConfigurationError before
// anything is touched.
func (s *Scaffolder) Materialize(ctx context.Context, root string, t tree.Tree) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Root: root, DryRun: s.opts.DryRun}

	created, err := s.ensureDir(root)
	if err != nil {
		return result, err
	}
	if created {
		s.logf("mkdir", ".")
	}

	err = t.Walk(func(rel string, n *tree.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(root, filepath.FromSlash(rel))
		var created bool
		var err error
		if n.IsDir() {
			created, err = s.ensureDir(target)
		} else {
			created, err = s.ensureFile(target)
		}
		if err != nil {
			return err
		}

		switch {
		case !created:
			result.Existing = append(result.Existing, rel)
			s.logf("exists", rel)
		case n.IsDir():
			result.Created = append(result.Created, rel)
			s.logf("mkdir", rel)
		default:
			result.Created = append(result.Created, rel)
			s.logf("touch", rel)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// ensureDir makes path a directory. It reports whether it had to be created.
func (s *Scaffolder) ensureDir(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, &FilesystemError{Op: "mkdir", Path: path, Err: ErrNotDirectory}
	case !errors.Is(err, fs.ErrNotExist):
		return false, &FilesystemError{Op: "stat", Path: path, Err: err}
	}

	if s.opts.DryRun {
		return true, nil
	}
	if err := s.fs.MkdirAll(path, s.opts.DirMode); err != nil {
		return false, &FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	if err := platform.Chmod(s.fs, path, s.opts.DirMode); err != nil {
		return false, &FilesystemError{Op: "chmod", Path: path, Err: err}
	}
	return true, nil
}

// ensureFile makes path a regular file, creating it empty when missing.
// Existing files are never opened for writing.
func (s *Scaffolder) ensureFile(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, &FilesystemError{Op: "create", Path: path, Err: ErrIsDirectory}
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, &FilesystemError{Op: "stat", Path: path, Err: err}
	}

	if s.opts.DryRun {
		return true, nil
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	f, err := s.fs.OpenFile(path, flag, s.opts.FileMode)
	if errors.Is(err, fs.ErrExist) {
		// Either something appeared since the stat, or path is a symlink
		// whose target is missing.
		info, statErr := s.fs.Stat(path)
		switch {
		case statErr == nil && info.IsDir():
			return false, &FilesystemError{Op: "create", Path: path, Err: ErrIsDirectory}
		case statErr == nil:
			return false, nil
		case !errors.Is(statErr, fs.ErrNotExist):
			return false, &FilesystemError{Op: "stat", Path: path, Err: statErr}
		}
		// Dangling link: create the target through it, without O_TRUNC.
		f, err = s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE, s.opts.FileMode)
	}
	if err != nil {
		return false, &FilesystemError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return false, &FilesystemError{Op: "create", Path: path, Err: err}
	}
	if err := platform.Chmod(s.fs, path, s.opts.FileMode); err != nil {
		return false, &FilesystemError{Op: "chmod", Path: path, Err: err}
	}
	return true, nil
}

func (s *Scaffolder) logf(action, rel string) {
	if s.opts.Log == nil {
		return
	}
	if s.opts.DryRun && action != "exists" {
		action = "would " + action
	}
	fmt.Fprintf(s.opts.Log, "%-12s %s\n", action, rel)
}
