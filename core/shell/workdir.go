package shell

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// WorkDir is the shell's current working directory. The cd built-in changes
// it and the executor starts every stage in it.
type WorkDir interface {
	Getwd() (string, error)
	Chdir(dir string) error
}

// OSWorkDir is the process-wide working directory.
type OSWorkDir struct{}

var _ WorkDir = OSWorkDir{}

func (OSWorkDir) Getwd() (string, error) {
	return os.Getwd()
}

func (OSWorkDir) Chdir(dir string) error {
	return os.Chdir(dir)
}

// FsWorkDir tracks a working directory as a value, checking each change
// against a filesystem instead of calling chdir(2). Children still observe
// it because the executor passes it as each stage's directory.
type FsWorkDir struct {
	fs  afero.Fs
	dir string
}

var _ WorkDir = (*FsWorkDir)(nil)

// NewFsWorkDir starts in dir, which should be absolute.
func NewFsWorkDir(fsys afero.Fs, dir string) *FsWorkDir {
	return &FsWorkDir{fs: fsys, dir: filepath.Clean(dir)}
}

func (w *FsWorkDir) Getwd() (string, error) {
	return w.dir, nil
}

// Chdir moves to dir, resolved against the current directory when relative.
// The directory is left unchanged on error.
func (w *FsWorkDir) Chdir(dir string) error {
	target := dir
	if !filepath.IsAbs(target) {
		target = filepath.Join(w.dir, target)
	}
	target = filepath.Clean(target)

	info, err := w.fs.Stat(target)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	w.dir = target
	return nil
}
