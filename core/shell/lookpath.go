package shell

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// lookPath searches for an executable named file in the directories named by
// pathList. If file contains a slash, it is tried directly and pathList is
// not consulted. Relative results are resolved against dir, the directory
// the stage will run in, so the returned path is usable from any cwd.
func lookPath(dir, pathList, file string) (string, error) {
	if strings.Contains(file, "/") {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if err := findExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}
	for _, d := range filepath.SplitList(pathList) {
		if d == "" {
			// Unix shell semantics: path element "" means "."
			d = "."
		}
		if !filepath.IsAbs(d) {
			d = filepath.Join(dir, d)
		}
		path := filepath.Join(d, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// pathFromEnv returns PATH from env, or from the shell's own environment when
// env is nil.
func pathFromEnv(env []string) string {
	if env == nil {
		return os.Getenv("PATH")
	}
	path := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			path = kv[len("PATH="):]
		}
	}
	return path
}
