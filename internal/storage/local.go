package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/threatscope/threatscope/pkg/constants"
	"github.com/threatscope/threatscope/pkg/errors"
)

// Local writes reports into a directory. Re-running a search overwrites
// the previous report for the same keyword and version; the directory is a
// workspace, not an archive.
type Local struct {
	dir string
}

// NewLocal creates a local store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, &errors.StoreError{Backend: "local", Key: dir, Err: err}
	}
	return &Local{dir: dir}, nil
}

// Save writes data under name and returns the absolute path.
func (l *Local) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return "", &errors.StoreError{Backend: "local", Key: name, Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
