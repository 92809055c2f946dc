// Package workspace provides target-location backends for plan execution.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// FilesystemWorkspace writes into a local directory granted by the user.
type FilesystemWorkspace struct {
	root string
}

var _ organizer.Workspace = (*FilesystemWorkspace)(nil)

// NewFilesystemWorkspace opens a workspace rooted at the given directory.
// The directory must already exist: selecting a target is an explicit
// user action, not something the executor invents.
func NewFilesystemWorkspace(root string) (*FilesystemWorkspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root is not a directory: %s", abs)
	}
	return &FilesystemWorkspace{root: abs}, nil
}

func (w *FilesystemWorkspace) Root() string { return w.root }

// EnsureFolder creates the subfolder if absent. Calling it twice with
// the same name is safe.
func (w *FilesystemWorkspace) EnsureFolder(name string) (organizer.Folder, error) {
	path := filepath.Join(w.root, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating folder %q: %w", name, err)
	}
	return fsFolder(path), nil
}

// WriteFile writes payload under the folder using a temp file plus
// rename so a failed write never leaves a partial file behind.
func (w *FilesystemWorkspace) WriteFile(folder organizer.Folder, name string, payload []byte) error {
	f, ok := folder.(fsFolder)
	if !ok {
		return fmt.Errorf("folder handle is not a filesystem folder")
	}
	destPath := filepath.Join(string(f), name)

	tmpFile, err := os.CreateTemp(string(f), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// fsFolder is the absolute path of a materialized folder.
type fsFolder string

func (f fsFolder) Path() string { return string(f) }
