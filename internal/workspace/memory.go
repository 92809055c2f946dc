package workspace

import (
	"fmt"
	"sync"

	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// MemoryWorkspace is an in-memory implementation of the workspace
// capability. It is used for dry runs and tests; the failure hooks let
// tests simulate partial failures per call, which the capability model
// explicitly allows for.
// This implementation is safe for concurrent use.
type MemoryWorkspace struct {
	mu      sync.Mutex
	folders map[string]map[string][]byte // folder -> name -> payload

	// FailEnsure and FailWrite, when set, return an error for a matching
	// folder or file name.
	FailEnsure map[string]error
	FailWrite  map[string]error

	// AfterEnsure and AfterWrite, when set, run after a successful call.
	AfterEnsure func(name string)
	AfterWrite  func(folder, name string)
}

var _ organizer.Workspace = (*MemoryWorkspace)(nil)

// NewMemoryWorkspace creates an empty in-memory workspace.
func NewMemoryWorkspace() *MemoryWorkspace {
	return &MemoryWorkspace{
		folders:    make(map[string]map[string][]byte),
		FailEnsure: make(map[string]error),
		FailWrite:  make(map[string]error),
	}
}

func (w *MemoryWorkspace) Root() string { return "memory:" }

func (w *MemoryWorkspace) EnsureFolder(name string) (organizer.Folder, error) {
	w.mu.Lock()
	if err := w.FailEnsure[name]; err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if _, ok := w.folders[name]; !ok {
		w.folders[name] = make(map[string][]byte)
	}
	w.mu.Unlock()

	if w.AfterEnsure != nil {
		w.AfterEnsure(name)
	}
	return memFolder(name), nil
}

func (w *MemoryWorkspace) WriteFile(folder organizer.Folder, name string, payload []byte) error {
	f, ok := folder.(memFolder)
	if !ok {
		return fmt.Errorf("folder handle is not a memory folder")
	}

	w.mu.Lock()
	if err := w.FailWrite[name]; err != nil {
		w.mu.Unlock()
		return err
	}
	files, ok := w.folders[string(f)]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("folder not materialized: %s", f)
	}
	files[name] = append([]byte(nil), payload...)
	w.mu.Unlock()

	if w.AfterWrite != nil {
		w.AfterWrite(string(f), name)
	}
	return nil
}

// Folders returns the materialized folder names.
func (w *MemoryWorkspace) Folders() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var names []string
	for name := range w.folders {
		names = append(names, name)
	}
	return names
}

// File returns the stored payload, or nil when absent.
func (w *MemoryWorkspace) File(folder, name string) []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	files, ok := w.folders[folder]
	if !ok {
		return nil
	}
	return files[name]
}

type memFolder string

func (f memFolder) Path() string { return "memory:" + string(f) }
