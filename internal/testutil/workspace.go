package testutil

import (
	"github.com/black-lotus-01/data-organizer/internal/workspace"
)

// NewTestWorkspace creates a new in-memory workspace for testing.
func NewTestWorkspace() *workspace.MemoryWorkspace {
	return workspace.NewMemoryWorkspace()
}
