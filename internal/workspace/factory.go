package workspace

import (
	"context"
	"fmt"

	"github.com/black-lotus-01/data-organizer/internal/config"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// NewWorkspaceFromConfig creates a Workspace based on the config type.
func NewWorkspaceFromConfig(ctx context.Context, cfg config.WorkspaceConfig) (organizer.Workspace, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryWorkspace(), nil
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem workspace requires root to be set")
		}
		return NewFilesystemWorkspace(cfg.Root)
	case "s3":
		return NewS3Workspace(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
	default:
		return nil, fmt.Errorf("unknown workspace type: %s", cfg.Type)
	}
}
