package model

import "time"

// OperationStatus is the lifecycle state shared by execution steps and
// activity records: pending -> in_progress -> a terminal state.
type OperationStatus string

const (
	StatusPending    OperationStatus = "pending"
	StatusInProgress OperationStatus = "in_progress"
	StatusCompleted  OperationStatus = "completed"
	StatusFailed     OperationStatus = "failed"
	StatusCancelled  OperationStatus = "cancelled"
	StatusRolledBack OperationStatus = "rolled_back"
)

// Terminal reports whether s is a final state. Terminal states never
// transition further.
func (s OperationStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRolledBack:
		return true
	}
	return false
}

// ExecutionStep tracks the live state of one plan operation during a run.
// Steps are created when execution starts and discarded with the executor.
type ExecutionStep struct {
	Status   OperationStatus `json:"status"`
	Progress int             `json:"progress"` // 0..100
	Error    string          `json:"error,omitempty"`
}

// ActivityKind enumerates the user-visible actions recorded in the ledger.
type ActivityKind string

const (
	ActivityUpload         ActivityKind = "file_upload"
	ActivityAnalysis       ActivityKind = "analysis"
	ActivityPlanGenerated  ActivityKind = "plan_generated"
	ActivityPlanSaved      ActivityKind = "plan_saved"
	ActivityPlanExecuted   ActivityKind = "plan_executed"
	ActivityPlanCancelled  ActivityKind = "plan_cancelled"
	ActivityAIConnected    ActivityKind = "ai_connected"
	ActivityAIDisconnected ActivityKind = "ai_disconnected"
	ActivityFolderCreated  ActivityKind = "folder_created"
	ActivityFileMoved      ActivityKind = "file_moved"
	ActivityError          ActivityKind = "error"
)

// ActivityMetadata is the optional structured payload of a record.
type ActivityMetadata struct {
	FileCount   int    `json:"file_count,omitempty"`
	FolderCount int    `json:"folder_count,omitempty"`
	Provider    string `json:"provider,omitempty"`
	PlanID      string `json:"plan_id,omitempty"`
	Error       string `json:"error,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

// ActivityRecord is one immutable ledger entry.
type ActivityRecord struct {
	ID          string            `json:"id"`
	Kind        ActivityKind      `json:"kind"`
	Status      OperationStatus   `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Metadata    *ActivityMetadata `json:"metadata,omitempty"`
}
