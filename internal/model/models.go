package model

import "time"

// FileRecord describes one ingested file. Records are immutable once
// created; the content hash doubles as the file's identity for dedup.
// Payload holds the raw bytes for the duration of a session and is never
// serialized with a plan.
type FileRecord struct {
	Path     string            `json:"path"`
	MIME     string            `json:"mime"`
	Size     int64             `json:"size"`
	ModTime  time.Time         `json:"mod_time"`
	Hash     string            `json:"hash"` // hex-encoded SHA-256
	Excerpt  string            `json:"excerpt,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Payload  []byte            `json:"-"`
}

// ActionKind is the per-file action recommended by the classifier.
type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionCopy   ActionKind = "copy"
	ActionLink   ActionKind = "link"
	ActionIgnore ActionKind = "ignore"
)

// Valid reports whether k is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionMove, ActionCopy, ActionLink, ActionIgnore:
		return true
	}
	return false
}

// FileAction is one recommended action for a file within a folder plan.
type FileAction struct {
	Path       string     `json:"path"`
	Action     ActionKind `json:"action"`
	Reason     string     `json:"reason,omitempty"`
	Confidence float64    `json:"confidence"`
}

// FolderPlan is one proposed folder with its member file actions.
// Name is the sanitized canonical name; folder plans are never mutated
// after the plan is built.
type FolderPlan struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name,omitempty"`
	Rationale   string       `json:"rationale,omitempty"`
	Confidence  float64      `json:"confidence"`
	Files       []FileAction `json:"files"`
}

// OperationKind is the kind of one executable plan step.
type OperationKind string

const (
	OpCreateFolder OperationKind = "create_folder"
	OpMove         OperationKind = "move"
	OpCopy         OperationKind = "copy"
	OpLink         OperationKind = "link"
	OpConvert      OperationKind = "convert"
	OpSkip         OperationKind = "skip"
)

// Operation is one executable step derived deterministically from the
// folder plans: one create_folder per folder, then one operation per file
// action. All create_folder operations precede operations that target them.
type Operation struct {
	Kind      OperationKind `json:"kind"`
	Folder    string        `json:"folder"`
	Items     []string      `json:"items,omitempty"`
	Note      string        `json:"note,omitempty"`
	SizeDelta int64         `json:"size_delta"`
}

// PlanSummary aggregates batch-level counts for an archive plan.
type PlanSummary struct {
	TotalFiles     int      `json:"total_files"`
	TotalBytes     int64    `json:"total_bytes"`
	Topics         []string `json:"topics,omitempty"`
	SensitiveCount int      `json:"sensitive_count"`
	FolderCount    int      `json:"folder_count"`
}

// DuplicateGroup lists paths that share a content hash.
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Paths []string `json:"paths"`
}

// SensitiveFile is a file flagged by the classifier as sensitive.
// Sensitive files bypass folder assignment entirely.
type SensitiveFile struct {
	Path   string `json:"path"`
	Type   string `json:"type,omitempty"`
	Advice string `json:"advice,omitempty"`
}

// RollbackInfo carries advisory rollback instructions for a plan.
// LogRef is an opaque reference into the activity ledger; there is no
// durable transaction log behind it.
type RollbackInfo struct {
	Instructions string `json:"instructions,omitempty"`
	LogRef       string `json:"log_ref,omitempty"`
}

// PlanMetrics holds the builder-computed metrics for a plan.
type PlanMetrics struct {
	ConfidenceMean float64 `json:"confidence_mean"`
	FoldersCreated int     `json:"folders_created"`
	FilesMoved     int     `json:"files_moved"`
}

// PlanConfig records the settings the plan was generated with.
type PlanConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// ArchivePlan is the aggregate produced by the plan builder. It is
// immutable once handed to the executor; execution tracks its own
// per-step state and never edits the plan.
type ArchivePlan struct {
	RootLabel  string           `json:"root_label"`
	Summary    PlanSummary      `json:"summary"`
	Folders    []FolderPlan     `json:"folders"`
	Operations []Operation      `json:"operations"`
	Duplicates []DuplicateGroup `json:"duplicates,omitempty"`
	Sensitive  []SensitiveFile  `json:"sensitive,omitempty"`
	Rollback   RollbackInfo     `json:"rollback"`
	Metrics    PlanMetrics      `json:"metrics"`
	Errors     []string         `json:"errors,omitempty"`
	Config     PlanConfig       `json:"config"`
}

// SavedPlan is the persistence envelope around an archive plan.
type SavedPlan struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	Plan      ArchivePlan `json:"plan"`
}

// AIProvider is a configured classification endpoint. Connected is
// recomputed by a connectivity probe and never trusted stale.
type AIProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
	BaseURL   string `json:"base_url,omitempty"`
	Model     string `json:"model,omitempty"`
	Connected bool   `json:"connected"`
}
