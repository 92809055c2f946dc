package organizer

import "github.com/black-lotus-01/data-organizer/internal/model"

// Snapshot is the persisted subset of application state. In-flight
// execution state and transient UI state are deliberately excluded.
// The JSON keys are stable; missing keys default at load time.
type Snapshot struct {
	CurrentProvider string                 `json:"currentProvider"`
	Providers       []model.AIProvider     `json:"providers"`
	SavedPlans      []model.SavedPlan      `json:"savedPlans"`
	ActivityHistory []model.ActivityRecord `json:"activityHistory"`
}

// StateStore persists snapshots to durable key-value storage. The
// in-memory session state is the source of truth; the store is a passive
// mirror written after every mutation and read once at startup.
type StateStore interface {
	// Save overwrites the stored snapshot.
	Save(snap *Snapshot) error

	// Load returns the last saved snapshot, or (nil, nil) when nothing
	// has been saved. A corrupt snapshot yields a *StorageError; callers
	// treat any failure as an absent snapshot.
	Load() (*Snapshot, error)

	Close() error
}
