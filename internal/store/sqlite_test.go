package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/black-lotus-01/data-organizer/internal/model"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
	"github.com/black-lotus-01/data-organizer/internal/store"
)

func newTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot() *organizer.Snapshot {
	return &organizer.Snapshot{
		CurrentProvider: "p-1",
		Providers: []model.AIProvider{
			{ID: "p-1", Name: "openai", APIKey: "sk-test", Model: "gpt-4o-mini", Connected: true},
		},
		SavedPlans: []model.SavedPlan{
			{
				ID:        "plan-1",
				Name:      "inbox (2 files)",
				CreatedAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
				Plan: model.ArchivePlan{
					RootLabel: "inbox",
					Summary:   model.PlanSummary{TotalFiles: 2, TotalBytes: 120, FolderCount: 1},
					Folders: []model.FolderPlan{
						{Name: "documents", Confidence: 0.9, Files: []model.FileAction{
							{Path: "/in/a.pdf", Action: model.ActionMove, Confidence: 0.8},
						}},
					},
					Operations: []model.Operation{
						{Kind: model.OpCreateFolder, Folder: "documents"},
						{Kind: model.OpMove, Folder: "documents", Items: []string{"/in/a.pdf"}},
					},
					Rollback: model.RollbackInfo{Instructions: "remove the created folders", LogRef: "ref-1"},
					Metrics:  model.PlanMetrics{ConfidenceMean: 0.85, FoldersCreated: 1, FilesMoved: 1},
				},
			},
		},
		ActivityHistory: []model.ActivityRecord{
			{
				ID:        "1000-abc",
				Kind:      model.ActivityPlanGenerated,
				Status:    model.StatusCompleted,
				Title:     "Plan generated",
				Timestamp: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
				Metadata:  &model.ActivityMetadata{PlanID: "plan-1"},
			},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	t.Run("load before any save returns nil", func(t *testing.T) {
		s := newTestSQLiteStore(t)
		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if snap != nil {
			t.Errorf("Load() = %+v, want nil", snap)
		}
	})

	t.Run("round-trips a snapshot", func(t *testing.T) {
		s := newTestSQLiteStore(t)
		want := testSnapshot()
		if err := s.Save(want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got == nil {
			t.Fatal("Load() = nil after save")
		}
		if got.CurrentProvider != want.CurrentProvider {
			t.Errorf("current provider = %q, want %q", got.CurrentProvider, want.CurrentProvider)
		}
		if len(got.SavedPlans) != 1 {
			t.Fatalf("saved plans = %d, want 1", len(got.SavedPlans))
		}
		gp, wp := got.SavedPlans[0], want.SavedPlans[0]
		if gp.ID != wp.ID || !gp.CreatedAt.Equal(wp.CreatedAt) {
			t.Errorf("plan envelope = %q/%v, want %q/%v", gp.ID, gp.CreatedAt, wp.ID, wp.CreatedAt)
		}
		if len(gp.Plan.Operations) != 2 {
			t.Errorf("plan operations = %d, want 2", len(gp.Plan.Operations))
		}
		if gp.Plan.Metrics.ConfidenceMean != 0.85 {
			t.Errorf("confidence mean = %v, want 0.85", gp.Plan.Metrics.ConfidenceMean)
		}
		if len(got.ActivityHistory) != 1 || got.ActivityHistory[0].Metadata.PlanID != "plan-1" {
			t.Errorf("activity history = %+v, want one record for plan-1", got.ActivityHistory)
		}
	})

	t.Run("a later save overwrites the snapshot", func(t *testing.T) {
		s := newTestSQLiteStore(t)
		if err := s.Save(testSnapshot()); err != nil {
			t.Fatalf("first Save() error = %v", err)
		}
		if err := s.Save(&organizer.Snapshot{CurrentProvider: "p-2"}); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}

		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.CurrentProvider != "p-2" {
			t.Errorf("current provider = %q, want %q", got.CurrentProvider, "p-2")
		}
		if len(got.SavedPlans) != 0 {
			t.Errorf("saved plans = %d, want 0 after overwrite", len(got.SavedPlans))
		}
	})

	t.Run("a corrupt row yields a storage error", func(t *testing.T) {
		s := newTestSQLiteStore(t)
		if err := s.Save(testSnapshot()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, err := s.DB().Exec(`UPDATE snapshots SET data = '{not json' WHERE id = 1`); err != nil {
			t.Fatalf("corrupting row: %v", err)
		}

		_, err := s.Load()
		var storageErr *organizer.StorageError
		if !errors.As(err, &storageErr) {
			t.Errorf("Load() error = %v, want *StorageError", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("round-trips a snapshot through JSON", func(t *testing.T) {
		t.Parallel()
		s := store.NewMemoryStore()
		if err := s.Save(testSnapshot()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got == nil || got.CurrentProvider != "p-1" {
			t.Errorf("Load() = %+v, want snapshot with provider p-1", got)
		}
	})

	t.Run("load before any save returns nil", func(t *testing.T) {
		t.Parallel()
		s := store.NewMemoryStore()
		snap, err := s.Load()
		if err != nil || snap != nil {
			t.Errorf("Load() = %v, %v, want nil, nil", snap, err)
		}
	})

	t.Run("corrupt data yields a storage error", func(t *testing.T) {
		t.Parallel()
		s := store.NewMemoryStore()
		s.Corrupt()
		_, err := s.Load()
		var storageErr *organizer.StorageError
		if !errors.As(err, &storageErr) {
			t.Errorf("Load() error = %v, want *StorageError", err)
		}
	})
}
