package model_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

func TestSavedPlan_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	want := model.SavedPlan{
		ID:        "plan-1",
		Name:      "inbox (3 files)",
		CreatedAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		Plan: model.ArchivePlan{
			RootLabel: "inbox",
			Summary: model.PlanSummary{
				TotalFiles:     3,
				TotalBytes:     320,
				Topics:         []string{"finance", "photos"},
				SensitiveCount: 1,
				FolderCount:    2,
			},
			Folders: []model.FolderPlan{
				{
					Name:        "invoices",
					DisplayName: "Invoices",
					Rationale:   "billing documents",
					Confidence:  0.9,
					Files: []model.FileAction{
						{Path: "/in/inv.pdf", Action: model.ActionMove, Reason: "invoice", Confidence: 0.8},
					},
				},
				{Name: "photos", Confidence: 0.7},
			},
			Operations: []model.Operation{
				{Kind: model.OpCreateFolder, Folder: "invoices", Note: "billing documents"},
				{Kind: model.OpCreateFolder, Folder: "photos"},
				{Kind: model.OpCopy, Folder: "invoices", Items: []string{"/in/inv.pdf"}, SizeDelta: 100},
			},
			Duplicates: []model.DuplicateGroup{
				{Hash: "h1", Paths: []string{"/in/a.jpg", "/in/b.jpg"}},
			},
			Sensitive: []model.SensitiveFile{
				{Path: "/in/id.jpg", Type: "identity document", Advice: "keep offline"},
			},
			Rollback: model.RollbackInfo{Instructions: "remove the created folders", LogRef: "ref-1"},
			Metrics:  model.PlanMetrics{ConfidenceMean: 0.8, FoldersCreated: 2, FilesMoved: 0},
			Errors:   []string{`classifier referenced unknown file "/in/ghost"`},
			Config:   model.PlanConfig{Provider: "openai", Model: "gpt-4o-mini"},
		},
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got model.SavedPlan
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestFileRecord_PayloadNotSerialized(t *testing.T) {
	t.Parallel()
	rec := model.FileRecord{Path: "/in/a.txt", Hash: "h1", Payload: []byte("secret contents")}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for key, v := range m {
		if s, ok := v.(string); ok && s == "secret contents" {
			t.Errorf("payload contents leaked into JSON under key %q", key)
		}
	}
}

func TestOperationStatus_Terminal(t *testing.T) {
	t.Parallel()
	terminal := []model.OperationStatus{
		model.StatusCompleted, model.StatusFailed, model.StatusCancelled, model.StatusRolledBack,
	}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	for _, s := range []model.OperationStatus{model.StatusPending, model.StatusInProgress} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestActionKind_Valid(t *testing.T) {
	t.Parallel()
	for _, k := range []model.ActionKind{model.ActionMove, model.ActionCopy, model.ActionLink, model.ActionIgnore} {
		if !k.Valid() {
			t.Errorf("%s.Valid() = false, want true", k)
		}
	}
	if model.ActionKind("shred").Valid() {
		t.Error(`ActionKind("shred").Valid() = true, want false`)
	}
}
