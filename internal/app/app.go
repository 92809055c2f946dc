// Package app is the application layer between the CLI and the
// organizer service. It constructs all dependencies from config and
// exposes high-level operations that accept raw string arguments.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/black-lotus-01/data-organizer/internal/classify"
	"github.com/black-lotus-01/data-organizer/internal/config"
	"github.com/black-lotus-01/data-organizer/internal/encryption"
	"github.com/black-lotus-01/data-organizer/internal/model"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
	"github.com/black-lotus-01/data-organizer/internal/scan"
	"github.com/black-lotus-01/data-organizer/internal/store"
	"github.com/black-lotus-01/data-organizer/internal/workspace"
)

// OrganizerApp wires the service core to its backends for one CLI
// invocation. The caller must call Close when done; Close persists the
// final state and releases the store.
type OrganizerApp struct {
	cfg       *config.Config
	store     organizer.StateStore
	encryptor organizer.Encryptor
	service   *organizer.Service
	logFile   *os.File
}

// NewOrganizerApp creates a fully wired OrganizerApp from the given config.
// The caller must call Close when done.
func NewOrganizerApp(cfg *config.Config) (*OrganizerApp, error) {
	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	sessionID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, sessionID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	clock := organizer.RealClock{}
	idgen := organizer.UUIDGenerator{}
	ledger := organizer.NewLedger(clock, idgen)
	svc := organizer.NewService(st, ledger, classify.Factory, &slogAdapter{l: logger}, clock, idgen)
	svc.LoadState()

	return &OrganizerApp{
		cfg:       cfg,
		store:     st,
		encryptor: enc,
		service:   svc,
		logFile:   logFile,
	}, nil
}

// AddProvider registers an AI provider and makes it current.
func (a *OrganizerApp) AddProvider(name, apiKey, baseURL, modelName string) model.AIProvider {
	return a.service.AddProvider(model.AIProvider{
		Name:    name,
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// RemoveProvider deletes a provider by id.
func (a *OrganizerApp) RemoveProvider(id string) error {
	return a.service.RemoveProvider(id)
}

// Providers returns the configured providers.
func (a *OrganizerApp) Providers() []model.AIProvider {
	return a.service.Providers()
}

// CurrentProvider returns the active provider.
func (a *OrganizerApp) CurrentProvider() (model.AIProvider, error) {
	return a.service.CurrentProvider()
}

// TestProvider probes a provider's endpoint.
func (a *OrganizerApp) TestProvider(ctx context.Context, id string) (bool, error) {
	return a.service.TestProvider(ctx, id)
}

// Analyze scans the given paths and asks the current provider to
// classify the batch into an archive plan. Returns the saved plan.
func (a *OrganizerApp) Analyze(ctx context.Context, paths []string, label string) (*model.SavedPlan, error) {
	records, err := scan.ScanPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("scanning paths: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no files found under the given paths")
	}
	return a.service.Analyze(ctx, records, label)
}

// Plans returns the saved plans.
func (a *OrganizerApp) Plans() []model.SavedPlan {
	return a.service.Plans()
}

// Plan returns a saved plan by id.
func (a *OrganizerApp) Plan(id string) (*model.SavedPlan, error) {
	return a.service.Plan(id)
}

// ExportPlan writes a saved plan as JSON to w. When encrypt is true the
// JSON is wrapped with the configured encryptor; keys must be set up
// first.
func (a *OrganizerApp) ExportPlan(id string, w io.Writer, encrypt bool) error {
	saved, err := a.service.Plan(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	if !encrypt {
		_, err := w.Write(data)
		return err
	}

	if !a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys not set up: run 'organizer keys init' first")
	}
	if err := a.encryptor.Encrypt(bytes.NewReader(data), w); err != nil {
		return fmt.Errorf("encrypting plan: %w", err)
	}
	return nil
}

// SetupKeys generates the encryption key pair used for plan export.
func (a *OrganizerApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// NewRun prepares an executor for a saved plan. target, when non-empty,
// overrides the configured workspace with a filesystem workspace rooted
// at that directory. The plan's files are re-scanned so the executor has
// fresh payloads to write.
func (a *OrganizerApp) NewRun(ctx context.Context, planID, target string) (*organizer.Executor, error) {
	saved, err := a.service.Plan(planID)
	if err != nil {
		return nil, err
	}

	var ws organizer.Workspace
	if target != "" {
		ws, err = workspace.NewFilesystemWorkspace(target)
	} else if a.cfg.Workspace.Root != "" || a.cfg.Workspace.Type != "filesystem" {
		ws, err = workspace.NewWorkspaceFromConfig(ctx, a.cfg.Workspace)
	} else {
		return nil, organizer.ErrNoLocationSelected
	}
	if err != nil {
		return nil, fmt.Errorf("opening target location: %w", err)
	}

	records, err := scan.ScanPaths(planPaths(&saved.Plan))
	if err != nil {
		return nil, fmt.Errorf("re-reading plan files: %w", err)
	}

	return a.service.NewRun(planID, records, ws)
}

// FinishRun persists the activity a run appended to the ledger.
func (a *OrganizerApp) FinishRun() {
	a.service.FinishRun()
}

// Activity returns ledger records matching the filter, newest first.
func (a *OrganizerApp) Activity(f organizer.ActivityFilter) []model.ActivityRecord {
	return a.service.Ledger().Filter(f)
}

// GroupedActivity returns filtered records grouped into date buckets.
func (a *OrganizerApp) GroupedActivity(f organizer.ActivityFilter) []organizer.BucketGroup {
	return a.service.Ledger().Grouped(f, time.Now())
}

// ClearActivity empties the activity history.
func (a *OrganizerApp) ClearActivity() {
	a.service.ClearActivity()
}

// Close persists the final state and releases all resources.
func (a *OrganizerApp) Close() error {
	a.service.FinishRun()

	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing state store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// planPaths collects the distinct file paths a plan's operations touch,
// in operation order.
func planPaths(plan *model.ArchivePlan) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, op := range plan.Operations {
		for _, item := range op.Items {
			if !seen[item] {
				seen[item] = true
				paths = append(paths, item)
			}
		}
	}
	return paths
}
