package organizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// ClassifierFactory builds a classifier for a configured provider.
type ClassifierFactory func(p model.AIProvider) Classifier

// Service is the orchestration layer coordinating the classifier, plan
// builder, executor, ledger, and state store. The in-memory state it
// holds is the source of truth for the session; the store is a passive
// mirror written after every mutation.
type Service struct {
	store       StateStore
	ledger      *Ledger
	classifiers ClassifierFactory
	logger      Logger
	clock       Clock
	idgen       IDGenerator

	currentProvider string
	providers       []model.AIProvider
	savedPlans      []model.SavedPlan
}

// NewService creates a Service with the provided dependencies.
func NewService(store StateStore, ledger *Ledger, classifiers ClassifierFactory, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:       store,
		ledger:      ledger,
		classifiers: classifiers,
		logger:      logger,
		clock:       clock,
		idgen:       idgen,
	}
}

// LoadState restores the last snapshot. It runs exactly once, at
// startup, before any user interaction. A missing or corrupt snapshot is
// not an error: the session starts from defaults.
func (s *Service) LoadState() {
	snap, err := s.store.Load()
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting from defaults", "error", err)
		return
	}
	if snap == nil {
		return
	}
	s.currentProvider = snap.CurrentProvider
	s.providers = snap.Providers
	s.savedPlans = snap.SavedPlans
	s.ledger.Replace(snap.ActivityHistory)
}

// persist mirrors the current state into the store. Storage failures are
// logged and swallowed; they never block the session.
func (s *Service) persist() {
	snap := &Snapshot{
		CurrentProvider: s.currentProvider,
		Providers:       s.providers,
		SavedPlans:      s.savedPlans,
		ActivityHistory: s.ledger.Records(),
	}
	if err := s.store.Save(snap); err != nil {
		s.logger.Error("saving snapshot", "error", err)
	}
}

// Providers returns the configured providers.
func (s *Service) Providers() []model.AIProvider {
	out := make([]model.AIProvider, len(s.providers))
	copy(out, s.providers)
	return out
}

// AddProvider registers a provider and makes it current.
func (s *Service) AddProvider(p model.AIProvider) model.AIProvider {
	if p.ID == "" {
		p.ID = s.idgen.New()
	}
	s.providers = append(s.providers, p)
	s.currentProvider = p.ID
	s.ledger.Record(model.ActivityAIConnected, model.StatusCompleted,
		fmt.Sprintf("Provider %q added", p.Name), "",
		&model.ActivityMetadata{Provider: p.Name})
	s.persist()
	return p
}

// RemoveProvider deletes a provider by id.
func (s *Service) RemoveProvider(id string) error {
	for i, p := range s.providers {
		if p.ID == id {
			s.providers = append(s.providers[:i], s.providers[i+1:]...)
			if s.currentProvider == id {
				s.currentProvider = ""
			}
			s.ledger.Record(model.ActivityAIDisconnected, model.StatusCompleted,
				fmt.Sprintf("Provider %q removed", p.Name), "",
				&model.ActivityMetadata{Provider: p.Name})
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("no provider with id %q", id)
}

// CurrentProvider returns the active provider.
func (s *Service) CurrentProvider() (model.AIProvider, error) {
	for _, p := range s.providers {
		if p.ID == s.currentProvider {
			return p, nil
		}
	}
	return model.AIProvider{}, errors.New("no provider configured")
}

// TestProvider probes a provider's endpoint and recomputes its
// connectivity flag.
func (s *Service) TestProvider(ctx context.Context, id string) (bool, error) {
	for i, p := range s.providers {
		if p.ID != id {
			continue
		}
		err := s.classifiers(p).TestConnection(ctx)
		s.providers[i].Connected = err == nil
		s.persist()
		if err != nil {
			return false, fmt.Errorf("probing provider %q: %w", p.Name, err)
		}
		return true, nil
	}
	return false, fmt.Errorf("no provider with id %q", id)
}

// Analyze sends the batch to the current provider's classifier, builds an
// archive plan from the response, and saves it. A malformed response
// fails the attempt with a *ClassificationParseError: no partial plan is
// produced and the attempt is not retried.
func (s *Service) Analyze(ctx context.Context, records []model.FileRecord, rootLabel string) (*model.SavedPlan, error) {
	provider, err := s.CurrentProvider()
	if err != nil {
		return nil, err
	}

	uploaded := s.ledger.Record(model.ActivityUpload, model.StatusCompleted,
		fmt.Sprintf("Ingested %d file(s)", len(records)), "",
		&model.ActivityMetadata{FileCount: len(records)})

	req := &ClassificationRequest{ExistingFolders: s.existingFolders()}
	for _, r := range records {
		req.Files = append(req.Files, FileSummary{
			Name:    r.Path,
			MIME:    r.MIME,
			Size:    r.Size,
			Excerpt: r.Excerpt,
		})
	}

	s.logger.Info("requesting classification", "files", len(records), "provider", provider.Name)
	raw, err := s.classifiers(provider).Classify(ctx, req)
	if err != nil {
		s.recordAnalysisFailure(provider, err)
		return nil, fmt.Errorf("classification request: %w", err)
	}

	classification, err := ParseClassification(raw)
	if err != nil {
		s.recordAnalysisFailure(provider, err)
		return nil, err
	}

	plan := BuildPlan(classification, records, rootLabel, uploaded.ID, model.PlanConfig{
		Provider: provider.Name,
		Model:    provider.Model,
	})

	saved := model.SavedPlan{
		ID:        s.idgen.New(),
		Name:      fmt.Sprintf("%s (%d files)", rootLabel, plan.Summary.TotalFiles),
		CreatedAt: s.clock.Now(),
		Plan:      *plan,
	}
	s.savedPlans = append(s.savedPlans, saved)

	s.ledger.Record(model.ActivityAnalysis, model.StatusCompleted,
		"Analysis complete",
		fmt.Sprintf("%d folder(s) proposed for %d file(s)", plan.Summary.FolderCount, plan.Summary.TotalFiles),
		&model.ActivityMetadata{FileCount: plan.Summary.TotalFiles, FolderCount: plan.Summary.FolderCount, Provider: provider.Name})
	s.ledger.Record(model.ActivityPlanGenerated, model.StatusCompleted,
		fmt.Sprintf("Plan %q generated", saved.Name), "",
		&model.ActivityMetadata{PlanID: saved.ID})
	s.ledger.Record(model.ActivityPlanSaved, model.StatusCompleted,
		fmt.Sprintf("Plan %q saved", saved.Name), "",
		&model.ActivityMetadata{PlanID: saved.ID})
	s.persist()

	return &saved, nil
}

// recordAnalysisFailure surfaces a failed analysis attempt in the
// ledger. No error is silently swallowed.
func (s *Service) recordAnalysisFailure(provider model.AIProvider, err error) {
	s.logger.Error("analysis failed", "provider", provider.Name, "error", err)
	s.ledger.Record(model.ActivityError, model.StatusFailed,
		"Analysis failed", err.Error(),
		&model.ActivityMetadata{Provider: provider.Name, Error: err.Error()})
	s.persist()
}

// existingFolders collects folder names from saved plans so the
// classifier is encouraged to reuse them.
func (s *Service) existingFolders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, sp := range s.savedPlans {
		for _, f := range sp.Plan.Folders {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	return names
}

// Plans returns the saved plans, newest last.
func (s *Service) Plans() []model.SavedPlan {
	out := make([]model.SavedPlan, len(s.savedPlans))
	copy(out, s.savedPlans)
	return out
}

// Plan returns a saved plan by id.
func (s *Service) Plan(id string) (*model.SavedPlan, error) {
	for i := range s.savedPlans {
		if s.savedPlans[i].ID == id {
			return &s.savedPlans[i], nil
		}
	}
	return nil, fmt.Errorf("no saved plan with id %q", id)
}

// NewRun prepares an executor for a saved plan against the given
// workspace. The executor owns the workspace until the run finishes.
func (s *Service) NewRun(planID string, records []model.FileRecord, ws Workspace) (*Executor, error) {
	saved, err := s.Plan(planID)
	if err != nil {
		return nil, err
	}
	return NewExecutor(&saved.Plan, records, ws, s.ledger, s.logger), nil
}

// FinishRun persists the ledger entries a run appended.
func (s *Service) FinishRun() {
	s.persist()
}

// Ledger exposes the activity history.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// ClearActivity empties the history, backing the explicit user action.
func (s *Service) ClearActivity() {
	s.ledger.Clear()
	s.persist()
}
