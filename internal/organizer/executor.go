package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// errRunCancelled aborts the in-flight step at its next yield point.
var errRunCancelled = errors.New("run cancelled")

// Executor walks an archive plan's operation list against a workspace.
// Steps execute strictly in array order; step i+1 never starts before
// step i has reached a terminal state. Control is cooperative: pause and
// stop signals are observed at yield points between steps and between
// progress ticks, never by killing an in-flight write.
//
// The executor never edits the plan; it tracks its own per-step state.
type Executor struct {
	plan    *model.ArchivePlan
	records map[string]*model.FileRecord
	ws      Workspace
	ledger  *Ledger
	logger  Logger

	// OnUpdate, when set before Start, is invoked after every step
	// transition and progress tick with the overall progress and a
	// snapshot of all steps.
	OnUpdate func(overall float64, steps []model.ExecutionStep)

	mu      sync.Mutex
	cond    *sync.Cond
	started bool
	paused  bool
	stopped bool
	steps   []model.ExecutionStep
	folders map[string]Folder

	done chan struct{}
}

// NewExecutor prepares an executor for one pass over the plan.
// records must contain every file the plan's operations reference.
func NewExecutor(plan *model.ArchivePlan, records []model.FileRecord, ws Workspace, ledger *Ledger, logger Logger) *Executor {
	byPath := make(map[string]*model.FileRecord, len(records))
	for i := range records {
		byPath[records[i].Path] = &records[i]
	}
	e := &Executor{
		plan:    plan,
		records: byPath,
		ws:      ws,
		ledger:  ledger,
		logger:  logger,
		folders: make(map[string]Folder),
		done:    make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Start begins executing the plan in a background goroutine.
// It fails with ErrNoLocationSelected when no workspace was selected.
// Starting an executor that already ran (or is running) is a no-op: the
// engine never makes two passes over the same plan.
func (e *Executor) Start() error {
	if e.ws == nil {
		return ErrNoLocationSelected
	}

	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.steps = make([]model.ExecutionStep, len(e.plan.Operations))
	for i := range e.steps {
		e.steps[i] = model.ExecutionStep{Status: model.StatusPending}
	}
	e.mu.Unlock()

	e.notify()
	go e.run()
	return nil
}

// Pause sets the cooperative pause flag. The in-flight step finishes its
// progress updates; the next step is not dequeued until Resume.
func (e *Executor) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.stopped {
		e.paused = true
	}
}

// Resume clears the pause flag. Execution continues from the first
// non-terminal step, never from the beginning.
func (e *Executor) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	e.cond.Broadcast()
}

// Stop cancels all non-terminal steps and halts the loop. It is
// irreversible for the current run. A run stopped while paused marks its
// remaining steps cancelled without executing anything further.
func (e *Executor) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	e.cond.Broadcast()
}

// Wait blocks until the run loop has exited.
func (e *Executor) Wait() {
	<-e.done
}

// Steps returns a snapshot of the per-step state.
func (e *Executor) Steps() []model.ExecutionStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ExecutionStep, len(e.steps))
	copy(out, e.steps)
	return out
}

// Progress returns the overall progress: terminal steps over total, as a
// percentage. An empty plan reports 100.
func (e *Executor) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progressLocked(e.steps)
}

func progressLocked(steps []model.ExecutionStep) float64 {
	if len(steps) == 0 {
		return 100
	}
	terminal := 0
	for _, s := range steps {
		if s.Status.Terminal() {
			terminal++
		}
	}
	return float64(terminal) / float64(len(steps)) * 100
}

// run is the single long-lived task of the engine.
func (e *Executor) run() {
	defer close(e.done)

	for i := range e.plan.Operations {
		if !e.awaitDequeue() {
			break
		}
		e.transition(i, model.StatusInProgress, "")
		e.executeStep(i)
	}

	e.finalize()
}

// awaitDequeue blocks while paused and reports whether the next step may
// be dequeued. It returns false once the engine is stopped.
func (e *Executor) awaitDequeue() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.paused && !e.stopped {
		e.cond.Wait()
	}
	return !e.stopped
}

// cancelRequested is the yield-point check within a step.
func (e *Executor) cancelRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// executeStep runs one operation to a terminal state. A failing step is
// recorded and the engine proceeds; one failure does not abort the batch.
func (e *Executor) executeStep(i int) {
	op := e.plan.Operations[i]

	// Synthetic progress: single writes have no natural granularity, so
	// progress advances in fixed monotonic quanta ending at exactly 100
	// on success.
	e.setProgress(i, 25)
	if e.cancelRequested() {
		e.transition(i, model.StatusCancelled, "")
		return
	}

	err := e.perform(i, op)
	switch {
	case errors.Is(err, errRunCancelled):
		e.transition(i, model.StatusCancelled, "")
	case err != nil:
		fail := &OperationFailure{Index: i, Kind: op.Kind, Err: err}
		e.transition(i, model.StatusFailed, fail.Error())
		e.logger.Error("operation failed", "index", i, "kind", string(op.Kind), "error", err)
		e.ledger.Record(model.ActivityError, model.StatusFailed,
			fmt.Sprintf("Operation %d failed", i+1), fail.Error(),
			&model.ActivityMetadata{Error: err.Error()})
	default:
		e.transition(i, model.StatusCompleted, "")
	}
}

// perform applies the operation's side effect against the workspace.
func (e *Executor) perform(i int, op model.Operation) error {
	switch op.Kind {
	case model.OpSkip:
		e.setProgress(i, 75)
		return nil

	case model.OpCreateFolder:
		if _, ok := e.folders[op.Folder]; ok {
			// Already materialized in this run.
			e.setProgress(i, 75)
			return nil
		}
		e.setProgress(i, 50)
		f, err := e.ws.EnsureFolder(op.Folder)
		if err != nil {
			return err
		}
		e.folders[op.Folder] = f
		e.setProgress(i, 75)
		e.ledger.Record(model.ActivityFolderCreated, model.StatusCompleted,
			fmt.Sprintf("Created folder %q", op.Folder), f.Path(),
			&model.ActivityMetadata{FolderCount: 1})
		return nil

	default: // move, copy, link, convert
		f, ok := e.folders[op.Folder]
		if !ok {
			// Target was not materialized by an explicit create_folder
			// step; create it on demand.
			var err error
			f, err = e.ws.EnsureFolder(op.Folder)
			if err != nil {
				return err
			}
			e.folders[op.Folder] = f
		}
		e.setProgress(i, 50)

		for _, item := range op.Items {
			if e.cancelRequested() {
				return errRunCancelled
			}
			rec, ok := e.records[item]
			if !ok {
				return fmt.Errorf("no file record for %q", item)
			}
			if err := e.ws.WriteFile(f, filepath.Base(item), rec.Payload); err != nil {
				return err
			}
			e.ledger.Record(model.ActivityFileMoved, model.StatusCompleted,
				fmt.Sprintf("Filed %q into %q", filepath.Base(item), op.Folder), "",
				&model.ActivityMetadata{FileCount: 1, Hash: rec.Hash})
		}
		e.setProgress(i, 75)
		return nil
	}
}

// finalize marks every non-terminal step cancelled and records the run
// outcome in the ledger.
func (e *Executor) finalize() {
	e.mu.Lock()
	stopped := e.stopped
	failed := 0
	completed := 0
	for i := range e.steps {
		if !e.steps[i].Status.Terminal() {
			e.steps[i].Status = model.StatusCancelled
		}
		switch e.steps[i].Status {
		case model.StatusFailed:
			failed++
		case model.StatusCompleted:
			completed++
		}
	}
	total := len(e.steps)
	e.mu.Unlock()
	e.notify()

	switch {
	case stopped:
		e.logger.Info("run cancelled", "completed", completed, "total", total)
		e.ledger.Record(model.ActivityPlanCancelled, model.StatusCancelled,
			"Plan execution cancelled",
			fmt.Sprintf("%d of %d operations completed before cancellation", completed, total), nil)
	case failed > 0:
		e.logger.Warn("run finished with failures", "failed", failed, "total", total)
		e.ledger.Record(model.ActivityPlanExecuted, model.StatusFailed,
			"Plan executed with failures",
			fmt.Sprintf("%d of %d operations failed", failed, total), nil)
	default:
		e.logger.Info("run complete", "operations", total)
		e.ledger.Record(model.ActivityPlanExecuted, model.StatusCompleted,
			"Plan executed",
			fmt.Sprintf("%d operations completed", total), nil)
	}
}

// setProgress raises a step's progress to p. Progress never decreases.
func (e *Executor) setProgress(i, p int) {
	e.mu.Lock()
	if e.steps[i].Progress < p {
		e.steps[i].Progress = p
	}
	e.mu.Unlock()
	e.notify()
}

// transition moves a step to a new status. Completed steps land on
// exactly 100 progress.
func (e *Executor) transition(i int, status model.OperationStatus, errMsg string) {
	e.mu.Lock()
	e.steps[i].Status = status
	e.steps[i].Error = errMsg
	if status == model.StatusCompleted {
		e.steps[i].Progress = 100
	}
	e.mu.Unlock()
	e.notify()
}

// notify invokes OnUpdate with a consistent snapshot, outside the lock.
func (e *Executor) notify() {
	if e.OnUpdate == nil {
		return
	}
	e.mu.Lock()
	steps := make([]model.ExecutionStep, len(e.steps))
	copy(steps, e.steps)
	overall := progressLocked(e.steps)
	e.mu.Unlock()
	e.OnUpdate(overall, steps)
}
