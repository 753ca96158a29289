package priorart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultMaxResults caps the number of returned patents when the caller does
// not supply a limit.
const DefaultMaxResults = 10

// EngineOptions configures a new Engine.
type EngineOptions struct {
	Operations      Operations
	Store           SessionStore
	Logger          *slog.Logger
	Callbacks       StageCallbacks
	OperationLogger OperationLogger
	MaxResults      int
}

// Engine runs the prior-art search pipeline: a fixed, directed sequence of
// stages over a per-session WorkflowState, with one suspend point for human
// keyword review. Stages run sequentially within a single call; the only
// place control returns to the caller mid-run is the suspend point. Multiple
// sessions may run concurrently, but no two calls may operate on the same
// session at once.
type Engine struct {
	ops        Operations
	store      SessionStore
	logger     *slog.Logger
	callbacks  StageCallbacks
	oplog      OperationLogger
	maxResults int
}

// NewEngine creates an Engine with the given options. The concept extractor,
// keyword generator, keyword enhancer, classifier, and query generator
// operations are required; the searcher and evaluator are optional and, when
// absent, the run ends after query generation.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Operations.Extractor == nil {
		return nil, fmt.Errorf("concept extractor is required")
	}
	if opts.Operations.Generator == nil {
		return nil, fmt.Errorf("keyword generator is required")
	}
	if opts.Operations.Enhancer == nil {
		return nil, fmt.Errorf("keyword enhancer is required")
	}
	if opts.Operations.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if opts.Operations.Queries == nil {
		return nil, fmt.Errorf("query generator is required")
	}
	if opts.Store == nil {
		opts.Store = NewMemorySessionStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Callbacks == nil {
		opts.Callbacks = &BaseStageCallbacks{}
	}
	if opts.OperationLogger == nil {
		opts.OperationLogger = NewNullOperationLogger()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	return &Engine{
		ops:        opts.Operations,
		store:      opts.Store,
		logger:     opts.Logger,
		callbacks:  opts.Callbacks,
		oplog:      opts.OperationLogger,
		maxResults: opts.MaxResults,
	}, nil
}

// StartResult is returned by Start. When the session suspended for review,
// Status is SessionStatusSuspended and Review is populated.
type StartResult struct {
	SessionID string         `json:"session_id"`
	Stage     Stage          `json:"stage"`
	Status    SessionStatus  `json:"status"`
	Review    *ReviewPayload `json:"review,omitempty"`
	State     *WorkflowState `json:"state"`
}

// ResumeResult is returned by Resume. Stage is the stage the resume
// instruction transitioned the session to: Enhancement for accept and edit,
// KeywordGeneration for reject. Status reflects where execution ended up
// after continuing from there; a reject regenerates keywords and re-suspends,
// in which case Review carries the new payload.
type ResumeResult struct {
	SessionID string         `json:"session_id"`
	Stage     Stage          `json:"stage"`
	Status    SessionStatus  `json:"status"`
	Review    *ReviewPayload `json:"review,omitempty"`
	State     *WorkflowState `json:"state"`
}

// Start creates a new session for the given invention description and runs
// the pipeline until it suspends for keyword review or ends.
func (e *Engine) Start(ctx context.Context, description string, maxResults int) (*StartResult, error) {
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if maxResults <= 0 {
		maxResults = e.maxResults
	}

	now := time.Now()
	checkpoint := &Checkpoint{
		SessionID: NewSessionID(),
		Stage:     StageConceptExtraction,
		Status:    SessionStatusRunning,
		State:     NewWorkflowState(description, maxResults),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Create(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	e.logger.Info("session started",
		"session_id", checkpoint.SessionID,
		"max_results", maxResults)

	review, err := e.run(ctx, checkpoint)
	if err != nil {
		return nil, err
	}
	return &StartResult{
		SessionID: checkpoint.SessionID,
		Stage:     checkpoint.Stage,
		Status:    checkpoint.Status,
		Review:    review,
		State:     checkpoint.State.Copy(),
	}, nil
}

// Resume continues a suspended session with the given instruction. It fails
// with an invalid-resume error when the session does not exist, is not
// awaiting input, or the action tag is not recognized. Replaying an
// instruction for a session already past the suspend point therefore fails
// rather than re-mutating state.
func (e *Engine) Resume(ctx context.Context, sessionID string, instruction ResumeInstruction) (*ResumeResult, error) {
	checkpoint, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if checkpoint.Status != SessionStatusSuspended || checkpoint.Stage != StageHumanValidation {
		return nil, NewInvalidResumeError(fmt.Sprintf("session %q is not awaiting input", sessionID))
	}

	resumedAt, err := applyResumeInstruction(checkpoint, instruction)
	if err != nil {
		return nil, err
	}

	e.logger.Info("session resumed",
		"session_id", sessionID,
		"action", instruction.Action,
		"stage", resumedAt)

	checkpoint.Stage = resumedAt
	checkpoint.Status = SessionStatusRunning
	checkpoint.UpdatedAt = time.Now()
	if err := e.store.Put(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	review, err := e.run(ctx, checkpoint)
	if err != nil {
		return nil, err
	}
	return &ResumeResult{
		SessionID: sessionID,
		Stage:     resumedAt,
		Status:    checkpoint.Status,
		Review:    review,
		State:     checkpoint.State.Copy(),
	}, nil
}

// Cancel drops a session's checkpoint. No stage holds external resources, so
// cancellation is just forgetting the session.
func (e *Engine) Cancel(ctx context.Context, sessionID string) error {
	return e.store.Delete(ctx, sessionID)
}

// Session returns a copy of the current checkpoint for a session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*Checkpoint, error) {
	return e.store.Get(ctx, sessionID)
}

// run advances the stage graph from the checkpoint's current stage until the
// session suspends, ends, or fails. The checkpoint is persisted on every
// stage transition. No lock or other resource is held across the suspend
// point: suspension is just a persisted checkpoint with suspended status.
func (e *Engine) run(ctx context.Context, checkpoint *Checkpoint) (*ReviewPayload, error) {
	state := checkpoint.State
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stage := checkpoint.Stage
		event := &StageEvent{
			SessionID: checkpoint.SessionID,
			Stage:     stage,
			Status:    checkpoint.Status,
			StartTime: time.Now(),
		}
		e.callbacks.BeforeStage(ctx, event)
		e.logger.Debug("running stage", "session_id", checkpoint.SessionID, "stage", stage)

		var next Stage
		switch stage {
		case StageConceptExtraction:
			e.runConceptExtraction(ctx, checkpoint)
			next = StageKeywordGeneration

		case StageKeywordGeneration:
			e.runKeywordGeneration(ctx, checkpoint)
			next = StageHumanValidation

		case StageHumanValidation:
			if state.SeedKeywords.IsEmpty() {
				// Degrade instead of deadlocking on a missing upstream
				// field: record the error and move on with an empty
				// validated set.
				state.AppendError(NewMissingPreconditionError(stage, "seed_keywords").Error())
				state.ValidatedKeywords = &KeywordSet{}
				next = StageEnhancement
				break
			}
			state.AppendMessage(RoleSystem, "awaiting human keyword review")
			checkpoint.Status = SessionStatusSuspended
			checkpoint.UpdatedAt = time.Now()
			if err := e.store.Put(ctx, checkpoint); err != nil {
				return nil, fmt.Errorf("failed to persist session: %w", err)
			}
			e.finishStageEvent(ctx, event, checkpoint)
			e.logger.Info("session suspended for review", "session_id", checkpoint.SessionID)
			return newReviewPayload(state.SeedKeywords), nil

		case StageEnhancement:
			e.runEnhancement(ctx, checkpoint)
			next = StageClassification

		case StageClassification:
			e.runClassification(ctx, checkpoint)
			next = StageQueryGeneration

		case StageQueryGeneration:
			if ok := e.runQueryGeneration(ctx, checkpoint); !ok {
				// Without queries no later stage can proceed meaningfully.
				// The session ends with the error recorded, not a crash.
				checkpoint.Status = SessionStatusFailed
				checkpoint.UpdatedAt = time.Now()
				if err := e.store.Put(ctx, checkpoint); err != nil {
					return nil, fmt.Errorf("failed to persist session: %w", err)
				}
				e.finishStageEvent(ctx, event, checkpoint)
				e.logger.Warn("session ended without queries", "session_id", checkpoint.SessionID)
				return nil, nil
			}
			if e.ops.Searcher != nil {
				next = StagePatentLookup
			} else {
				next = StageTerminal
			}

		case StagePatentLookup:
			e.runPatentLookup(ctx, checkpoint)
			next = StageEvaluation

		case StageEvaluation:
			e.runEvaluation(ctx, checkpoint)
			next = StageTerminal

		case StageTerminal:
			checkpoint.Status = SessionStatusCompleted
			checkpoint.UpdatedAt = time.Now()
			if err := e.store.Put(ctx, checkpoint); err != nil {
				return nil, fmt.Errorf("failed to persist session: %w", err)
			}
			e.finishStageEvent(ctx, event, checkpoint)
			e.logger.Info("session completed",
				"session_id", checkpoint.SessionID,
				"queries", len(state.SearchQueries),
				"errors", len(state.Errors))
			return nil, nil

		default:
			return nil, fmt.Errorf("unknown stage %q", stage)
		}

		e.finishStageEvent(ctx, event, checkpoint)

		checkpoint.Stage = next
		checkpoint.UpdatedAt = time.Now()
		if err := e.store.Put(ctx, checkpoint); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}
}

func (e *Engine) finishStageEvent(ctx context.Context, event *StageEvent, checkpoint *Checkpoint) {
	event.EndTime = time.Now()
	event.Duration = event.EndTime.Sub(event.StartTime)
	event.Status = checkpoint.Status
	e.callbacks.AfterStage(ctx, event)
}
