package priorart

import (
	"context"
	"time"
)

// StageEvent carries the details of one stage execution for callbacks.
type StageEvent struct {
	SessionID string        `json:"session_id"`
	Stage     Stage         `json:"stage"`
	Status    SessionStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time,omitzero"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// StageCallbacks provides hooks into stage execution. Implementations must
// be non-blocking or at least fast, since callbacks run synchronously inside
// the engine loop.
type StageCallbacks interface {

	// BeforeStage is called before a stage runs.
	BeforeStage(ctx context.Context, event *StageEvent)

	// AfterStage is called after a stage has run and its state merge has
	// been applied.
	AfterStage(ctx context.Context, event *StageEvent)
}

// BaseStageCallbacks provides default no-op implementations of all callback
// methods. Embed it to implement only the hooks you care about.
type BaseStageCallbacks struct{}

func (c *BaseStageCallbacks) BeforeStage(ctx context.Context, event *StageEvent) {}

func (c *BaseStageCallbacks) AfterStage(ctx context.Context, event *StageEvent) {}
