package priorart

import (
	"context"
	"sync"
	"time"
)

// StageTiming records one completed stage run.
type StageTiming struct {
	Stage     Stage         `json:"stage"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// SessionSummary provides a summary view of a session run.
type SessionSummary struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration"`
	Stages    []StageTiming `json:"stages"`
}

// TimingCallbacks collects per-stage timings as the pipeline runs. Safe for
// concurrent sessions; Summary reports on one session at a time.
type TimingCallbacks struct {
	BaseStageCallbacks

	mu      sync.Mutex
	timings map[string][]StageTiming
	status  map[string]SessionStatus
}

func NewTimingCallbacks() *TimingCallbacks {
	return &TimingCallbacks{
		timings: make(map[string][]StageTiming),
		status:  make(map[string]SessionStatus),
	}
}

func (c *TimingCallbacks) AfterStage(ctx context.Context, event *StageEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timings[event.SessionID] = append(c.timings[event.SessionID], StageTiming{
		Stage:     event.Stage,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		Duration:  event.Duration,
	})
	c.status[event.SessionID] = event.Status
}

// Summary returns the collected view of a session, or nil when no stage has
// completed for it.
func (c *TimingCallbacks) Summary(sessionID string) *SessionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	timings := c.timings[sessionID]
	if len(timings) == 0 {
		return nil
	}
	summary := &SessionSummary{
		SessionID: sessionID,
		Status:    c.status[sessionID],
		StartTime: timings[0].StartTime,
		EndTime:   timings[len(timings)-1].EndTime,
		Stages:    append([]StageTiming{}, timings...),
	}
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	return summary
}
