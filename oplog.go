package priorart

import (
	"context"
	"time"
)

// OperationLogEntry records one external operation call made by a stage.
type OperationLogEntry struct {
	SessionID string    `json:"session_id"`
	Stage     Stage     `json:"stage"`
	Operation string    `json:"operation"`
	Input     string    `json:"input,omitempty"`
	Result    string    `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartTime time.Time `json:"start_time"`
	Duration  float64   `json:"duration"`
}

// OperationLogger defines simple operation logging interface
type OperationLogger interface {
	// LogOperation logs a completed external operation call
	LogOperation(ctx context.Context, entry *OperationLogEntry) error

	// GetOperationHistory retrieves the operation log for a session
	GetOperationHistory(ctx context.Context, sessionID string) ([]*OperationLogEntry, error)
}

// NullOperationLogger discards all entries.
type NullOperationLogger struct{}

func NewNullOperationLogger() *NullOperationLogger {
	return &NullOperationLogger{}
}

func (l *NullOperationLogger) LogOperation(ctx context.Context, entry *OperationLogEntry) error {
	return nil
}

func (l *NullOperationLogger) GetOperationHistory(ctx context.Context, sessionID string) ([]*OperationLogEntry, error) {
	return nil, nil
}
