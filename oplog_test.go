package priorart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileOperationLogger(t *testing.T) {
	ctx := context.Background()
	logger := NewFileOperationLogger(t.TempDir())

	entries := []*OperationLogEntry{
		{
			SessionID: "sess_log",
			Stage:     StageConceptExtraction,
			Operation: "extract_concepts",
			Input:     "a wearable health monitor",
			StartTime: time.Now().UTC(),
			Duration:  0.25,
		},
		{
			SessionID: "sess_log",
			Stage:     StageClassification,
			Operation: "classify_text",
			Error:     "service unavailable",
			StartTime: time.Now().UTC(),
			Duration:  1.5,
		},
	}
	for _, entry := range entries {
		require.NoError(t, logger.LogOperation(ctx, entry))
	}

	history, err := logger.GetOperationHistory(ctx, "sess_log")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "extract_concepts", history[0].Operation)
	require.Equal(t, StageClassification, history[1].Stage)
	require.Equal(t, "service unavailable", history[1].Error)
}

func TestEngineWritesOperationLog(t *testing.T) {
	ctx := context.Background()
	logger := NewFileOperationLogger(t.TempDir())
	engine, err := NewEngine(EngineOptions{
		Operations:      testOperations(nil),
		Store:           NewMemorySessionStore(),
		OperationLogger: logger,
	})
	require.NoError(t, err)

	start, err := engine.Start(ctx, "A wearable device for continuous health monitoring", 10)
	require.NoError(t, err)
	_, err = engine.Resume(ctx, start.SessionID, ResumeInstruction{Action: ResumeActionAccept})
	require.NoError(t, err)

	history, err := logger.GetOperationHistory(ctx, start.SessionID)
	require.NoError(t, err)

	operations := map[string]bool{}
	for _, entry := range history {
		require.Equal(t, start.SessionID, entry.SessionID)
		operations[entry.Operation] = true
	}
	for _, operation := range []string{
		"extract_concepts", "generate_keywords", "enhance_keywords",
		"classify_text", "generate_queries",
	} {
		require.True(t, operations[operation], "missing operation log entry %q", operation)
	}
}

func TestNullOperationLogger(t *testing.T) {
	ctx := context.Background()
	logger := NewNullOperationLogger()
	require.NoError(t, logger.LogOperation(ctx, &OperationLogEntry{SessionID: "sess_null"}))
	history, err := logger.GetOperationHistory(ctx, "sess_null")
	require.NoError(t, err)
	require.Empty(t, history)
}
