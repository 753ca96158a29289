package priorart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineError(t *testing.T) {
	t.Run("operation failure carries the stage and wraps the cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewOperationFailure(StageClassification, cause)
		require.Equal(t, "operation_failure (classification): connection refused", err.Error())
		require.ErrorIs(t, err, cause)
	})

	t.Run("not found wraps the sentinel", func(t *testing.T) {
		err := NewNotFoundError("sess_missing")
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.Contains(t, err.Error(), "sess_missing")
	})

	t.Run("missing precondition names the field", func(t *testing.T) {
		err := NewMissingPreconditionError(StageEnhancement, "validated_keywords")
		require.Contains(t, err.Error(), "validated_keywords")
		require.Contains(t, err.Error(), string(StageEnhancement))
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("invalid resume", func(t *testing.T) {
		require.True(t, IsInvalidResume(NewInvalidResumeError("bad action")))
		require.True(t, IsInvalidResume(NewNotFoundError("sess_missing")))
		require.False(t, IsInvalidResume(NewOperationFailure(StageClassification, errors.New("boom"))))
		require.False(t, IsInvalidResume(errors.New("boom")))
		require.False(t, IsInvalidResume(nil))
	})

	t.Run("not found", func(t *testing.T) {
		require.True(t, IsNotFound(NewNotFoundError("sess_missing")))
		require.True(t, IsNotFound(fmt.Errorf("loading session: %w", ErrSessionNotFound)))
		require.False(t, IsNotFound(NewInvalidResumeError("bad action")))
		require.False(t, IsNotFound(nil))
	})

	t.Run("classification survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("resume failed: %w", NewInvalidResumeError("bad action"))
		require.True(t, IsInvalidResume(wrapped))
	})
}
