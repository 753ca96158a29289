package priorart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimingCallbacks(t *testing.T) {
	ctx := context.Background()
	callbacks := NewTimingCallbacks()

	t.Run("no stages recorded yet", func(t *testing.T) {
		require.Nil(t, callbacks.Summary("sess_empty"))
	})

	t.Run("collects timings per session through a full run", func(t *testing.T) {
		store := NewMemorySessionStore()
		engine, err := NewEngine(EngineOptions{
			Operations: testOperations(nil),
			Store:      store,
			Callbacks:  callbacks,
		})
		require.NoError(t, err)

		start, err := engine.Start(ctx, "A wearable device for continuous health monitoring", 10)
		require.NoError(t, err)
		_, err = engine.Resume(ctx, start.SessionID, ResumeInstruction{Action: ResumeActionAccept})
		require.NoError(t, err)

		summary := callbacks.Summary(start.SessionID)
		require.NotNil(t, summary)
		require.Equal(t, start.SessionID, summary.SessionID)
		require.Equal(t, SessionStatusCompleted, summary.Status)

		var stages []Stage
		for _, timing := range summary.Stages {
			stages = append(stages, timing.Stage)
		}
		require.Equal(t, []Stage{
			StageConceptExtraction,
			StageKeywordGeneration,
			StageHumanValidation,
			StageEnhancement,
			StageClassification,
			StageQueryGeneration,
			StageTerminal,
		}, stages)
		require.GreaterOrEqual(t, summary.Duration, summary.Stages[0].Duration)
	})
}
