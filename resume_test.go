package priorart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func reviewCheckpoint() *Checkpoint {
	return &Checkpoint{
		SessionID: "sess_test",
		Stage:     StageHumanValidation,
		Status:    SessionStatusSuspended,
		State: &WorkflowState{
			Description: "a wearable health monitor",
			SeedKeywords: &KeywordSet{
				ProblemPurpose:   []string{"monitoring", "tracking"},
				ObjectSystem:     []string{"sensor", "band"},
				EnvironmentField: []string{"healthcare"},
			},
		},
	}
}

func TestApplyResumeInstruction(t *testing.T) {
	t.Run("accept copies the seed keywords", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		stage, err := applyResumeInstruction(checkpoint, ResumeInstruction{Action: ResumeActionAccept})
		require.NoError(t, err)
		require.Equal(t, StageEnhancement, stage)

		state := checkpoint.State
		require.Equal(t, state.SeedKeywords, state.ValidatedKeywords)
		require.NotSame(t, state.SeedKeywords, state.ValidatedKeywords)

		// A deep copy: later edits to the validated set leave the seeds alone.
		state.ValidatedKeywords.ProblemPurpose[0] = "tampered"
		require.Equal(t, "monitoring", state.SeedKeywords.ProblemPurpose[0])
	})

	t.Run("edit merges per category", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		stage, err := applyResumeInstruction(checkpoint, ResumeInstruction{
			Action:   ResumeActionEdit,
			Keywords: &KeywordSet{ObjectSystem: []string{"fitness tracker"}},
		})
		require.NoError(t, err)
		require.Equal(t, StageEnhancement, stage)

		validated := checkpoint.State.ValidatedKeywords
		require.Equal(t, []string{"fitness tracker"}, validated.ObjectSystem)
		require.Equal(t, []string{"monitoring", "tracking"}, validated.ProblemPurpose)
		require.Equal(t, []string{"healthcare"}, validated.EnvironmentField)
	})

	t.Run("edit without keywords is rejected", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		_, err := applyResumeInstruction(checkpoint, ResumeInstruction{Action: ResumeActionEdit})
		require.Error(t, err)
		require.True(t, IsInvalidResume(err))
		require.Nil(t, checkpoint.State.ValidatedKeywords)
	})

	t.Run("reject empties the validated set", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		stage, err := applyResumeInstruction(checkpoint, ResumeInstruction{Action: ResumeActionReject})
		require.NoError(t, err)
		require.Equal(t, StageKeywordGeneration, stage)
		require.True(t, checkpoint.State.ValidatedKeywords.IsEmpty())
	})

	t.Run("feedback is reserved", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		_, err := applyResumeInstruction(checkpoint, ResumeInstruction{Action: ResumeActionFeedback})
		require.Error(t, err)
		require.True(t, IsInvalidResume(err))
		require.Contains(t, err.Error(), "feedback")
	})

	t.Run("unknown action names the tag", func(t *testing.T) {
		checkpoint := reviewCheckpoint()
		_, err := applyResumeInstruction(checkpoint, ResumeInstruction{Action: "approve"})
		require.Error(t, err)
		require.True(t, IsInvalidResume(err))
		require.Contains(t, err.Error(), "approve")
		require.Nil(t, checkpoint.State.ValidatedKeywords)
	})

	t.Run("every instruction appends a human audit entry", func(t *testing.T) {
		for _, action := range []ResumeAction{ResumeActionAccept, ResumeActionEdit, ResumeActionReject} {
			checkpoint := reviewCheckpoint()
			instruction := ResumeInstruction{Action: action}
			if action == ResumeActionEdit {
				instruction.Keywords = &KeywordSet{ObjectSystem: []string{"tracker"}}
			}
			_, err := applyResumeInstruction(checkpoint, instruction)
			require.NoError(t, err)
			require.Len(t, checkpoint.State.Messages, 1)
			require.Equal(t, RoleHuman, checkpoint.State.Messages[0].Role)
		}
	})
}

func TestMergeKeywordsNeverDefaultsToEmpty(t *testing.T) {
	seed := &KeywordSet{
		ProblemPurpose:   []string{"monitoring"},
		ObjectSystem:     []string{"sensor"},
		EnvironmentField: []string{"healthcare"},
	}
	merged := mergeKeywords(seed, &KeywordSet{})
	require.Equal(t, seed, merged)

	merged = mergeKeywords(seed, &KeywordSet{EnvironmentField: []string{"telemedicine"}})
	require.Equal(t, []string{"monitoring"}, merged.ProblemPurpose)
	require.Equal(t, []string{"telemedicine"}, merged.EnvironmentField)
}
