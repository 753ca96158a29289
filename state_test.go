package priorart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordSet(t *testing.T) {
	t.Run("empty detection", func(t *testing.T) {
		var nilSet *KeywordSet
		require.True(t, nilSet.IsEmpty())
		require.True(t, (&KeywordSet{}).IsEmpty())
		require.False(t, (&KeywordSet{ObjectSystem: []string{"sensor"}}).IsEmpty())
	})

	t.Run("category accessors", func(t *testing.T) {
		set := &KeywordSet{}
		set.SetCategory(CategoryProblemPurpose, []string{"monitoring"})
		set.SetCategory(CategoryObjectSystem, []string{"sensor"})
		set.SetCategory(CategoryEnvironmentField, []string{"healthcare"})
		require.Equal(t, []string{"monitoring"}, set.Category(CategoryProblemPurpose))
		require.Equal(t, []string{"sensor"}, set.Category(CategoryObjectSystem))
		require.Equal(t, []string{"healthcare"}, set.Category(CategoryEnvironmentField))
		require.Nil(t, set.Category("bogus"))
	})

	t.Run("copy is deep", func(t *testing.T) {
		original := &KeywordSet{ProblemPurpose: []string{"monitoring"}}
		copied := original.Copy()
		copied.ProblemPurpose[0] = "tampered"
		require.Equal(t, "monitoring", original.ProblemPurpose[0])

		var nilSet *KeywordSet
		require.Nil(t, nilSet.Copy())
	})
}

func TestWorkflowStateCopy(t *testing.T) {
	state := NewWorkflowState("a wearable health monitor", 5)
	state.ConceptMatrix = &ConceptMatrix{ObjectSystem: "wearable sensor"}
	state.SeedKeywords = &KeywordSet{ObjectSystem: []string{"sensor"}}
	state.ClassificationCodes = []string{"A61B5/00"}
	state.SearchResults = []PatentResult{{Title: "Monitor", Number: "US1"}}
	state.AppendMessage(RoleAssistant, "generated keywords")
	state.AppendError("something failed")

	copied := state.Copy()
	require.Equal(t, state, copied)

	copied.ConceptMatrix.ObjectSystem = "tampered"
	copied.SeedKeywords.ObjectSystem[0] = "tampered"
	copied.ClassificationCodes[0] = "tampered"
	copied.SearchResults[0].Title = "tampered"
	copied.AppendMessage(RoleSystem, "extra")

	require.Equal(t, "wearable sensor", state.ConceptMatrix.ObjectSystem)
	require.Equal(t, "sensor", state.SeedKeywords.ObjectSystem[0])
	require.Equal(t, "A61B5/00", state.ClassificationCodes[0])
	require.Equal(t, "Monitor", state.SearchResults[0].Title)
	require.Len(t, state.Messages, 1)
}

func TestParseStage(t *testing.T) {
	stage, err := ParseStage("human_validation")
	require.NoError(t, err)
	require.Equal(t, StageHumanValidation, stage)

	_, err = ParseStage("nonexistent_stage")
	require.Error(t, err)
}
