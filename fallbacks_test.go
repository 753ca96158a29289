package priorart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackConceptMatrix(t *testing.T) {
	t.Run("derives concepts from content words", func(t *testing.T) {
		matrix := fallbackConceptMatrix(
			"A wearable biometric sensor that monitors cardiac rhythm continuously during exercise sessions")
		require.NotEmpty(t, matrix.ObjectSystem)
		require.NotEmpty(t, matrix.ProblemPurpose)
		require.NotEmpty(t, matrix.EnvironmentField)
		require.Contains(t, matrix.ObjectSystem, "wearable")
	})

	t.Run("empty description falls back to generic concepts", func(t *testing.T) {
		matrix := fallbackConceptMatrix("")
		require.Equal(t, &genericConcepts, matrix)
	})

	t.Run("deterministic", func(t *testing.T) {
		description := "A wearable device for continuous health monitoring"
		require.Equal(t, fallbackConceptMatrix(description), fallbackConceptMatrix(description))
	})
}

func TestFallbackSeedKeywords(t *testing.T) {
	keywords := fallbackSeedKeywords(&ConceptMatrix{
		ProblemPurpose:   "monitoring",
		ObjectSystem:     "sensor",
		EnvironmentField: "healthcare",
	})
	for _, category := range Categories() {
		require.Len(t, keywords.Category(category), 3)
	}
	require.Equal(t, []string{"sensor", "sensor method", "sensor system"}, keywords.ObjectSystem)

	t.Run("nil matrix", func(t *testing.T) {
		keywords := fallbackSeedKeywords(nil)
		require.False(t, keywords.IsEmpty())
	})
}

func TestNormalizeSeedKeywords(t *testing.T) {
	matrix := &ConceptMatrix{ProblemPurpose: "monitoring", ObjectSystem: "sensor", EnvironmentField: "healthcare"}

	t.Run("truncates oversized lists", func(t *testing.T) {
		oversized := &KeywordSet{}
		for _, category := range Categories() {
			oversized.SetCategory(category, []string{"a", "b", "c", "d", "e", "f", "g", "h"})
		}
		normalized := normalizeSeedKeywords(oversized, matrix)
		for _, category := range Categories() {
			require.Len(t, normalized.Category(category), maxSeedKeywords)
		}
	})

	t.Run("pads undersized lists without duplicating", func(t *testing.T) {
		undersized := &KeywordSet{ObjectSystem: []string{"sensor"}}
		normalized := normalizeSeedKeywords(undersized, matrix)
		terms := normalized.ObjectSystem
		require.GreaterOrEqual(t, len(terms), minSeedKeywords)
		require.Equal(t, "sensor", terms[0])
		seen := map[string]bool{}
		for _, term := range terms {
			require.False(t, seen[term])
			seen[term] = true
		}
	})
}

func TestFallbackClassificationCodes(t *testing.T) {
	t.Run("matches fragments in description and keywords", func(t *testing.T) {
		state := &WorkflowState{
			Description: "A machine learning model for medical diagnosis",
			EnhancedKeywords: &KeywordSet{
				ObjectSystem: []string{"wearable sensor"},
			},
		}
		codes := fallbackClassificationCodes(state)
		require.Contains(t, codes, "G06N20/00")
		require.Contains(t, codes, "A61B5/00")
		require.Contains(t, codes, "G01D21/00")
	})

	t.Run("never returns an empty list", func(t *testing.T) {
		codes := fallbackClassificationCodes(&WorkflowState{Description: "zzz"})
		require.Equal(t, []string{defaultClassificationCode}, codes)
	})
}

func TestTopUpQueries(t *testing.T) {
	keywords := &KeywordSet{
		ProblemPurpose:   []string{"monitoring", "tracking"},
		ObjectSystem:     []string{"sensor", "band"},
		EnvironmentField: []string{"healthcare"},
	}
	codes := []string{"A61B5/00"}

	queries := topUpQueries([]string{"existing"}, keywords, codes)
	require.GreaterOrEqual(t, len(queries), minSearchQueries)
	require.Equal(t, "existing", queries[0])
	for _, query := range queries[1:] {
		require.Contains(t, query, "A61B5/00")
	}

	t.Run("no duplicates", func(t *testing.T) {
		seen := map[string]bool{}
		for _, query := range queries {
			require.False(t, seen[query], "duplicate query %q", query)
			seen[query] = true
		}
	})
}
