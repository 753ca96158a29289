package priorart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatKeywords(t *testing.T) {
	keywords := &KeywordSet{
		ProblemPurpose: []string{"monitoring", "tracking"},
		ObjectSystem:   []string{"sensor"},
	}
	formatted := FormatKeywords(keywords)
	require.Contains(t, formatted, "Problem/Purpose:")
	require.Contains(t, formatted, "  1. monitoring")
	require.Contains(t, formatted, "  2. tracking")
	require.Contains(t, formatted, "Object/System:")
	require.Contains(t, formatted, "  1. sensor")
	// Empty categories are omitted entirely.
	require.NotContains(t, formatted, "Environment/Field")

	t.Run("empty set", func(t *testing.T) {
		require.Equal(t, "No keywords generated.", FormatKeywords(&KeywordSet{}))
	})
}

func TestNewReviewPayload(t *testing.T) {
	keywords := &KeywordSet{ObjectSystem: []string{"sensor"}}
	payload := newReviewPayload(keywords)
	require.NotEmpty(t, payload.Task)
	require.Contains(t, payload.Instructions, "accept")
	require.Contains(t, payload.Instructions, "edit")
	require.Contains(t, payload.Instructions, "reject")
	require.Equal(t, Categories(), payload.Categories)
	require.Equal(t, keywords, payload.Keywords)

	// The payload carries a copy, not the live state.
	payload.Keywords.ObjectSystem[0] = "tampered"
	require.Equal(t, "sensor", keywords.ObjectSystem[0])
}
