package priorart

import (
	"fmt"
	"strings"
)

// ReviewPayload is returned to the caller when a session suspends for human
// keyword review. It contains everything needed to render a review prompt.
type ReviewPayload struct {
	Task         string      `json:"task"`
	Instructions string      `json:"instructions"`
	Categories   []string    `json:"categories"`
	Keywords     *KeywordSet `json:"keywords"`
	Formatted    string      `json:"formatted"`
}

const reviewInstructions = `Review the generated keywords and respond with one of:
  accept - keep all keywords as-is
  edit   - supply replacement lists; omitted categories keep their current keywords
  reject - discard the keywords and regenerate a fresh set`

func newReviewPayload(keywords *KeywordSet) *ReviewPayload {
	return &ReviewPayload{
		Task:         "Review the generated keywords for the prior-art search",
		Instructions: reviewInstructions,
		Categories:   Categories(),
		Keywords:     keywords.Copy(),
		Formatted:    FormatKeywords(keywords),
	}
}

// FormatKeywords renders a keyword set for human-readable display, one
// numbered list per category.
func FormatKeywords(keywords *KeywordSet) string {
	if keywords.IsEmpty() {
		return "No keywords generated."
	}
	var lines []string
	for _, category := range Categories() {
		terms := keywords.Category(category)
		if len(terms) == 0 {
			continue
		}
		lines = append(lines, categoryLabel(category)+":")
		for i, term := range terms {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, term))
		}
	}
	return strings.Join(lines, "\n")
}

func categoryLabel(category string) string {
	words := strings.Split(category, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, "/")
}
