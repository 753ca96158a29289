package priorart

import "strings"

// Deterministic substitutes used when an external operation fails. None of
// these depend on anything outside the workflow state, so a run with every
// collaborator failing still produces the same output for the same input.

// genericConcepts is the concept matrix of last resort, used when extraction
// fails and the description yields no usable terms.
var genericConcepts = ConceptMatrix{
	ProblemPurpose:   "invention purpose",
	ObjectSystem:     "technical system",
	EnvironmentField: "technology field",
}

// fallbackConceptMatrix derives a single-concept matrix from the description
// text: the first few content words stand in for each category.
func fallbackConceptMatrix(description string) *ConceptMatrix {
	matrix := genericConcepts
	words := contentWords(description)
	if len(words) > 0 {
		matrix.ObjectSystem = strings.Join(firstN(words, 3), " ")
	}
	if len(words) > 3 {
		matrix.ProblemPurpose = strings.Join(words[3:min(6, len(words))], " ")
	}
	if len(words) > 6 {
		matrix.EnvironmentField = strings.Join(words[6:min(8, len(words))], " ")
	}
	return &matrix
}

// fallbackSeedKeywords builds a fixed placeholder keyword set from the
// concept matrix, three terms per category.
func fallbackSeedKeywords(matrix *ConceptMatrix) *KeywordSet {
	if matrix == nil {
		matrix = &genericConcepts
	}
	return &KeywordSet{
		ProblemPurpose:   placeholderTerms(matrix.ProblemPurpose),
		ObjectSystem:     placeholderTerms(matrix.ObjectSystem),
		EnvironmentField: placeholderTerms(matrix.EnvironmentField),
	}
}

func placeholderTerms(concept string) []string {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		concept = "invention"
	}
	return []string{concept, concept + " method", concept + " system"}
}

// normalizeSeedKeywords enforces the per-category seed keyword bounds:
// oversized lists are truncated, undersized lists are padded from the
// deterministic placeholders.
func normalizeSeedKeywords(keywords *KeywordSet, matrix *ConceptMatrix) *KeywordSet {
	normalized := keywords.Copy()
	if normalized == nil {
		return fallbackSeedKeywords(matrix)
	}
	fallback := fallbackSeedKeywords(matrix)
	for _, category := range Categories() {
		terms := normalized.Category(category)
		if len(terms) > maxSeedKeywords {
			terms = terms[:maxSeedKeywords]
		}
		for _, pad := range fallback.Category(category) {
			if len(terms) >= minSeedKeywords {
				break
			}
			if !containsFold(terms, pad) {
				terms = append(terms, pad)
			}
		}
		normalized.SetCategory(category, terms)
	}
	return normalized
}

// classificationHeuristics maps keyword fragments to IPC codes for the
// classification fallback. Checked in order; every match contributes.
var classificationHeuristics = []struct {
	fragment string
	code     string
}{
	{"machine learning", "G06N20/00"},
	{"neural network", "G06N3/02"},
	{"sensor", "G01D21/00"},
	{"health", "A61B5/00"},
	{"medical", "A61B5/00"},
	{"wearable", "A61B5/68"},
	{"battery", "H01M10/00"},
	{"wireless", "H04W4/00"},
	{"network", "H04L67/00"},
	{"image", "G06T7/00"},
	{"chemical", "C07B61/00"},
	{"vehicle", "B60W50/00"},
	{"agriculture", "A01B79/00"},
	{"energy", "H02J3/00"},
}

// defaultClassificationCode guarantees the fallback never returns an empty
// list.
const defaultClassificationCode = "G06F17/00"

// fallbackClassificationCodes scans the enhanced keywords and the
// description for known fragments and maps them to IPC codes. At least one
// code is always returned.
func fallbackClassificationCodes(state *WorkflowState) []string {
	var corpus strings.Builder
	corpus.WriteString(strings.ToLower(state.Description))
	if state.EnhancedKeywords != nil {
		for _, category := range Categories() {
			for _, term := range state.EnhancedKeywords.Category(category) {
				corpus.WriteString(" ")
				corpus.WriteString(strings.ToLower(term))
			}
		}
	}
	text := corpus.String()

	var codes []string
	seen := map[string]bool{}
	for _, heuristic := range classificationHeuristics {
		if strings.Contains(text, heuristic.fragment) && !seen[heuristic.code] {
			seen[heuristic.code] = true
			codes = append(codes, heuristic.code)
		}
	}
	if len(codes) == 0 {
		codes = []string{defaultClassificationCode}
	}
	return codes
}

// topUpQueries extends an undersized query list with deterministic template
// queries combining category keywords and classification codes, stopping at
// the lower bound.
func topUpQueries(queries []string, keywords *KeywordSet, codes []string) []string {
	codeClause := ""
	if len(codes) > 0 {
		codeClause = " AND (" + strings.Join(firstN(codes, 3), " OR ") + ")"
	}
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		seen[q] = true
	}
	for _, category := range Categories() {
		if len(queries) >= minSearchQueries {
			break
		}
		terms := keywords.Category(category)
		if len(terms) == 0 {
			continue
		}
		var quoted []string
		for _, term := range firstN(terms, 3) {
			quoted = append(quoted, `"`+term+`"`)
		}
		query := "(" + strings.Join(quoted, " OR ") + ")" + codeClause
		if !seen[query] {
			seen[query] = true
			queries = append(queries, query)
		}
	}
	// Cross-category combination as the last filler.
	if len(queries) < minSearchQueries && !keywords.IsEmpty() {
		var parts []string
		for _, category := range Categories() {
			if terms := keywords.Category(category); len(terms) > 0 {
				parts = append(parts, `"`+terms[0]+`"`)
			}
		}
		if len(parts) > 0 {
			query := strings.Join(parts, " AND ") + codeClause
			if !seen[query] {
				queries = append(queries, query)
			}
		}
	}
	return queries
}

func contentWords(text string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,;:()"'`)
		if len(word) > 3 && !stopWords[word] {
			words = append(words, word)
		}
	}
	return words
}

var stopWords = map[string]bool{
	"that": true, "with": true, "from": true, "this": true, "have": true,
	"which": true, "their": true, "will": true, "into": true, "using": true,
	"based": true, "such": true, "when": true, "where": true, "includes": true,
	"including": true, "being": true, "more": true, "other": true,
}

func firstN(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func containsFold(list []string, term string) bool {
	for _, item := range list {
		if strings.EqualFold(item, term) {
			return true
		}
	}
	return false
}
