// Package ops provides ready-made implementations of the pipeline's external
// operation contracts: a deterministic offline set that needs no network,
// and an HTTP client for IPCCAT-style classification services.
package ops

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/priorart"
)

// Offline implements the pipeline operations with deterministic lexical
// heuristics. It exists so the pipeline can run end to end with no language
// model or network access: same description in, same keywords and queries
// out. It does not implement patent search.
type Offline struct{}

// NewOffline creates the offline operation set.
func NewOffline() *Offline {
	return &Offline{}
}

// Operations bundles the offline implementations for the engine.
func (o *Offline) Operations() priorart.Operations {
	return priorart.Operations{
		Extractor:  o,
		Generator:  o,
		Enhancer:   o,
		Summarizer: o,
		Classifier: o,
		Queries:    o,
		Evaluator:  o,
	}
}

// ExtractConcepts derives a concept matrix from word frequency: the most
// frequent content terms stand in for the object/system, terms around
// purpose markers for the problem/purpose, and trailing domain terms for the
// environment/field.
func (o *Offline) ExtractConcepts(ctx context.Context, description string) (*priorart.ConceptMatrix, error) {
	words := tokenize(description)
	if len(words) == 0 {
		return nil, fmt.Errorf("description has no usable terms")
	}
	ranked := rankByFrequency(words)
	matrix := &priorart.ConceptMatrix{
		ObjectSystem:     strings.Join(take(ranked, 3), " "),
		ProblemPurpose:   strings.Join(purposeTerms(description, ranked), " "),
		EnvironmentField: strings.Join(fieldTerms(ranked), " "),
	}
	return matrix, nil
}

// GenerateKeywords splits each concept into terms and pairs, producing three
// to six keywords per category.
func (o *Offline) GenerateKeywords(ctx context.Context, matrix *priorart.ConceptMatrix) (*priorart.KeywordSet, error) {
	if matrix == nil {
		return nil, fmt.Errorf("concept matrix is required")
	}
	return &priorart.KeywordSet{
		ProblemPurpose:   conceptKeywords(matrix.ProblemPurpose),
		ObjectSystem:     conceptKeywords(matrix.ObjectSystem),
		EnvironmentField: conceptKeywords(matrix.EnvironmentField),
	}, nil
}

// synonymTable maps common technical terms to patent-register variants.
var synonymTable = map[string][]string{
	"device":     {"apparatus", "unit"},
	"system":     {"assembly", "arrangement"},
	"method":     {"process", "procedure"},
	"sensor":     {"detector", "transducer"},
	"monitor":    {"track", "measure"},
	"wireless":   {"radio-frequency", "contactless"},
	"machine":    {"automated", "mechanical"},
	"learning":   {"training", "inference"},
	"data":       {"signal", "information"},
	"control":    {"regulation", "management"},
	"energy":     {"power", "electrical energy"},
	"material":   {"composition", "substance"},
	"image":      {"imaging", "optical capture"},
	"health":     {"physiological", "biomedical"},
	"vehicle":    {"automotive", "transport"},
	"network":    {"communication network", "distributed system"},
	"container":  {"vessel", "receptacle"},
	"processing": {"computation", "treatment"},
}

// EnhanceKeyword expands a keyword with table synonyms and deterministic
// patent-phrasing variants.
func (o *Offline) EnhanceKeyword(ctx context.Context, category, keyword string) (*priorart.KeywordExpansion, error) {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return nil, fmt.Errorf("keyword is empty")
	}
	expansion := &priorart.KeywordExpansion{}
	for _, word := range strings.Fields(keyword) {
		expansion.Synonyms = append(expansion.Synonyms, synonymTable[word]...)
	}
	switch category {
	case priorart.CategoryProblemPurpose:
		expansion.RelatedTerms = []string{keyword + " improvement"}
	case priorart.CategoryObjectSystem:
		expansion.TechnicalVariations = []string{keyword + " apparatus", keyword + " module"}
	case priorart.CategoryEnvironmentField:
		expansion.RelatedTerms = []string{keyword + " applications"}
	}
	expansion.PatentTerminology = []string{"means for " + keyword}
	return expansion, nil
}

// Summarize truncates the description at a sentence boundary near the
// classification summary limit.
func (o *Offline) Summarize(ctx context.Context, description string) (string, error) {
	const limit = 400
	description = strings.TrimSpace(description)
	if len(description) <= limit {
		return description, nil
	}
	cut := strings.LastIndex(description[:limit], ". ")
	if cut <= 0 {
		cut = limit
	} else {
		cut++
	}
	return strings.TrimSpace(description[:cut]), nil
}

// offlineClassification maps text fragments to IPC codes, mirroring the
// engine's own classification fallback but usable as a standalone operation.
var offlineClassification = []struct {
	fragment string
	code     string
}{
	{"machine learning", "G06N20/00"},
	{"neural", "G06N3/02"},
	{"health", "A61B5/00"},
	{"wearable", "A61B5/68"},
	{"sensor", "G01D21/00"},
	{"wireless", "H04W4/00"},
	{"network", "H04L67/00"},
	{"image", "G06T7/00"},
	{"battery", "H01M10/00"},
	{"vehicle", "B60W50/00"},
	{"chemical", "C07B61/00"},
	{"energy", "H02J3/00"},
}

// ClassifyText maps summary fragments to IPC codes. At least one code is
// always returned.
func (o *Offline) ClassifyText(ctx context.Context, summary string) ([]string, error) {
	text := strings.ToLower(summary)
	var codes []string
	for _, entry := range offlineClassification {
		if strings.Contains(text, entry.fragment) {
			codes = append(codes, entry.code)
		}
	}
	if len(codes) == 0 {
		codes = []string{"G06F17/00"}
	}
	if len(codes) > 5 {
		codes = codes[:5]
	}
	return codes, nil
}

// GenerateQueries builds Boolean queries combining quoted keywords with the
// classification codes, one per category plus cross-category combinations.
func (o *Offline) GenerateQueries(ctx context.Context, keywords *priorart.KeywordSet, codes []string) ([]string, error) {
	if keywords.IsEmpty() {
		return nil, fmt.Errorf("keywords are required")
	}
	codeClause := ""
	if len(codes) > 0 {
		codeClause = " AND (" + strings.Join(take(codes, 3), " OR ") + ")"
	}

	var queries []string
	for _, category := range priorart.Categories() {
		terms := keywords.Category(category)
		if len(terms) == 0 {
			continue
		}
		queries = append(queries, "("+quoteJoin(take(terms, 3), " OR ")+")"+codeClause)
	}

	// Cross-category pairs tighten recall.
	leads := map[string]string{}
	for _, category := range priorart.Categories() {
		if terms := keywords.Category(category); len(terms) > 0 {
			leads[category] = terms[0]
		}
	}
	if object, ok := leads[priorart.CategoryObjectSystem]; ok {
		if problem, ok := leads[priorart.CategoryProblemPurpose]; ok {
			queries = append(queries, quoteJoin([]string{object, problem}, " AND ")+codeClause)
		}
		if field, ok := leads[priorart.CategoryEnvironmentField]; ok {
			queries = append(queries, quoteJoin([]string{object, field}, " AND ")+codeClause)
		}
	}
	if len(codes) > 0 {
		queries = append(queries, "("+strings.Join(take(codes, 5), " OR ")+")")
	}
	if len(queries) > 8 {
		queries = queries[:8]
	}
	return queries, nil
}

// EvaluateSimilarity scores a patent by lexical overlap between the
// description and the patent's title and abstract.
func (o *Offline) EvaluateSimilarity(ctx context.Context, description string, result priorart.PatentResult) (float64, error) {
	descTerms := map[string]bool{}
	for _, word := range tokenize(description) {
		descTerms[word] = true
	}
	if len(descTerms) == 0 {
		return 0, nil
	}
	titleTerms := tokenize(result.Title)
	abstractTerms := tokenize(result.Abstract)

	score := overlap(descTerms, titleTerms)*0.6 + overlap(descTerms, abstractTerms)*0.4
	if score > 1 {
		score = 1
	}
	return score, nil
}

func overlap(reference map[string]bool, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	matched := 0
	for _, term := range terms {
		if reference[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

var offlineStopWords = map[string]bool{
	"that": true, "with": true, "from": true, "this": true, "have": true,
	"which": true, "their": true, "will": true, "into": true, "using": true,
	"based": true, "such": true, "when": true, "where": true, "these": true,
	"includes": true, "including": true, "being": true, "more": true,
	"other": true, "each": true, "also": true,
}

func tokenize(text string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,;:()"'`)
		if len(word) > 3 && !offlineStopWords[word] {
			words = append(words, word)
		}
	}
	return words
}

func rankByFrequency(words []string) []string {
	counts := map[string]int{}
	order := map[string]int{}
	for i, word := range words {
		counts[word]++
		if _, ok := order[word]; !ok {
			order[word] = i
		}
	}
	unique := make([]string, 0, len(counts))
	for word := range counts {
		unique = append(unique, word)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})
	return unique
}

// purposeTerms picks terms appearing after purpose markers ("for", "to") in
// the description, falling back to the frequency ranking.
func purposeTerms(description string, ranked []string) []string {
	fields := strings.Fields(strings.ToLower(description))
	var terms []string
	for i, word := range fields {
		if (word == "for" || word == "to") && i+1 < len(fields) {
			candidate := strings.Trim(fields[i+1], `.,;:()"'`)
			if len(candidate) > 3 && !offlineStopWords[candidate] {
				terms = append(terms, candidate)
			}
		}
		if len(terms) == 3 {
			break
		}
	}
	if len(terms) == 0 {
		terms = take(ranked, 2)
	}
	return terms
}

// fieldTerms takes lower-frequency terms as stand-ins for the application
// domain.
func fieldTerms(ranked []string) []string {
	if len(ranked) > 5 {
		return take(ranked[3:], 3)
	}
	return take(ranked, 2)
}

func conceptKeywords(concept string) []string {
	words := strings.Fields(strings.TrimSpace(concept))
	var keywords []string
	seen := map[string]bool{}
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] || len(keywords) >= 6 {
			return
		}
		seen[term] = true
		keywords = append(keywords, term)
	}
	add(strings.Join(words, " "))
	for _, word := range words {
		add(word)
	}
	for i := 0; i+1 < len(words); i++ {
		add(words[i] + " " + words[i+1])
	}
	return keywords
}

func quoteJoin(terms []string, sep string) string {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"`
	}
	return strings.Join(quoted, sep)
}

func take(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
