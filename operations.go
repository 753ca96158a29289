package priorart

import "context"

// The pipeline never inspects collaborator internals. Each stage consumes
// exactly one of these operations and only distinguishes success, whose
// output is merged into the workflow state, from failure, which triggers the
// stage's deterministic fallback.

// ConceptExtractor extracts a concept matrix from an invention description.
type ConceptExtractor interface {
	ExtractConcepts(ctx context.Context, description string) (*ConceptMatrix, error)
}

// KeywordGenerator produces seed search keywords from a concept matrix.
// Implementations should aim for 3-6 terms per category; the engine clamps
// oversized output.
type KeywordGenerator interface {
	GenerateKeywords(ctx context.Context, matrix *ConceptMatrix) (*KeywordSet, error)
}

// KeywordExpansion holds the term variants produced for a single keyword.
type KeywordExpansion struct {
	Synonyms            []string `json:"synonyms"`
	RelatedTerms        []string `json:"related_terms"`
	TechnicalVariations []string `json:"technical_variations"`
	PatentTerminology   []string `json:"patent_terminology"`
}

// Terms flattens the expansion into a single list, in declaration order.
func (e *KeywordExpansion) Terms() []string {
	var out []string
	out = append(out, e.Synonyms...)
	out = append(out, e.RelatedTerms...)
	out = append(out, e.TechnicalVariations...)
	out = append(out, e.PatentTerminology...)
	return out
}

// KeywordEnhancer expands one validated keyword with synonyms and related
// terms. Enhancement is best-effort: a failure leaves the keyword as-is.
type KeywordEnhancer interface {
	EnhanceKeyword(ctx context.Context, category, keyword string) (*KeywordExpansion, error)
}

// Summarizer condenses an invention description into a classification-ready
// summary. It is an optional sub-step of classification; when absent or
// failing, a truncated description is used instead.
type Summarizer interface {
	Summarize(ctx context.Context, description string) (string, error)
}

// Classifier looks up patent classification codes for a summary text.
type Classifier interface {
	ClassifyText(ctx context.Context, summary string) ([]string, error)
}

// QueryGenerator builds Boolean search queries from enhanced keywords and
// classification codes. Implementations should aim for 5-8 queries; the
// engine clamps oversized output.
type QueryGenerator interface {
	GenerateQueries(ctx context.Context, keywords *KeywordSet, codes []string) ([]string, error)
}

// PatentSearcher runs search queries against a patent database.
type PatentSearcher interface {
	SearchPatents(ctx context.Context, queries []string, maxResults int) ([]PatentResult, error)
}

// SimilarityEvaluator scores how similar a found patent is to the input
// description, in [0, 1].
type SimilarityEvaluator interface {
	EvaluateSimilarity(ctx context.Context, description string, result PatentResult) (float64, error)
}

// Operations bundles the external collaborators consumed by the engine.
// Extractor, Generator, Enhancer, Classifier, and Queries are required.
// Summarizer is optional. Searcher and Evaluator are optional: when Searcher
// is set, the patent lookup and evaluation stages are wired in after query
// generation; otherwise the run ends there.
type Operations struct {
	Extractor  ConceptExtractor
	Generator  KeywordGenerator
	Enhancer   KeywordEnhancer
	Summarizer Summarizer
	Classifier Classifier
	Queries    QueryGenerator
	Searcher   PatentSearcher
	Evaluator  SimilarityEvaluator
}

// ConceptExtractorFunc adapts a function to the ConceptExtractor interface.
type ConceptExtractorFunc func(ctx context.Context, description string) (*ConceptMatrix, error)

func (f ConceptExtractorFunc) ExtractConcepts(ctx context.Context, description string) (*ConceptMatrix, error) {
	return f(ctx, description)
}

// KeywordGeneratorFunc adapts a function to the KeywordGenerator interface.
type KeywordGeneratorFunc func(ctx context.Context, matrix *ConceptMatrix) (*KeywordSet, error)

func (f KeywordGeneratorFunc) GenerateKeywords(ctx context.Context, matrix *ConceptMatrix) (*KeywordSet, error) {
	return f(ctx, matrix)
}

// KeywordEnhancerFunc adapts a function to the KeywordEnhancer interface.
type KeywordEnhancerFunc func(ctx context.Context, category, keyword string) (*KeywordExpansion, error)

func (f KeywordEnhancerFunc) EnhanceKeyword(ctx context.Context, category, keyword string) (*KeywordExpansion, error) {
	return f(ctx, category, keyword)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, description string) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, description string) (string, error) {
	return f(ctx, description)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, summary string) ([]string, error)

func (f ClassifierFunc) ClassifyText(ctx context.Context, summary string) ([]string, error) {
	return f(ctx, summary)
}

// QueryGeneratorFunc adapts a function to the QueryGenerator interface.
type QueryGeneratorFunc func(ctx context.Context, keywords *KeywordSet, codes []string) ([]string, error)

func (f QueryGeneratorFunc) GenerateQueries(ctx context.Context, keywords *KeywordSet, codes []string) ([]string, error) {
	return f(ctx, keywords, codes)
}

// PatentSearcherFunc adapts a function to the PatentSearcher interface.
type PatentSearcherFunc func(ctx context.Context, queries []string, maxResults int) ([]PatentResult, error)

func (f PatentSearcherFunc) SearchPatents(ctx context.Context, queries []string, maxResults int) ([]PatentResult, error) {
	return f(ctx, queries, maxResults)
}

// SimilarityEvaluatorFunc adapts a function to the SimilarityEvaluator interface.
type SimilarityEvaluatorFunc func(ctx context.Context, description string, result PatentResult) (float64, error)

func (f SimilarityEvaluatorFunc) EvaluateSimilarity(ctx context.Context, description string, result PatentResult) (float64, error) {
	return f(ctx, description, result)
}
