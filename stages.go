package priorart

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Seed keyword lists are bounded per category. Oversized operation output is
// truncated; undersized output is padded from the deterministic fallback.
const (
	minSeedKeywords = 3
	maxSeedKeywords = 6
)

// Search query lists are bounded. Oversized operation output is truncated;
// undersized output is topped up with deterministic template queries.
const (
	minSearchQueries = 5
	maxSearchQueries = 8
)

// summaryLimit bounds the classification summary when no summarizer is
// configured or the summarize call fails.
const summaryLimit = 400

// logOperation records one external operation call in the operation log.
func (e *Engine) logOperation(ctx context.Context, sessionID string, stage Stage, operation, input, result string, start time.Time, err error) {
	entry := &OperationLogEntry{
		SessionID: sessionID,
		Stage:     stage,
		Operation: operation,
		Input:     input,
		Result:    result,
		StartTime: start,
		Duration:  time.Since(start).Seconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if logErr := e.oplog.LogOperation(ctx, entry); logErr != nil {
		e.logger.Error("failed to log operation", "error", logErr)
	}
}

// runConceptExtraction populates the concept matrix from the description.
// Never fatal: a failed extraction falls back to a deterministic matrix.
func (e *Engine) runConceptExtraction(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	start := time.Now()
	matrix, err := e.ops.Extractor.ExtractConcepts(ctx, state.Description)
	e.logOperation(ctx, checkpoint.SessionID, StageConceptExtraction,
		"extract_concepts", state.Description, "", start, err)
	if err != nil {
		state.AppendError(NewOperationFailure(StageConceptExtraction, err).Error())
		state.ConceptMatrix = fallbackConceptMatrix(state.Description)
		state.AppendMessage(RoleSystem, "concept extraction failed, using fallback matrix")
		return
	}
	state.ConceptMatrix = matrix
	state.AppendMessage(RoleAssistant, fmt.Sprintf(
		"extracted concepts: problem/purpose %q, object/system %q, environment/field %q",
		matrix.ProblemPurpose, matrix.ObjectSystem, matrix.EnvironmentField))
}

// runKeywordGeneration populates the seed keywords from the concept matrix.
// Never fatal: a failed generation falls back to placeholder terms.
func (e *Engine) runKeywordGeneration(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	start := time.Now()
	keywords, err := e.ops.Generator.GenerateKeywords(ctx, state.ConceptMatrix)
	e.logOperation(ctx, checkpoint.SessionID, StageKeywordGeneration,
		"generate_keywords", "", "", start, err)
	if err != nil {
		state.AppendError(NewOperationFailure(StageKeywordGeneration, err).Error())
		state.SeedKeywords = fallbackSeedKeywords(state.ConceptMatrix)
		state.AppendMessage(RoleSystem, "keyword generation failed, using fallback keywords")
		return
	}
	state.SeedKeywords = normalizeSeedKeywords(keywords, state.ConceptMatrix)
	state.AppendMessage(RoleAssistant, "generated seed keywords for review")
}

// runEnhancement expands every validated keyword with synonyms, related
// terms, technical variations, and patent terminology. Best-effort: each
// failed expansion leaves that keyword unchanged, so a total operation
// failure copies the validated keywords through.
func (e *Engine) runEnhancement(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	validated := state.ValidatedKeywords
	enhanced := validated.Copy()
	start := time.Now()
	calls, failures := 0, 0
	for _, category := range Categories() {
		terms := validated.Category(category)
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			seen[strings.ToLower(term)] = true
		}
		for _, term := range terms {
			calls++
			expansion, err := e.ops.Enhancer.EnhanceKeyword(ctx, category, term)
			if err != nil {
				failures++
				continue
			}
			for _, variant := range expansion.Terms() {
				key := strings.ToLower(strings.TrimSpace(variant))
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				enhanced.SetCategory(category, append(enhanced.Category(category), strings.TrimSpace(variant)))
			}
		}
	}
	var opErr error
	if failures > 0 {
		opErr = fmt.Errorf("%d of %d keyword expansions failed", failures, calls)
		state.AppendError(NewOperationFailure(StageEnhancement, opErr).Error())
	}
	e.logOperation(ctx, checkpoint.SessionID, StageEnhancement,
		"enhance_keywords", fmt.Sprintf("%d keywords", calls), "", start, opErr)
	state.EnhancedKeywords = enhanced
	state.AppendMessage(RoleAssistant, fmt.Sprintf(
		"enhanced keywords: %d terms across %d categories",
		len(enhanced.ProblemPurpose)+len(enhanced.ObjectSystem)+len(enhanced.EnvironmentField),
		len(Categories())))
}

// runClassification populates the classification codes. A configured
// summarizer condenses the description first; on any failure the lookup
// falls back to a keyword heuristic that always yields at least one code.
func (e *Engine) runClassification(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	summary := e.classificationSummary(ctx, state)
	start := time.Now()
	codes, err := e.ops.Classifier.ClassifyText(ctx, summary)
	e.logOperation(ctx, checkpoint.SessionID, StageClassification,
		"classify_text", summary, strings.Join(codes, ", "), start, err)
	if err != nil || len(codes) == 0 {
		if err != nil {
			state.AppendError(NewOperationFailure(StageClassification, err).Error())
		}
		codes = fallbackClassificationCodes(state)
		state.AppendMessage(RoleSystem, "classification lookup failed, using heuristic codes")
	} else {
		state.AppendMessage(RoleAssistant, "classification codes: "+strings.Join(codes, ", "))
	}
	state.ClassificationCodes = codes
}

func (e *Engine) classificationSummary(ctx context.Context, state *WorkflowState) string {
	if e.ops.Summarizer != nil {
		summary, err := e.ops.Summarizer.Summarize(ctx, state.Description)
		if err == nil && summary != "" {
			return summary
		}
		if err != nil {
			state.AppendError(NewOperationFailure(StageClassification, err).Error())
		}
	}
	if len(state.Description) > summaryLimit {
		return state.Description[:summaryLimit]
	}
	return state.Description
}

// runQueryGeneration populates the search queries. This is the one stage
// whose operation failure is terminal for the run's useful output: it
// reports false and leaves SearchQueries unset.
func (e *Engine) runQueryGeneration(ctx context.Context, checkpoint *Checkpoint) bool {
	state := checkpoint.State
	start := time.Now()
	queries, err := e.ops.Queries.GenerateQueries(ctx, state.EnhancedKeywords, state.ClassificationCodes)
	if err == nil && len(queries) == 0 {
		err = fmt.Errorf("operation returned no queries")
	}
	e.logOperation(ctx, checkpoint.SessionID, StageQueryGeneration,
		"generate_queries", "", fmt.Sprintf("%d queries", len(queries)), start, err)
	if err != nil {
		state.AppendError(NewOperationFailure(StageQueryGeneration, err).Error())
		return false
	}
	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	if len(queries) < minSearchQueries {
		queries = topUpQueries(queries, state.EnhancedKeywords, state.ClassificationCodes)
	}
	state.SearchQueries = queries
	state.AppendMessage(RoleAssistant, fmt.Sprintf("generated %d search queries", len(queries)))
	return true
}

// runPatentLookup runs the generated queries against the patent searcher.
// Never fatal: a failed search continues with empty results.
func (e *Engine) runPatentLookup(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	start := time.Now()
	results, err := e.ops.Searcher.SearchPatents(ctx, state.SearchQueries, state.MaxResults)
	e.logOperation(ctx, checkpoint.SessionID, StagePatentLookup,
		"search_patents", strings.Join(state.SearchQueries, "; "),
		fmt.Sprintf("%d results", len(results)), start, err)
	if err != nil {
		state.AppendError(NewOperationFailure(StagePatentLookup, err).Error())
		state.SearchResults = []PatentResult{}
		return
	}
	results = dedupeResults(results)
	if len(results) > state.MaxResults {
		results = results[:state.MaxResults]
	}
	state.SearchResults = results
	state.AppendMessage(RoleAssistant, fmt.Sprintf("found %d patents", len(results)))
}

// runEvaluation scores each found patent against the input description and
// ranks the results. Without an evaluator the results pass through in search
// order.
func (e *Engine) runEvaluation(ctx context.Context, checkpoint *Checkpoint) {
	state := checkpoint.State
	if len(state.SearchResults) == 0 {
		state.FinalResults = []PatentResult{}
		state.AppendMessage(RoleSystem, "no search results to evaluate")
		return
	}
	final := append([]PatentResult{}, state.SearchResults...)
	if e.ops.Evaluator != nil {
		start := time.Now()
		failures := 0
		for i := range final {
			score, err := e.ops.Evaluator.EvaluateSimilarity(ctx, state.Description, final[i])
			if err != nil {
				failures++
				continue
			}
			final[i].Similarity = score
		}
		var opErr error
		if failures > 0 {
			opErr = fmt.Errorf("%d similarity evaluations failed", failures)
			state.AppendError(NewOperationFailure(StageEvaluation, opErr).Error())
		}
		e.logOperation(ctx, checkpoint.SessionID, StageEvaluation,
			"evaluate_similarity", fmt.Sprintf("%d results", len(final)), "", start, opErr)
		sort.SliceStable(final, func(i, j int) bool {
			return final[i].Similarity > final[j].Similarity
		})
	}
	state.FinalResults = final
	state.AppendMessage(RoleAssistant, fmt.Sprintf("ranked %d patents by similarity", len(final)))
}

// dedupeResults removes duplicate patents, preferring the patent number as
// identity and falling back to URL, then title.
func dedupeResults(results []PatentResult) []PatentResult {
	seen := make(map[string]bool, len(results))
	var out []PatentResult
	for _, result := range results {
		id := result.Number
		if id == "" {
			id = result.URL
		}
		if id == "" {
			id = strings.ToLower(strings.TrimSpace(result.Title))
		}
		if id != "" && seen[id] {
			continue
		}
		if id != "" {
			seen[id] = true
		}
		out = append(out, result)
	}
	return out
}
