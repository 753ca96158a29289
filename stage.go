package priorart

import "fmt"

// Stage identifies one processing step in the pipeline graph. The stored
// stage tag in a checkpoint is sufficient to re-enter the graph: continuation
// is plain dispatch on the tag, with no suspended call stack involved.
type Stage string

const (
	StageConceptExtraction Stage = "concept_extraction"
	StageKeywordGeneration Stage = "keyword_generation"
	StageHumanValidation   Stage = "human_validation"
	StageEnhancement       Stage = "enhancement"
	StageClassification    Stage = "classification"
	StageQueryGeneration   Stage = "query_generation"
	StagePatentLookup      Stage = "patent_lookup"
	StageEvaluation        Stage = "evaluation"
	StageTerminal          Stage = "terminal"
)

// ParseStage converts a stored stage tag back into a Stage.
func ParseStage(s string) (Stage, error) {
	switch stage := Stage(s); stage {
	case StageConceptExtraction, StageKeywordGeneration, StageHumanValidation,
		StageEnhancement, StageClassification, StageQueryGeneration,
		StagePatentLookup, StageEvaluation, StageTerminal:
		return stage, nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// SessionStatus represents the lifecycle status of a session.
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusSuspended SessionStatus = "suspended"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)
