package priorart

import "fmt"

// ResumeAction is the action tag carried by a resume instruction.
type ResumeAction string

const (
	ResumeActionAccept ResumeAction = "accept"
	ResumeActionEdit   ResumeAction = "edit"
	ResumeActionReject ResumeAction = "reject"

	// ResumeActionFeedback is a reserved extension point for free-text
	// review feedback. It is not yet supported and is rejected like any
	// other unsupported tag, with a distinct message.
	ResumeActionFeedback ResumeAction = "feedback"
)

// ResumeInstruction continues a suspended session. Keywords is only
// consulted for the edit action, where it supplies replacement lists;
// categories left nil or empty keep the seed keywords for that category.
type ResumeInstruction struct {
	Action   ResumeAction `json:"action"`
	Keywords *KeywordSet  `json:"keywords,omitempty"`
}

// applyResumeInstruction validates the instruction against the suspended
// checkpoint, applies the resulting state transition, and returns the stage
// the engine should re-enter the graph at. The checkpoint is only mutated
// when the instruction is valid.
func applyResumeInstruction(checkpoint *Checkpoint, instruction ResumeInstruction) (Stage, error) {
	state := checkpoint.State
	seed := state.SeedKeywords

	switch instruction.Action {
	case ResumeActionAccept:
		state.ValidatedKeywords = seed.Copy()
		state.AppendMessage(RoleHuman, "keywords accepted by reviewer")
		return StageEnhancement, nil

	case ResumeActionEdit:
		if instruction.Keywords == nil {
			return "", NewInvalidResumeError("edit requires a keywords payload")
		}
		state.ValidatedKeywords = mergeKeywords(seed, instruction.Keywords)
		state.AppendMessage(RoleHuman, "keywords edited by reviewer")
		return StageEnhancement, nil

	case ResumeActionReject:
		state.ValidatedKeywords = &KeywordSet{}
		state.AppendMessage(RoleHuman, "keywords rejected by reviewer, regenerating")
		return StageKeywordGeneration, nil

	case ResumeActionFeedback:
		return "", NewInvalidResumeError(`action "feedback" is reserved and not yet supported`)

	default:
		return "", NewInvalidResumeError(fmt.Sprintf("unknown resume action %q", instruction.Action))
	}
}

// mergeKeywords builds the validated keyword set for an edit: each category
// takes the edited list when one was supplied, and falls back to the seed
// keywords otherwise. A category is never defaulted to empty.
func mergeKeywords(seed, edited *KeywordSet) *KeywordSet {
	merged := &KeywordSet{}
	for _, category := range Categories() {
		if terms := edited.Category(category); len(terms) > 0 {
			merged.SetCategory(category, copyStrings(terms))
		} else {
			merged.SetCategory(category, copyStrings(seed.Category(category)))
		}
	}
	return merged
}
