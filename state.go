package priorart

// Keyword categories used throughout the pipeline. Every keyword structure
// carries exactly these three categories, matching the concept matrix.
const (
	CategoryProblemPurpose   = "problem_purpose"
	CategoryObjectSystem     = "object_system"
	CategoryEnvironmentField = "environment_field"
)

// Categories returns the category names in canonical order.
func Categories() []string {
	return []string{
		CategoryProblemPurpose,
		CategoryObjectSystem,
		CategoryEnvironmentField,
	}
}

// ConceptMatrix holds the concepts extracted from an invention description,
// one concept summary per category.
type ConceptMatrix struct {
	ProblemPurpose   string `json:"problem_purpose" yaml:"problem_purpose"`
	ObjectSystem     string `json:"object_system" yaml:"object_system"`
	EnvironmentField string `json:"environment_field" yaml:"environment_field"`
}

// KeywordSet holds search keywords grouped by category. It is used for the
// generated seed keywords, the human-validated keywords, and the enhanced
// keywords.
type KeywordSet struct {
	ProblemPurpose   []string `json:"problem_purpose" yaml:"problem_purpose"`
	ObjectSystem     []string `json:"object_system" yaml:"object_system"`
	EnvironmentField []string `json:"environment_field" yaml:"environment_field"`
}

// Copy returns a deep copy of the keyword set.
func (k *KeywordSet) Copy() *KeywordSet {
	if k == nil {
		return nil
	}
	return &KeywordSet{
		ProblemPurpose:   copyStrings(k.ProblemPurpose),
		ObjectSystem:     copyStrings(k.ObjectSystem),
		EnvironmentField: copyStrings(k.EnvironmentField),
	}
}

// IsEmpty reports whether all three categories are empty. An empty set is the
// sentinel for a rejected review.
func (k *KeywordSet) IsEmpty() bool {
	if k == nil {
		return true
	}
	return len(k.ProblemPurpose) == 0 &&
		len(k.ObjectSystem) == 0 &&
		len(k.EnvironmentField) == 0
}

// Category returns the keyword list for the named category.
func (k *KeywordSet) Category(name string) []string {
	switch name {
	case CategoryProblemPurpose:
		return k.ProblemPurpose
	case CategoryObjectSystem:
		return k.ObjectSystem
	case CategoryEnvironmentField:
		return k.EnvironmentField
	}
	return nil
}

// SetCategory replaces the keyword list for the named category.
func (k *KeywordSet) SetCategory(name string, keywords []string) {
	switch name {
	case CategoryProblemPurpose:
		k.ProblemPurpose = keywords
	case CategoryObjectSystem:
		k.ObjectSystem = keywords
	case CategoryEnvironmentField:
		k.EnvironmentField = keywords
	}
}

// PatentResult describes one patent returned by a search or evaluation.
type PatentResult struct {
	Title      string  `json:"title"`
	Number     string  `json:"number"`
	Abstract   string  `json:"abstract,omitempty"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// Message is one entry in the session audit trail.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles used in the audit trail.
const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleHuman     = "human"
)

// WorkflowState is the single mutable record threaded through every stage of
// a session. Description and MaxResults are immutable after creation. The
// keyword fields are populated in strict production order: ConceptMatrix,
// SeedKeywords, ValidatedKeywords, EnhancedKeywords, ClassificationCodes,
// SearchQueries. Messages and Errors are append-only logs.
type WorkflowState struct {
	Description         string         `json:"description"`
	MaxResults          int            `json:"max_results"`
	ConceptMatrix       *ConceptMatrix `json:"concept_matrix,omitempty"`
	SeedKeywords        *KeywordSet    `json:"seed_keywords,omitempty"`
	ValidatedKeywords   *KeywordSet    `json:"validated_keywords,omitempty"`
	EnhancedKeywords    *KeywordSet    `json:"enhanced_keywords,omitempty"`
	ClassificationCodes []string       `json:"classification_codes,omitempty"`
	SearchQueries       []string       `json:"search_queries,omitempty"`
	SearchResults       []PatentResult `json:"search_results,omitempty"`
	FinalResults        []PatentResult `json:"final_results,omitempty"`
	Messages            []Message      `json:"messages"`
	Errors              []string       `json:"errors"`
}

// NewWorkflowState creates the initial state for a session.
func NewWorkflowState(description string, maxResults int) *WorkflowState {
	return &WorkflowState{
		Description: description,
		MaxResults:  maxResults,
	}
}

// AppendMessage appends an entry to the audit trail. Existing entries are
// never rewritten or removed.
func (s *WorkflowState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// AppendError records a failure description. Stage failures append here
// rather than aborting the workflow.
func (s *WorkflowState) AppendError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Copy returns a deep copy of the workflow state.
func (s *WorkflowState) Copy() *WorkflowState {
	if s == nil {
		return nil
	}
	out := &WorkflowState{
		Description:         s.Description,
		MaxResults:          s.MaxResults,
		SeedKeywords:        s.SeedKeywords.Copy(),
		ValidatedKeywords:   s.ValidatedKeywords.Copy(),
		EnhancedKeywords:    s.EnhancedKeywords.Copy(),
		ClassificationCodes: copyStrings(s.ClassificationCodes),
		SearchQueries:       copyStrings(s.SearchQueries),
	}
	if s.ConceptMatrix != nil {
		m := *s.ConceptMatrix
		out.ConceptMatrix = &m
	}
	if s.SearchResults != nil {
		out.SearchResults = append([]PatentResult{}, s.SearchResults...)
	}
	if s.FinalResults != nil {
		out.FinalResults = append([]PatentResult{}, s.FinalResults...)
	}
	if s.Messages != nil {
		out.Messages = append([]Message{}, s.Messages...)
	}
	if s.Errors != nil {
		out.Errors = append([]string{}, s.Errors...)
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
