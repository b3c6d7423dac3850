package entities

// TaskKind identifies one assistant task
type TaskKind string

const (
	TaskDescribe             TaskKind = "describe"
	TaskRelatedSpecialties   TaskKind = "related_specialties"
	TaskDistributionAnalysis TaskKind = "distribution_analysis"
	TaskSymptomTriage        TaskKind = "symptom_triage"
	TaskSemanticSearch       TaskKind = "semantic_search"
	TaskFaqTurn              TaskKind = "faq_turn"
)

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskDescribe, TaskRelatedSpecialties, TaskDistributionAnalysis,
		TaskSymptomTriage, TaskSemanticSearch, TaskFaqTurn:
		return true
	}
	return false
}

// TaskRequest is a validated request for one assistant task. Subject holds the
// specialty name, symptom text, search query or FAQ question depending on Kind.
type TaskRequest struct {
	Kind     TaskKind `json:"kind"`
	Subject  string   `json:"subject"`
	Count    int      `json:"count,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Location string   `json:"location,omitempty"`
	History  []Turn   `json:"history,omitempty"`
}
