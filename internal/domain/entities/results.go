package entities

const (
	// TriageDisclaimer accompanies every successful triage result.
	TriageDisclaimer = "⚠️ This is not medical advice. Always consult with a qualified healthcare provider for proper diagnosis and treatment."

	// TriageErrorDisclaimer replaces TriageDisclaimer when the completion failed.
	TriageErrorDisclaimer = "⚠️ System error. Please consult a healthcare provider directly."
)

// DescribeResult holds a patient-friendly specialty description
type DescribeResult struct {
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// RelatedSpecialty is one referral suggestion
type RelatedSpecialty struct {
	Specialty string `json:"specialty"`
	Reason    string `json:"reason"`
}

// RelatedResult holds referral suggestions for a specialty
type RelatedResult struct {
	Specialty          string             `json:"specialty"`
	RelatedSpecialties []RelatedSpecialty `json:"related_specialties"`
	Error              string             `json:"error,omitempty"`
}

// DistributionResult holds the analysis of a specialty's provider distribution
type DistributionResult struct {
	Specialty     string `json:"specialty"`
	ProviderCount int    `json:"provider_count"`
	Analysis      string `json:"analysis"`
	Error         string `json:"error,omitempty"`
}

// TriageResult holds a symptom-based care recommendation
type TriageResult struct {
	Symptoms               string           `json:"symptoms"`
	RecommendedSpecialties []string         `json:"recommended_specialties"`
	Reasoning              string           `json:"reasoning"`
	UrgencyLevel           UrgencyLevel     `json:"urgency_level"`
	EmergencyAction        *string          `json:"emergency_action"`
	Disclaimer             string           `json:"disclaimer"`
	AvailableProviders     []ProviderRecord `json:"available_providers"`
	LocationChecked        string           `json:"location_checked,omitempty"`
	ProviderSearchError    string           `json:"provider_search_error,omitempty"`
	Error                  string           `json:"error,omitempty"`
}

// SearchResult holds the outcome of a natural-language provider search
type SearchResult struct {
	Query                  string           `json:"query"`
	UnderstoodIntent       string           `json:"understood_intent"`
	SearchTerms            []string         `json:"search_terms"`
	RecommendedSpecialties []string         `json:"recommended_specialties"`
	Providers              []ProviderRecord `json:"providers"`
	TotalFound             int              `json:"total_found"`
	Error                  string           `json:"error,omitempty"`
}

// SpecialtyProviders holds grounding facts about the specialty a question mentions
type SpecialtyProviders struct {
	Specialty       string           `json:"specialty"`
	Count           int              `json:"count"`
	SampleProviders []ProviderRecord `json:"sample_providers"`
}

// StateData holds grounding facts about the region a question mentions
type StateData struct {
	State         string `json:"state"`
	ProviderCount int    `json:"provider_count"`
}

// GroundingFacts is the repository data folded into an FAQ prompt
type GroundingFacts struct {
	NetworkStats         *NetworkStats       `json:"network_stats,omitempty"`
	AvailableSpecialties []string            `json:"available_specialties,omitempty"`
	SpecialtyProviders   *SpecialtyProviders `json:"specialty_providers,omitempty"`
	StateData            *StateData          `json:"state_data,omitempty"`
	Error                string              `json:"error,omitempty"`
}

// FaqResult holds one FAQ assistant exchange
type FaqResult struct {
	Answer              string         `json:"answer"`
	DataRetrieved       GroundingFacts `json:"data_retrieved"`
	FollowUpSuggestions []string       `json:"follow_up_suggestions"`
	ConversationHistory []Turn         `json:"conversation_history"`
	Error               string         `json:"error,omitempty"`
}
