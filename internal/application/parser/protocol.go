// Package parser decodes the line-tag protocol the assistant prompts ask the
// completion capability to answer in. The label set, delimiter and list
// separator declared here are also rendered into the prompts, so a change to
// any of them touches both sides at once.
package parser

// ProtocolVersion identifies the current tag protocol.
const ProtocolVersion = 1

const (
	// TagDelimiter separates a label from its value: "URGENCY: low".
	TagDelimiter = ":"

	// ListSeparator separates the elements of list-valued labels.
	ListSeparator = ","

	// NotApplicable is the sentinel the model writes for an absent value.
	NotApplicable = "N/A"
)

// Label is one tag of the protocol
type Label string

const (
	LabelSpecialties     Label = "SPECIALTIES"
	LabelReasoning       Label = "REASONING"
	LabelUrgency         Label = "URGENCY"
	LabelEmergencyAction Label = "EMERGENCY_ACTION"
	LabelIntent          Label = "INTENT"
	LabelKeyTerms        Label = "KEY_TERMS"
)

// TriageLabels is the label set of the symptom triage output contract.
var TriageLabels = []Label{LabelSpecialties, LabelReasoning, LabelUrgency, LabelEmergencyAction}

// SearchLabels is the label set of the semantic search output contract.
var SearchLabels = []Label{LabelIntent, LabelKeyTerms, LabelSpecialties}

// Tag renders "LABEL:" as the model is expected to write it.
func (l Label) Tag() string {
	return string(l) + TagDelimiter
}

// IsList reports whether values of the label are comma separated lists.
func (l Label) IsList() bool {
	switch l {
	case LabelSpecialties, LabelKeyTerms:
		return true
	}
	return false
}
