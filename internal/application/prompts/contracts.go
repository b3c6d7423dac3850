package prompts

import (
	"fmt"
	"strings"

	"github.com/providervault/ai-service/internal/application/parser"
)

type contractExample struct {
	input  string
	values map[parser.Label]string
}

func renderTags(labels []parser.Label, values map[parser.Label]string) string {
	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		lines = append(lines, fmt.Sprintf("%s %s", l.Tag(), values[l]))
	}
	return strings.Join(lines, "\n")
}

// triageContract renders the triage output contract with its two worked examples.
func triageContract() string {
	labels := parser.TriageLabels
	placeholders := map[parser.Label]string{
		parser.LabelSpecialties:     "[Specialty1], [Specialty2], [Specialty3]",
		parser.LabelReasoning:       "[Brief explanation of why these specialties]",
		parser.LabelUrgency:         "[low|medium|high|emergency]",
		parser.LabelEmergencyAction: "[Call 911 immediately because... OR " + parser.NotApplicable + " if not emergency]",
	}
	examples := []contractExample{
		{
			input: "paper cut on finger",
			values: map[parser.Label]string{
				parser.LabelSpecialties:     "Primary Care, Urgent Care",
				parser.LabelReasoning:       "Minor wound can be treated by primary care or urgent care for cleaning and possible bandaging.",
				parser.LabelUrgency:         "low",
				parser.LabelEmergencyAction: parser.NotApplicable,
			},
		},
		{
			input: "crushing chest pain, left arm numbness, shortness of breath",
			values: map[parser.Label]string{
				parser.LabelSpecialties:     "Emergency Medicine, Cardiology",
				parser.LabelReasoning:       "These are classic signs of a possible heart attack requiring immediate emergency evaluation.",
				parser.LabelUrgency:         "emergency",
				parser.LabelEmergencyAction: "Call 911 immediately. Do not drive yourself. These symptoms suggest a possible heart attack.",
			},
		},
	}

	var sb strings.Builder
	sb.WriteString(renderTags(labels, placeholders))
	sb.WriteString("\n\nExamples:")
	for _, ex := range examples {
		sb.WriteString(fmt.Sprintf("\n\nInput: %q\n", ex.input))
		sb.WriteString(renderTags(labels, ex.values))
	}
	return sb.String()
}

// searchContract renders the semantic search output contract with its two worked examples.
func searchContract() string {
	labels := parser.SearchLabels
	placeholders := map[parser.Label]string{
		parser.LabelIntent:      "[One sentence describing what the patient needs]",
		parser.LabelKeyTerms:    "[term1], [term2], [term3]",
		parser.LabelSpecialties: "[Specialty1], [Specialty2], [Specialty3]",
	}
	examples := []contractExample{
		{
			input: "doctor for my knee pain from running",
			values: map[parser.Label]string{
				parser.LabelIntent:      "Patient has knee pain related to running/sports activity",
				parser.LabelKeyTerms:    "knee, pain, sports, orthopedic",
				parser.LabelSpecialties: "Orthopedics, Sports Medicine, Physical Medicine",
			},
		},
		{
			input: "someone to help with anxiety and stress",
			values: map[parser.Label]string{
				parser.LabelIntent:      "Patient seeking mental health support for anxiety",
				parser.LabelKeyTerms:    "anxiety, stress, mental health, therapy",
				parser.LabelSpecialties: "Psychiatry, Clinical Psychology, Counseling",
			},
		},
	}

	var sb strings.Builder
	sb.WriteString(renderTags(labels, placeholders))
	sb.WriteString("\n\nExamples:")
	for _, ex := range examples {
		sb.WriteString(fmt.Sprintf("\n- Query: %q\n", ex.input))
		for _, l := range labels {
			sb.WriteString(fmt.Sprintf("  %s %s\n", l.Tag(), ex.values[l]))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
