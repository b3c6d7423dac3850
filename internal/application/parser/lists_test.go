package parser_test

import (
	"testing"

	"github.com/providervault/ai-service/internal/application/parser"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestParseReferrals(t *testing.T) {
	reply := `Here are some related specialties:
1. Cardiac Surgery: Performs surgical procedures for heart conditions that cardiologists diagnose.
2) Vascular Surgery: Treats blood vessel conditions: arteries and veins.
- Internal Medicine: Provides primary care and often refers patients to cardiologists.
3. Pulmonology without a reason
Nephrology: not numbered, ignored`

	got := parser.ParseReferrals(reply)

	assert.Equal(t, []entities.RelatedSpecialty{
		{Specialty: "Cardiac Surgery", Reason: "Performs surgical procedures for heart conditions that cardiologists diagnose."},
		{Specialty: "Vascular Surgery", Reason: "Treats blood vessel conditions: arteries and veins."},
		{Specialty: "Internal Medicine", Reason: "Provides primary care and often refers patients to cardiologists."},
	}, got)
}

func TestParseReferrals_Empty(t *testing.T) {
	got := parser.ParseReferrals("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseBullets(t *testing.T) {
	reply := `Here are some follow-up questions:
- Which cities have cardiologists?
• Do you have pediatric cardiologists?
-   How do I book an appointment?
-
1. Not a bullet`

	assert.Equal(t, []string{
		"Which cities have cardiologists?",
		"Do you have pediatric cardiologists?",
		"How do I book an appointment?",
	}, parser.ParseBullets(reply))
}
