package services

import (
	"strings"

	"github.com/providervault/ai-service/internal/application/parser"
	"github.com/providervault/ai-service/internal/domain/entities"
)

// UrgencyClassifier normalizes the urgency and emergency action a triage
// completion reported. It never inspects the symptoms themselves.
type UrgencyClassifier struct {
	fallback entities.UrgencyLevel
}

// NewUrgencyClassifier creates a classifier that reports fallback for
// unrecognized urgency values. An invalid fallback is replaced by medium.
func NewUrgencyClassifier(fallback entities.UrgencyLevel) *UrgencyClassifier {
	if !fallback.Valid() {
		fallback = entities.UrgencyMedium
	}
	return &UrgencyClassifier{fallback: fallback}
}

// Fallback returns the level reported for unrecognized values.
func (c *UrgencyClassifier) Fallback() entities.UrgencyLevel {
	return c.fallback
}

// Classify maps rawUrgency onto one of the four urgency levels and returns the
// emergency action. The action is nil unless the level is high or emergency,
// and nil when it is empty or N/A.
func (c *UrgencyClassifier) Classify(rawUrgency, rawAction string) (entities.UrgencyLevel, *string) {
	level := entities.UrgencyLevel(strings.ToLower(strings.TrimSpace(rawUrgency)))
	if !level.Valid() {
		level = c.fallback
	}
	if level != entities.UrgencyHigh && level != entities.UrgencyEmergency {
		return level, nil
	}

	action := strings.TrimSpace(rawAction)
	if action == "" || strings.EqualFold(action, parser.NotApplicable) {
		return level, nil
	}
	return level, &action
}

var defaultUrgencyClassifier = NewUrgencyClassifier(entities.UrgencyMedium)

// ClassifyUrgency classifies with the default medium fallback.
func ClassifyUrgency(rawUrgency, rawAction string) (entities.UrgencyLevel, *string) {
	return defaultUrgencyClassifier.Classify(rawUrgency, rawAction)
}
