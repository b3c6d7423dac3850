package entities

// UrgencyLevel describes how quickly a patient should seek care
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"

	// UrgencyUnknown is only reported on triage results whose completion failed.
	UrgencyUnknown UrgencyLevel = "unknown"
)

// UrgencyLevels lists the valid levels in ascending severity.
var UrgencyLevels = []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency}

// Valid reports whether u is one of the four urgency levels.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}
