package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/entities"
)

func TestSummarizeProviders(t *testing.T) {
	list := []entities.ProviderRecord{
		{NPI: "1", Specialty: "Cardiology", State: "CA"},
		{NPI: "2", Specialty: "Cardiology", State: "TX"},
		{NPI: "3", Specialty: "Cardiology", State: "TX"},
		{NPI: "4", Specialty: "Pediatrics", State: ""},
	}

	summary := services.SummarizeProviders(list)

	assert.Equal(t, 4, summary.TotalProviders)
	assert.Equal(t, []entities.SpecialtyCount{
		{Specialty: "Cardiology", ProviderCount: 3},
		{Specialty: "Pediatrics", ProviderCount: 1},
	}, summary.BySpecialty)
	assert.Equal(t, []entities.StateCount{
		{State: "TX", ProviderCount: 2},
		{State: "CA", ProviderCount: 1},
		{State: "Unknown", ProviderCount: 1},
	}, summary.ByState)
}
