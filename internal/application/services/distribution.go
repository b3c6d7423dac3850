package services

import (
	"sort"

	"github.com/providervault/ai-service/internal/application/prompts"
	"github.com/providervault/ai-service/internal/domain/entities"
)

const unknownBucket = "Unknown"

// SummarizeProviders counts providers by specialty and by state, most common
// first. Ties keep first-seen order.
func SummarizeProviders(providers []entities.ProviderRecord) *prompts.DistributionSummary {
	summary := &prompts.DistributionSummary{
		TotalProviders: len(providers),
		BySpecialty:    []entities.SpecialtyCount{},
		ByState:        []entities.StateCount{},
	}

	specialtyIdx := make(map[string]int)
	stateIdx := make(map[string]int)
	for _, p := range providers {
		specialty := p.Specialty
		if specialty == "" {
			specialty = unknownBucket
		}
		if i, ok := specialtyIdx[specialty]; ok {
			summary.BySpecialty[i].ProviderCount++
		} else {
			specialtyIdx[specialty] = len(summary.BySpecialty)
			summary.BySpecialty = append(summary.BySpecialty, entities.SpecialtyCount{Specialty: specialty, ProviderCount: 1})
		}

		state := p.State
		if state == "" {
			state = unknownBucket
		}
		if i, ok := stateIdx[state]; ok {
			summary.ByState[i].ProviderCount++
		} else {
			stateIdx[state] = len(summary.ByState)
			summary.ByState = append(summary.ByState, entities.StateCount{State: state, ProviderCount: 1})
		}
	}

	sort.SliceStable(summary.BySpecialty, func(i, j int) bool {
		return summary.BySpecialty[i].ProviderCount > summary.BySpecialty[j].ProviderCount
	})
	sort.SliceStable(summary.ByState, func(i, j int) bool {
		return summary.ByState[i].ProviderCount > summary.ByState[j].ProviderCount
	})
	return summary
}
