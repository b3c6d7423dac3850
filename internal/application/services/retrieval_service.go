package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/providervault/ai-service/internal/application/loaders"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/repositories"
)

const (
	triageStateLimit  = 50
	triageSampleLimit = 5

	groundingSpecialtyLimit = 10
	groundingSampleLimit    = 3
	groundingStateLimit     = 50
)

// groundingRegions is the fixed shortlist of regions an FAQ question is scanned for.
var groundingRegions = []string{"CA", "TX", "NY", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}

// RetrievalService fetches the repository facts that enrich assistant results
// and ground FAQ prompts. Lookups are best effort: failures are returned to the
// caller, which records them next to the result instead of failing the task.
type RetrievalService struct {
	repo repositories.ProviderRepository
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(repo repositories.ProviderRepository) *RetrievalService {
	return &RetrievalService{repo: repo}
}

// LookupProviders returns up to five providers in state whose specialty equals
// specialty, ignoring case. Only the first providers listed for the state are
// considered.
func (s *RetrievalService) LookupProviders(ctx context.Context, specialty, state string) ([]entities.ProviderRecord, error) {
	inState, err := s.repo.ListByState(ctx, state, triageStateLimit)
	if err != nil {
		return []entities.ProviderRecord{}, err
	}

	matching := []entities.ProviderRecord{}
	for _, p := range inState {
		if strings.EqualFold(p.Specialty, specialty) {
			matching = append(matching, p)
			if len(matching) == triageSampleLimit {
				break
			}
		}
	}
	return matching, nil
}

// CandidateLists holds the providers found for each searched specialty, in
// specialty order. Errors is aligned with Lists; a failed specialty has a nil
// list and a non-nil error.
type CandidateLists struct {
	Lists  [][]entities.ProviderRecord
	Errors []error
}

// SpecialtyFailure is one failed specialty lookup.
type SpecialtyFailure struct {
	Specialty string
	Err       error
}

// Failed returns the failed lookups in specialty order. A repeated specialty
// appears once per position.
func (c CandidateLists) Failed(specialties []string) []SpecialtyFailure {
	failed := []SpecialtyFailure{}
	for i, err := range c.Errors {
		if err != nil && i < len(specialties) {
			failed = append(failed, SpecialtyFailure{Specialty: specialties[i], Err: err})
		}
	}
	return failed
}

// SearchCandidates loads up to loaders.SpecialtyCandidateLimit providers for
// each specialty through the request's loaders, fetching the specialties
// concurrently.
func (s *RetrievalService) SearchCandidates(ctx context.Context, specialties []string) CandidateLists {
	out := CandidateLists{
		Lists:  make([][]entities.ProviderRecord, len(specialties)),
		Errors: make([]error, len(specialties)),
	}
	if len(specialties) == 0 {
		return out
	}

	ldrs := loaders.For(ctx)
	if ldrs == nil {
		ldrs = loaders.NewLoaders(s.repo)
	}

	lists, errs := ldrs.SpecialtyLoader.LoadMany(ctx, specialties)()
	for i := range specialties {
		if i < len(errs) && errs[i] != nil {
			out.Errors[i] = errs[i]
			continue
		}
		if i < len(lists) {
			out.Lists[i] = lists[i]
		}
	}
	return out
}

// Ground gathers the facts an FAQ prompt is built on: network statistics, the
// specialty list, the first specialty named in the question and the first
// shortlisted region mentioned in it. The first failing query stops the scan;
// facts gathered before it are kept and the failure is recorded in Error.
func (s *RetrievalService) Ground(ctx context.Context, question string) entities.GroundingFacts {
	facts := entities.GroundingFacts{}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		facts.Error = groundingError(err)
		return facts
	}
	facts.NetworkStats = stats

	specialties, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		facts.Error = groundingError(err)
		return facts
	}
	facts.AvailableSpecialties = specialties

	questionLower := strings.ToLower(question)

	if specialty, ok := mentionedSpecialty(questionLower, specialties); ok {
		providers, err := s.repo.ListBySpecialty(ctx, specialty, groundingSpecialtyLimit)
		if err != nil {
			facts.Error = groundingError(err)
			return facts
		}
		samples := providers
		if len(samples) > groundingSampleLimit {
			samples = samples[:groundingSampleLimit]
		}
		facts.SpecialtyProviders = &entities.SpecialtyProviders{
			Specialty:       specialty,
			Count:           len(providers),
			SampleProviders: append([]entities.ProviderRecord{}, samples...),
		}
	}

	if state, ok := mentionedRegion(questionLower); ok {
		providers, err := s.repo.ListByState(ctx, state, groundingStateLimit)
		if err != nil {
			facts.Error = groundingError(err)
			return facts
		}
		facts.StateData = &entities.StateData{State: state, ProviderCount: len(providers)}
	}

	return facts
}

// mentionedSpecialty returns the first specialty, in list order, whose
// lowercased name is contained in questionLower.
func mentionedSpecialty(questionLower string, specialties []string) (string, bool) {
	for _, specialty := range specialties {
		if specialty == "" {
			continue
		}
		if strings.Contains(questionLower, strings.ToLower(specialty)) {
			return specialty, true
		}
	}
	return "", false
}

// mentionedRegion returns the first shortlisted region whose lowercased code is
// contained in questionLower. Codes also match inside words ("ca" in
// "cardiology").
func mentionedRegion(questionLower string) (string, bool) {
	for _, state := range groundingRegions {
		if strings.Contains(questionLower, strings.ToLower(state)) {
			return state, true
		}
	}
	return "", false
}

func groundingError(err error) string {
	return fmt.Sprintf("Database query error: %v", err)
}
