package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/providervault/ai-service/internal/application/loaders"
	"github.com/providervault/ai-service/internal/application/prompts"
	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/pkg/config"
	"github.com/providervault/ai-service/tests/mocks"
)

const (
	paperCutReply = `SPECIALTIES: Primary Care, Urgent Care
REASONING: Minor wound that can be cleaned and bandaged.
URGENCY: low
EMERGENCY_ACTION: N/A`

	chestPainReply = `SPECIALTIES: Emergency Medicine, Cardiology
REASONING: Classic signs of a possible heart attack.
URGENCY: emergency
EMERGENCY_ACTION: Call 911 immediately. Do not drive yourself.`

	memoryReply = `INTENT: Patient is looking for help with memory problems
KEY_TERMS: memory, dementia, cognitive decline
SPECIALTIES: Neurology, Psychiatry, Geriatric Medicine`
)

func newAssistant(t *testing.T) (*services.AssistantService, *mocks.MockCompletionProvider, *mocks.MockProviderRepository) {
	gateway := mocks.NewMockCompletionProvider(t)
	repo := mocks.NewMockProviderRepository(t)
	cfg := &config.CompletionConfig{
		Tasks:           config.DefaultSampling(),
		UrgencyFallback: string(entities.UrgencyMedium),
		RetryAttempts:   2,
	}
	svc := services.NewAssistantService(gateway, repo, prompts.NewBuilder("test-model", cfg), cfg)
	return svc, gateway, repo
}

func withMaxTokens(n int) interface{} {
	return mock.MatchedBy(func(req entities.CompletionRequest) bool { return req.MaxTokens == n })
}

func TestTriageSymptoms_PaperCut(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool {
		return req.Temperature == 0.3 && strings.Contains(req.Turns[1].Content, "paper cut on finger")
	})).Return(paperCutReply, nil).Once()

	result := svc.TriageSymptoms(context.Background(), "paper cut on finger", "")

	assert.Contains(t, []entities.UrgencyLevel{entities.UrgencyLow, entities.UrgencyMedium}, result.UrgencyLevel)
	assert.NotNil(t, result.AvailableProviders)
	assert.Empty(t, result.AvailableProviders)
	assert.Nil(t, result.EmergencyAction)
	assert.Equal(t, []string{"Primary Care", "Urgent Care"}, result.RecommendedSpecialties)
	assert.Equal(t, entities.TriageDisclaimer, result.Disclaimer)
	assert.Empty(t, result.LocationChecked)
	assert.Empty(t, result.Error)
}

func TestTriageSymptoms_ChestPain(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return(chestPainReply, nil).Once()

	result := svc.TriageSymptoms(context.Background(), "crushing chest pain, left arm numbness, shortness of breath", "")

	assert.Contains(t, []entities.UrgencyLevel{entities.UrgencyHigh, entities.UrgencyEmergency}, result.UrgencyLevel)
	require.NotNil(t, result.EmergencyAction)
	assert.Contains(t, *result.EmergencyAction, "911")
}

func TestTriageSymptoms_ActionDroppedBelowHigh(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("SPECIALTIES: Dermatology\nREASONING: Mild rash.\nURGENCY: low\nEMERGENCY_ACTION: None needed", nil).Once()

	result := svc.TriageSymptoms(context.Background(), "itchy rash on forearm", "")

	assert.Equal(t, entities.UrgencyLow, result.UrgencyLevel)
	assert.Nil(t, result.EmergencyAction)
}

func TestTriageSymptoms_WithLocation(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return(chestPainReply, nil).Once()
	repo.On("ListByState", mock.Anything, "TX", 50).Return([]entities.ProviderRecord{
		{NPI: "1", Specialty: "Cardiology"},
		{NPI: "2", Specialty: "emergency medicine"},
	}, nil)

	result := svc.TriageSymptoms(context.Background(), "chest pain", "TX")

	assert.Equal(t, "TX", result.LocationChecked)
	assert.Equal(t, []string{"2"}, npis(result.AvailableProviders))
	assert.Empty(t, result.ProviderSearchError)
}

func TestTriageSymptoms_LookupFailureIsNotFatal(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return(paperCutReply, nil).Once()
	repo.On("ListByState", mock.Anything, "CA", 50).Return(nil, errors.New("pool exhausted"))

	result := svc.TriageSymptoms(context.Background(), "paper cut", "CA")

	assert.Equal(t, entities.UrgencyLow, result.UrgencyLevel)
	assert.Equal(t, "pool exhausted", result.ProviderSearchError)
	assert.Empty(t, result.LocationChecked)
	assert.Empty(t, result.AvailableProviders)
	assert.Empty(t, result.Error)
}

func TestTriageSymptoms_GatewayFailure(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gwErr := &providers.GatewayError{Provider: "openai", Model: "test-model", StatusCode: http.StatusUnauthorized, Cause: errors.New("invalid api key")}
	gateway.On("Complete", mock.Anything, mock.Anything).Return("", gwErr).Once()

	result := svc.TriageSymptoms(context.Background(), "headache", "TX")

	assert.Equal(t, entities.UrgencyUnknown, result.UrgencyLevel)
	assert.Equal(t, entities.TriageErrorDisclaimer, result.Disclaimer)
	assert.Contains(t, result.Error, "Error processing symptoms")
	assert.Empty(t, result.RecommendedSpecialties)
	assert.Empty(t, result.AvailableProviders)
}

func TestTriageSymptoms_UnparseableReply(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return("I am not sure what you mean.", nil).Once()

	result := svc.TriageSymptoms(context.Background(), "???", "TX")

	assert.Equal(t, entities.UrgencyMedium, result.UrgencyLevel)
	assert.NotNil(t, result.RecommendedSpecialties)
	assert.Empty(t, result.RecommendedSpecialties)
	assert.Empty(t, result.LocationChecked)
	assert.Empty(t, result.Error)
}

func TestTriageSymptoms_RetriesTransientFailureOnce(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	unavailable := &providers.GatewayError{Provider: "openai", StatusCode: http.StatusServiceUnavailable, Cause: errors.New("overloaded")}
	gateway.On("Complete", mock.Anything, mock.Anything).Return("", unavailable).Once()
	gateway.On("Complete", mock.Anything, mock.Anything).Return(paperCutReply, nil).Once()

	result := svc.TriageSymptoms(context.Background(), "paper cut on finger", "")

	assert.Empty(t, result.Error)
	assert.Equal(t, entities.UrgencyLow, result.UrgencyLevel)
	gateway.AssertNumberOfCalls(t, "Complete", 2)
}

func TestSemanticSearch_MemoryProblems(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return(memoryReply, nil).Once()

	x1 := entities.ProviderRecord{NPI: "X1", Name: "Lee Chen", Specialty: "Neurology", State: "NY"}
	repo.On("ListBySpecialty", mock.Anything, "Neurology", loaders.SpecialtyCandidateLimit).
		Return([]entities.ProviderRecord{x1}, nil).Once()
	repo.On("ListBySpecialty", mock.Anything, "Psychiatry", loaders.SpecialtyCandidateLimit).
		Return([]entities.ProviderRecord{}, nil).Once()
	repo.On("ListBySpecialty", mock.Anything, "Geriatric Medicine", loaders.SpecialtyCandidateLimit).
		Return([]entities.ProviderRecord{}, nil).Once()

	result := svc.SemanticSearch(context.Background(), "memory problems", 10)

	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, []entities.ProviderRecord{x1}, result.Providers)
	assert.Equal(t, "Patient is looking for help with memory problems", result.UnderstoodIntent)
	assert.Equal(t, []string{"memory", "dementia", "cognitive decline"}, result.SearchTerms)
	assert.Equal(t, []string{"Neurology", "Psychiatry", "Geriatric Medicine"}, result.RecommendedSpecialties)
}

func TestSemanticSearch_DeduplicatesAndTruncates(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("SPECIALTIES: Neurology, Psychiatry", nil).Once()
	repo.On("ListBySpecialty", mock.Anything, "Neurology", loaders.SpecialtyCandidateLimit).
		Return(records("A", "B"), nil)
	repo.On("ListBySpecialty", mock.Anything, "Psychiatry", loaders.SpecialtyCandidateLimit).
		Return(records("B", "C"), nil)

	result := svc.SemanticSearch(context.Background(), "help", 2)

	assert.Equal(t, 3, result.TotalFound)
	assert.Equal(t, []string{"A", "B"}, npis(result.Providers))
}

func TestSemanticSearch_GatewayFailure(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("", &providers.GatewayError{Provider: "openai", StatusCode: http.StatusBadRequest, Cause: errors.New("bad request")}).Once()

	result := svc.SemanticSearch(context.Background(), "memory problems", 10)

	assert.Contains(t, result.Error, "Error in semantic search")
	assert.Zero(t, result.TotalFound)
	assert.NotNil(t, result.Providers)
	assert.NotNil(t, result.SearchTerms)
}

func TestFaqTurn_TwoTurnsCarryHistory(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	repo.On("Stats", mock.Anything).Return(&entities.NetworkStats{TotalProviders: 42}, nil)
	repo.On("ListSpecialties", mock.Anything).Return([]string{"Cardiology", "Dermatology"}, nil)

	gateway.On("Complete", mock.Anything, withMaxTokens(400)).Return("I am the Provider Vault assistant.", nil).Once()
	gateway.On("Complete", mock.Anything, withMaxTokens(150)).Return("- What specialties?\n- Which states?", nil).Once()
	gateway.On("Complete", mock.Anything, withMaxTokens(400)).Return("You're welcome.", nil).Once()
	gateway.On("Complete", mock.Anything, withMaxTokens(150)).Return("", &providers.GatewayError{Provider: "openai", StatusCode: http.StatusBadRequest, Cause: errors.New("bad")}).Once()

	first := svc.FaqTurn(context.Background(), "Who are you?", nil)
	require.Empty(t, first.Error)
	assert.Equal(t, []string{"What specialties?", "Which states?"}, first.FollowUpSuggestions)
	require.Len(t, first.ConversationHistory, 2)

	second := svc.FaqTurn(context.Background(), "Thanks, bye", first.ConversationHistory)
	require.Empty(t, second.Error)
	assert.Empty(t, second.FollowUpSuggestions)

	assert.Equal(t, []entities.Turn{
		{Role: entities.RoleUser, Content: "Who are you?"},
		{Role: entities.RoleAssistant, Content: "I am the Provider Vault assistant."},
		{Role: entities.RoleUser, Content: "Thanks, bye"},
		{Role: entities.RoleAssistant, Content: "You're welcome."},
	}, second.ConversationHistory)
	assert.Len(t, first.ConversationHistory, 2)
}

func TestFaqTurn_SendsHistoryBeforeQuestion(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	repo.On("Stats", mock.Anything).Return(&entities.NetworkStats{TotalProviders: 42}, nil)
	repo.On("ListSpecialties", mock.Anything).Return([]string{}, nil)

	prior := []entities.Turn{
		{Role: entities.RoleUser, Content: "Who are you?"},
		{Role: entities.RoleAssistant, Content: "An assistant."},
	}
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool {
		return req.MaxTokens == 400 && len(req.Turns) == 4 &&
			req.Turns[0].Role == entities.RoleSystem &&
			strings.Contains(req.Turns[0].Content, "Total Providers: 42") &&
			req.Turns[1] == prior[0] && req.Turns[2] == prior[1] &&
			req.Turns[3].Content == "Thanks"
	})).Return("Anytime.", nil).Once()
	gateway.On("Complete", mock.Anything, withMaxTokens(150)).Return("- a\n- b\n- c\n- d", nil).Once()

	result := svc.FaqTurn(context.Background(), "Thanks", prior)

	assert.Equal(t, []string{"a", "b", "c"}, result.FollowUpSuggestions)
}

func TestFaqTurn_GatewayFailureKeepsHistory(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	repo.On("Stats", mock.Anything).Return(nil, errors.New("db down"))
	gateway.On("Complete", mock.Anything, withMaxTokens(400)).
		Return("", &providers.GatewayError{Provider: "openai", StatusCode: http.StatusForbidden, Cause: errors.New("forbidden")}).Once()

	prior := []entities.Turn{{Role: entities.RoleUser, Content: "hi"}, {Role: entities.RoleAssistant, Content: "hello"}}
	result := svc.FaqTurn(context.Background(), "Who are you?", prior)

	assert.NotEmpty(t, result.Error)
	assert.True(t, strings.HasPrefix(result.Answer, "I apologize, but I encountered an error"))
	assert.Equal(t, prior, result.ConversationHistory)
	assert.Equal(t, "Database query error: db down", result.DataRetrieved.Error)
	assert.Empty(t, result.FollowUpSuggestions)
}

func TestDescribeSpecialty(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return("  Cardiologists care for the heart.  \n", nil).Once()

	result := svc.DescribeSpecialty(context.Background(), "Cardiology")

	assert.Equal(t, "Cardiology", result.Specialty)
	assert.Equal(t, "Cardiologists care for the heart.", result.Description)
	assert.Empty(t, result.Error)
}

func TestDescribeSpecialty_EmptyCompletion(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	empty := &providers.GatewayError{Provider: "openai", Cause: providers.ErrEmptyCompletion}
	gateway.On("Complete", mock.Anything, mock.Anything).Return("", empty).Once()

	result := svc.DescribeSpecialty(context.Background(), "Cardiology")

	assert.Contains(t, result.Error, "Error generating description")
	assert.Empty(t, result.Description)
}

func TestRelatedSpecialties(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool {
		return strings.Contains(req.Turns[1].Content, "suggest 3 related")
	})).Return("1. Cardiac Surgery: Performs bypass operations.\n2. Pulmonology: Shares patients with breathing issues.", nil).Once()

	result := svc.RelatedSpecialties(context.Background(), "Cardiology", 0)

	assert.Equal(t, []entities.RelatedSpecialty{
		{Specialty: "Cardiac Surgery", Reason: "Performs bypass operations."},
		{Specialty: "Pulmonology", Reason: "Shares patients with breathing issues."},
	}, result.RelatedSpecialties)
}

func TestRelatedSpecialties_CappedAtCount(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("1. A: a\n2. B: b\n3. C: c\n4. D: d\n5. E: e", nil).Once()

	result := svc.RelatedSpecialties(context.Background(), "Cardiology", 2)

	assert.Equal(t, []entities.RelatedSpecialty{
		{Specialty: "A", Reason: "a"},
		{Specialty: "B", Reason: "b"},
	}, result.RelatedSpecialties)
	assert.Empty(t, result.Error)
}

func TestAnalyzeDistribution(t *testing.T) {
	svc, gateway, repo := newAssistant(t)
	repo.On("ListBySpecialty", mock.Anything, "Cardiology", 20).Return([]entities.ProviderRecord{
		{NPI: "1", Specialty: "Cardiology", State: "TX"},
		{NPI: "2", Specialty: "Cardiology", State: "TX"},
	}, nil)
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool {
		return strings.Contains(req.Turns[1].Content, "  - TX: 2")
	})).Return("Coverage is concentrated in Texas.", nil).Once()

	result := svc.AnalyzeDistribution(context.Background(), "Cardiology", 0)

	assert.Equal(t, 2, result.ProviderCount)
	assert.Equal(t, "Coverage is concentrated in Texas.", result.Analysis)
}

func TestAnalyzeDistribution_NoProviders(t *testing.T) {
	svc, _, repo := newAssistant(t)
	repo.On("ListBySpecialty", mock.Anything, "Astrology", 5).Return([]entities.ProviderRecord{}, nil)

	result := svc.AnalyzeDistribution(context.Background(), "Astrology", 5)

	assert.Zero(t, result.ProviderCount)
	assert.Equal(t, "No providers to analyze.", result.Analysis)
}

func TestExecute_Dispatches(t *testing.T) {
	svc, gateway, _ := newAssistant(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return(paperCutReply, nil).Once()

	out := svc.Execute(context.Background(), entities.TaskRequest{Kind: entities.TaskSymptomTriage, Subject: "paper cut on finger"})

	result, ok := out.(entities.TriageResult)
	require.True(t, ok)
	assert.Equal(t, entities.UrgencyLow, result.UrgencyLevel)

	assert.Nil(t, svc.Execute(context.Background(), entities.TaskRequest{Kind: "unknown"}))
}
