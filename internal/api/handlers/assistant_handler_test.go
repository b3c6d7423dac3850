package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/providervault/ai-service/internal/api/handlers"
	"github.com/providervault/ai-service/internal/application/prompts"
	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/pkg/config"
	"github.com/providervault/ai-service/tests/mocks"
)

func newAssistantHandler(t *testing.T) (*handlers.AssistantHandler, *mocks.MockCompletionProvider, *mocks.MockProviderRepository) {
	t.Helper()
	gateway := mocks.NewMockCompletionProvider(t)
	repo := mocks.NewMockProviderRepository(t)
	cfg := &config.CompletionConfig{Tasks: config.DefaultSampling(), UrgencyFallback: "medium", RetryAttempts: 1}
	svc := services.NewAssistantService(gateway, repo, prompts.NewBuilder("test-model", cfg), cfg)
	return handlers.NewAssistantHandler(svc), gateway, repo
}

func post(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAssistantHandler_Validation(t *testing.T) {
	h, _, _ := newAssistantHandler(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		want    string
	}{
		{"empty body", h.DescribeSpecialty, ``, "request body is required"},
		{"malformed", h.DescribeSpecialty, `{"specialty":`, "invalid request body"},
		{"unknown field", h.DescribeSpecialty, `{"specialty":"Cardiology","extra":1}`, "invalid request body"},
		{"blank specialty", h.DescribeSpecialty, `{"specialty":"   "}`, "specialty is required"},
		{"count too high", h.RelatedSpecialties, `{"specialty":"Cardiology","count":11}`, "count must be between 1 and 10"},
		{"count zero", h.RelatedSpecialties, `{"specialty":"Cardiology","count":0}`, "count must be between 1 and 10"},
		{"analyze limit", h.AnalyzeProviders, `{"specialty":"Cardiology","limit":101}`, "limit must be between 1 and 100"},
		{"search limit", h.SemanticSearch, `{"query":"knee pain","limit":51}`, "limit must be between 1 and 50"},
		{"missing symptoms", h.RecommendBySymptoms, `{"location_state":"TX"}`, "symptoms is required"},
		{"missing question", h.Faq, `{}`, "question is required"},
		{"system turn in history", h.Faq, `{"question":"hi","conversation_history":[{"role":"system","content":"x"}]}`, "conversation_history[0].role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, tt.handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["error"], tt.want)
		})
	}
}

func TestAssistantHandler_DescribeSpecialty(t *testing.T) {
	h, gateway, _ := newAssistantHandler(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return("Heart doctors.", nil).Once()

	rec := post(t, h.DescribeSpecialty, `{"specialty":"Cardiology"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"specialty":"Cardiology","description":"Heart doctors."}`, rec.Body.String())
}

func TestAssistantHandler_DescribeSpecialtyFailureIs500(t *testing.T) {
	h, gateway, _ := newAssistantHandler(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("", &providers.GatewayError{Provider: "openai", StatusCode: http.StatusUnauthorized, Cause: errors.New("bad key")}).Once()

	rec := post(t, h.DescribeSpecialty, `{"specialty":"Cardiology"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(decodeBody(t, rec)["error"].(string), "Error generating description"))
}

func TestAssistantHandler_RelatedDefaultsCount(t *testing.T) {
	h, gateway, _ := newAssistantHandler(t)
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool {
		return strings.Contains(req.Turns[1].Content, "suggest 3 related")
	})).Return("1. Pulmonology: Lungs.", nil).Once()

	rec := post(t, h.RelatedSpecialties, `{"specialty":"Cardiology"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"specialty":"Cardiology","related_specialties":[{"specialty":"Pulmonology","reason":"Lungs."}]}`, rec.Body.String())
}

func TestAssistantHandler_AnalyzeNoProvidersIs404(t *testing.T) {
	h, _, repo := newAssistantHandler(t)
	repo.On("ListBySpecialty", mock.Anything, "Astrology", 20).Return([]entities.ProviderRecord{}, nil).Once()

	rec := post(t, h.AnalyzeProviders, `{"specialty":"Astrology"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No providers found for specialty: Astrology", decodeBody(t, rec)["error"])
}

func TestAssistantHandler_AnalyzeRepositoryFailureIs500(t *testing.T) {
	h, _, repo := newAssistantHandler(t)
	repo.On("ListBySpecialty", mock.Anything, "Cardiology", 5).Return(nil, errors.New("db down")).Once()

	rec := post(t, h.AnalyzeProviders, `{"specialty":"Cardiology","limit":5}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAssistantHandler_RecommendBySymptoms(t *testing.T) {
	h, gateway, repo := newAssistantHandler(t)
	gateway.On("Complete", mock.Anything, mock.Anything).
		Return("SPECIALTIES: Cardiology\nREASONING: Heart.\nURGENCY: high\nEMERGENCY_ACTION: N/A", nil).Once()
	repo.On("ListByState", mock.Anything, "TX", 50).Return([]entities.ProviderRecord{{NPI: "1", Specialty: "Cardiology", State: "TX"}}, nil).Once()

	rec := post(t, h.RecommendBySymptoms, `{"symptoms":"palpitations","location_state":" TX "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "palpitations", body["symptoms"])
	assert.Equal(t, "high", body["urgency_level"])
	assert.Nil(t, body["emergency_action"])
	assert.Equal(t, "TX", body["location_checked"])
	assert.Len(t, body["available_providers"], 1)
}

func TestAssistantHandler_SemanticSearchEmptyListsRenderAsArrays(t *testing.T) {
	h, gateway, _ := newAssistantHandler(t)
	gateway.On("Complete", mock.Anything, mock.Anything).Return("INTENT: unclear", nil).Once()

	rec := post(t, h.SemanticSearch, `{"query":"???"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{}, body["providers"])
	assert.Equal(t, []interface{}{}, body["search_terms"])
	assert.Equal(t, []interface{}{}, body["recommended_specialties"])
	assert.EqualValues(t, 0, body["total_found"])
}

func TestAssistantHandler_FaqCarriesHistory(t *testing.T) {
	h, gateway, repo := newAssistantHandler(t)
	repo.On("Stats", mock.Anything).Return(&entities.NetworkStats{TotalProviders: 5}, nil)
	repo.On("ListSpecialties", mock.Anything).Return([]string{}, nil)
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool { return req.MaxTokens == 400 })).
		Return("Glad to help.", nil).Once()
	gateway.On("Complete", mock.Anything, mock.MatchedBy(func(req entities.CompletionRequest) bool { return req.MaxTokens == 150 })).
		Return("- How many states?", nil).Once()

	rec := post(t, h.Faq, `{"question":"Thanks","conversation_history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result entities.FaqResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Glad to help.", result.Answer)
	assert.Len(t, result.ConversationHistory, 4)
	assert.Equal(t, []string{"How many states?"}, result.FollowUpSuggestions)
}
