package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/providervault/ai-service/internal/domain/entities"
)

// AssistantTasks is the set of assistant operations served over HTTP
type AssistantTasks interface {
	DescribeSpecialty(ctx context.Context, specialty string) entities.DescribeResult
	RelatedSpecialties(ctx context.Context, specialty string, count int) entities.RelatedResult
	AnalyzeDistribution(ctx context.Context, specialty string, limit int) entities.DistributionResult
	TriageSymptoms(ctx context.Context, symptoms, location string) entities.TriageResult
	SemanticSearch(ctx context.Context, query string, limit int) entities.SearchResult
	FaqTurn(ctx context.Context, question string, history []entities.Turn) entities.FaqResult
}

// Request bounds
const (
	defaultRelatedCount = 3
	maxRelatedCount     = 10

	defaultAnalyzeLimit = 20
	maxAnalyzeLimit     = 100

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// AssistantHandler handles the assistant task endpoints
type AssistantHandler struct {
	assistant AssistantTasks
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant AssistantTasks) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type describeRequest struct {
	Specialty string `json:"specialty"`
}

type relatedRequest struct {
	Specialty string `json:"specialty"`
	Count     *int   `json:"count"`
}

type analyzeRequest struct {
	Specialty string `json:"specialty"`
	Limit     *int   `json:"limit"`
}

type triageRequest struct {
	Symptoms      string `json:"symptoms"`
	LocationState string `json:"location_state"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

type faqRequest struct {
	Question            string          `json:"question"`
	ConversationHistory []entities.Turn `json:"conversation_history"`
}

// DescribeSpecialty handles POST /api/specialty/describe
func (h *AssistantHandler) DescribeSpecialty(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	specialty, ok := requireText(w, "specialty", req.Specialty)
	if !ok {
		return
	}

	result := h.assistant.DescribeSpecialty(r.Context(), specialty)
	if result.Error != "" {
		respondWithError(w, http.StatusInternalServerError, result.Error)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// RelatedSpecialties handles POST /api/specialty/related
func (h *AssistantHandler) RelatedSpecialties(w http.ResponseWriter, r *http.Request) {
	var req relatedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	specialty, ok := requireText(w, "specialty", req.Specialty)
	if !ok {
		return
	}
	count, ok := boundedInt(w, "count", req.Count, defaultRelatedCount, maxRelatedCount)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.assistant.RelatedSpecialties(r.Context(), specialty, count))
}

// AnalyzeProviders handles POST /api/providers/analyze
func (h *AssistantHandler) AnalyzeProviders(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	specialty, ok := requireText(w, "specialty", req.Specialty)
	if !ok {
		return
	}
	limit, ok := boundedInt(w, "limit", req.Limit, defaultAnalyzeLimit, maxAnalyzeLimit)
	if !ok {
		return
	}

	result := h.assistant.AnalyzeDistribution(r.Context(), specialty, limit)
	switch {
	case result.Error != "":
		respondWithError(w, http.StatusInternalServerError, result.Error)
	case result.ProviderCount == 0:
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No providers found for specialty: %s", specialty))
	default:
		respondWithJSON(w, http.StatusOK, result)
	}
}

// RecommendBySymptoms handles POST /api/symptoms/recommend
func (h *AssistantHandler) RecommendBySymptoms(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	symptoms, ok := requireText(w, "symptoms", req.Symptoms)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.assistant.TriageSymptoms(r.Context(), symptoms, strings.TrimSpace(req.LocationState)))
}

// SemanticSearch handles POST /api/search
func (h *AssistantHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	query, ok := requireText(w, "query", req.Query)
	if !ok {
		return
	}
	limit, ok := boundedInt(w, "limit", req.Limit, defaultSearchLimit, maxSearchLimit)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.assistant.SemanticSearch(r.Context(), query, limit))
}

// Faq handles POST /api/faq. The caller owns the conversation history and
// sends it back with every turn.
func (h *AssistantHandler) Faq(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	question, ok := requireText(w, "question", req.Question)
	if !ok {
		return
	}
	for i, turn := range req.ConversationHistory {
		if turn.Role != entities.RoleUser && turn.Role != entities.RoleAssistant {
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("conversation_history[%d].role must be %q or %q", i, entities.RoleUser, entities.RoleAssistant))
			return
		}
	}

	respondWithJSON(w, http.StatusOK, h.assistant.FaqTurn(r.Context(), question, req.ConversationHistory))
}

func requireText(w http.ResponseWriter, field, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", field))
		return "", false
	}
	return value, true
}

func boundedInt(w http.ResponseWriter, field string, value *int, def, upper int) (int, bool) {
	if value == nil {
		return def, true
	}
	if *value < 1 || *value > upper {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s must be between 1 and %d", field, upper))
		return 0, false
	}
	return *value, true
}
