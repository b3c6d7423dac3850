package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/providervault/ai-service/internal/application/parser"
	"github.com/providervault/ai-service/internal/application/prompts"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	"github.com/providervault/ai-service/pkg/config"
	"github.com/providervault/ai-service/pkg/retry"
)

const (
	DefaultRelatedCount      = 3
	DefaultDistributionLimit = 20
	DefaultSearchLimit       = 10

	maxFollowUpSuggestions = 3
	completionRetryDelay   = 500 * time.Millisecond
)

// AssistantService runs the assistant tasks: it builds the prompt, calls the
// completion capability, decodes the reply and enriches it with repository
// facts. Task methods never return an error; failures are reported in the
// result's Error field with the other fields left neutral.
type AssistantService struct {
	gateway   providers.CompletionProvider
	repo      repositories.ProviderRepository
	retrieval *RetrievalService
	prompts   *prompts.Builder
	urgency   *UrgencyClassifier
	retry     retry.Config
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	gateway providers.CompletionProvider,
	repo repositories.ProviderRepository,
	builder *prompts.Builder,
	cfg *config.CompletionConfig,
) *AssistantService {
	policy := retry.Once(completionRetryDelay, providers.IsTransientGatewayError)
	if cfg.RetryAttempts > 0 {
		policy.MaxAttempts = cfg.RetryAttempts
	}

	return &AssistantService{
		gateway:   gateway,
		repo:      repo,
		retrieval: NewRetrievalService(repo),
		prompts:   builder,
		urgency:   NewUrgencyClassifier(entities.UrgencyLevel(cfg.UrgencyFallback)),
		retry:     policy,
	}
}

// Execute dispatches req to the task method of its kind.
func (s *AssistantService) Execute(ctx context.Context, req entities.TaskRequest) any {
	switch req.Kind {
	case entities.TaskDescribe:
		return s.DescribeSpecialty(ctx, req.Subject)
	case entities.TaskRelatedSpecialties:
		return s.RelatedSpecialties(ctx, req.Subject, req.Count)
	case entities.TaskDistributionAnalysis:
		return s.AnalyzeDistribution(ctx, req.Subject, req.Limit)
	case entities.TaskSymptomTriage:
		return s.TriageSymptoms(ctx, req.Subject, req.Location)
	case entities.TaskSemanticSearch:
		return s.SemanticSearch(ctx, req.Subject, req.Limit)
	case entities.TaskFaqTurn:
		return s.FaqTurn(ctx, req.Subject, req.History)
	}
	return nil
}

// DescribeSpecialty generates a patient-friendly description of a specialty
func (s *AssistantService) DescribeSpecialty(ctx context.Context, specialty string) entities.DescribeResult {
	req := s.prompts.Build(entities.TaskDescribe, specialty, prompts.Params{})

	text, err := s.complete(ctx, entities.TaskDescribe, req, attribute.String("specialty", specialty))
	if err != nil {
		return entities.DescribeResult{
			Specialty: specialty,
			Error:     fmt.Sprintf("Error generating description: %v", err),
		}
	}

	return entities.DescribeResult{Specialty: specialty, Description: text}
}

// RelatedSpecialties suggests specialties that commonly receive referrals from specialty
func (s *AssistantService) RelatedSpecialties(ctx context.Context, specialty string, count int) entities.RelatedResult {
	if count <= 0 {
		count = DefaultRelatedCount
	}
	req := s.prompts.Build(entities.TaskRelatedSpecialties, specialty, prompts.Params{Count: count})

	text, err := s.complete(ctx, entities.TaskRelatedSpecialties, req, attribute.String("specialty", specialty))
	if err != nil {
		return entities.RelatedResult{
			Specialty:          specialty,
			RelatedSpecialties: []entities.RelatedSpecialty{},
			Error:              fmt.Sprintf("Error suggesting related specialties: %v", err),
		}
	}

	related := parser.ParseReferrals(text)
	if len(related) > count {
		related = related[:count]
	}
	return entities.RelatedResult{
		Specialty:          specialty,
		RelatedSpecialties: related,
	}
}

// AnalyzeDistribution analyzes the geographic and specialty spread of up to
// limit providers of specialty. A specialty without providers yields a zero
// ProviderCount and no completion call.
func (s *AssistantService) AnalyzeDistribution(ctx context.Context, specialty string, limit int) entities.DistributionResult {
	if limit <= 0 {
		limit = DefaultDistributionLimit
	}

	list, err := s.repo.ListBySpecialty(ctx, specialty, limit)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("specialty", specialty).
			Msg("Failed to load providers for distribution analysis")
		return entities.DistributionResult{
			Specialty: specialty,
			Error:     fmt.Sprintf("Error analyzing providers: %v", err),
		}
	}
	if len(list) == 0 {
		return entities.DistributionResult{Specialty: specialty, Analysis: "No providers to analyze."}
	}

	req := s.prompts.Build(entities.TaskDistributionAnalysis, specialty, prompts.Params{
		Distribution: SummarizeProviders(list),
	})

	text, err := s.complete(ctx, entities.TaskDistributionAnalysis, req, attribute.String("specialty", specialty))
	if err != nil {
		return entities.DistributionResult{
			Specialty:     specialty,
			ProviderCount: len(list),
			Error:         fmt.Sprintf("Error analyzing providers: %v", err),
		}
	}

	return entities.DistributionResult{
		Specialty:     specialty,
		ProviderCount: len(list),
		Analysis:      text,
	}
}

// TriageSymptoms recommends specialties and an urgency level for the described
// symptoms. When location is set, providers of the primary specialty in that
// region are attached.
func (s *AssistantService) TriageSymptoms(ctx context.Context, symptoms, location string) entities.TriageResult {
	req := s.prompts.Build(entities.TaskSymptomTriage, symptoms, prompts.Params{})

	text, err := s.complete(ctx, entities.TaskSymptomTriage, req)
	if err != nil {
		return entities.TriageResult{
			Symptoms:               symptoms,
			RecommendedSpecialties: []string{},
			UrgencyLevel:           entities.UrgencyUnknown,
			Disclaimer:             entities.TriageErrorDisclaimer,
			AvailableProviders:     []entities.ProviderRecord{},
			Error:                  fmt.Sprintf("Error processing symptoms: %v", err),
		}
	}

	fields := parser.ParseTags(text, parser.TriageLabels)
	specialties := fields.List(parser.LabelSpecialties)

	rawUrgency := fields.String(parser.LabelUrgency)
	level, action := s.urgency.Classify(rawUrgency, fields.String(parser.LabelEmergencyAction))

	logger := observability.LoggerFromContext(ctx)
	if !entities.UrgencyLevel(strings.ToLower(strings.TrimSpace(rawUrgency))).Valid() {
		logger.Warn().
			Str("raw_urgency", rawUrgency).
			Str("urgency", string(level)).
			Msg("Unrecognized urgency in triage reply, using fallback")
	}

	result := entities.TriageResult{
		Symptoms:               symptoms,
		RecommendedSpecialties: specialties,
		Reasoning:              fields.String(parser.LabelReasoning),
		UrgencyLevel:           level,
		EmergencyAction:        action,
		Disclaimer:             entities.TriageDisclaimer,
		AvailableProviders:     []entities.ProviderRecord{},
	}

	if location != "" && len(specialties) > 0 {
		found, err := s.retrieval.LookupProviders(ctx, specialties[0], location)
		if err != nil {
			logger.Warn().Err(err).
				Str("specialty", specialties[0]).
				Str("state", location).
				Msg("Provider lookup for triage failed")
			result.ProviderSearchError = err.Error()
		} else {
			result.AvailableProviders = found
			result.LocationChecked = location
		}
	}

	logger.Debug().
		Str("task", string(entities.TaskSymptomTriage)).
		Str("urgency", string(result.UrgencyLevel)).
		Int("providers", len(result.AvailableProviders)).
		Msg("Triage completed")

	return result
}

// SemanticSearch maps a natural-language query onto specialties and returns up
// to limit unique providers practicing them.
func (s *AssistantService) SemanticSearch(ctx context.Context, query string, limit int) entities.SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	req := s.prompts.Build(entities.TaskSemanticSearch, query, prompts.Params{})

	text, err := s.complete(ctx, entities.TaskSemanticSearch, req)
	if err != nil {
		return entities.SearchResult{
			Query:                  query,
			SearchTerms:            []string{},
			RecommendedSpecialties: []string{},
			Providers:              []entities.ProviderRecord{},
			Error:                  fmt.Sprintf("Error in semantic search: %v", err),
		}
	}

	fields := parser.ParseTags(text, parser.SearchLabels)
	specialties := fields.List(parser.LabelSpecialties)

	candidates := s.retrieval.SearchCandidates(ctx, specialties)
	logger := observability.LoggerFromContext(ctx)
	for _, f := range candidates.Failed(specialties) {
		logger.Warn().Err(f.Err).Str("specialty", f.Specialty).Msg("Skipping specialty in search")
	}

	found, total := MergeCandidates(candidates.Lists, limit)

	logger.Debug().
		Str("task", string(entities.TaskSemanticSearch)).
		Strs("specialties", specialties).
		Int("total_found", total).
		Msg("Search completed")

	return entities.SearchResult{
		Query:                  query,
		UnderstoodIntent:       fields.String(parser.LabelIntent),
		SearchTerms:            fields.List(parser.LabelKeyTerms),
		RecommendedSpecialties: specialties,
		Providers:              found,
		TotalFound:             total,
	}
}

// FaqTurn answers one question about the provider network, grounded in
// repository facts, and returns the advanced conversation history. The given
// history is not modified.
func (s *AssistantService) FaqTurn(ctx context.Context, question string, history []entities.Turn) entities.FaqResult {
	history = append([]entities.Turn{}, history...)
	logger := observability.LoggerFromContext(ctx)

	facts := s.retrieval.Ground(ctx, question)
	if facts.Error != "" {
		logger.Warn().Str("error", facts.Error).Msg("Grounding incomplete for FAQ turn")
	}

	req := s.prompts.Build(entities.TaskFaqTurn, question, prompts.Params{
		Grounding: &facts,
		History:   history,
	})

	answer, err := s.complete(ctx, entities.TaskFaqTurn, req)
	if err != nil {
		return entities.FaqResult{
			Answer:              fmt.Sprintf("I apologize, but I encountered an error: %v", err),
			DataRetrieved:       facts,
			FollowUpSuggestions: []string{},
			ConversationHistory: history,
			Error:               err.Error(),
		}
	}

	return entities.FaqResult{
		Answer:              answer,
		DataRetrieved:       facts,
		FollowUpSuggestions: s.followUps(ctx, question, answer),
		ConversationHistory: AdvanceConversation(history, question, answer),
	}
}

// followUps asks for follow-up questions to one exchange. A failed call only
// costs the suggestions.
func (s *AssistantService) followUps(ctx context.Context, question, answer string) []string {
	text, err := s.complete(ctx, entities.TaskFaqTurn, s.prompts.FollowUp(question, answer),
		attribute.Bool("follow_up", true))
	if err != nil {
		return []string{}
	}

	suggestions := parser.ParseBullets(text)
	if len(suggestions) > maxFollowUpSuggestions {
		suggestions = suggestions[:maxFollowUpSuggestions]
	}
	return suggestions
}

// complete runs one completion call with the retry policy and returns the
// trimmed reply.
func (s *AssistantService) complete(ctx context.Context, task entities.TaskKind, req entities.CompletionRequest, attrs ...attribute.KeyValue) (string, error) {
	ctx, span := observability.StartSpan(ctx, "assistant."+string(task))
	defer span.End()
	observability.SetSpanAttributes(span, append(attrs,
		attribute.String("task", string(task)),
		attribute.String("model", req.Model),
	)...)

	logger := observability.LoggerFromContext(ctx)

	var text string
	err := retry.DoWithLog(ctx, s.retry, "completion", func() error {
		var callErr error
		text, callErr = s.gateway.Complete(ctx, req)
		return callErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).
			Str("task", string(task)).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("Retrying completion call")
	})
	if err != nil {
		observability.RecordError(span, err)
		logger.Warn().Err(err).
			Str("task", string(task)).
			Str("model", req.Model).
			Msg("Completion call failed")
		return "", err
	}

	text = strings.TrimSpace(text)
	logger.Debug().
		Str("task", string(task)).
		Str("model", req.Model).
		Int("reply_length", len(text)).
		Msg("Completion call succeeded")
	return text, nil
}
