// Package prompts renders the task templates of the assistant into complete
// completion requests: a system turn fixing persona and safety posture, and a
// user turn embedding the subject and, for structured tasks, the output
// contract the parser package decodes.
package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/providervault/ai-service/internal/application/parser"
	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/pkg/config"
)

// maxGroundingSpecialties caps the specialty list rendered into the FAQ system prompt.
const maxGroundingSpecialties = 20

// DistributionSummary is the statistics block of a distribution analysis prompt.
type DistributionSummary struct {
	TotalProviders int
	BySpecialty    []entities.SpecialtyCount
	ByState        []entities.StateCount
}

// Params carries the task parameters that are not the subject itself.
type Params struct {
	// Count is the number of referral suggestions requested.
	Count int

	// Distribution is required for distribution analysis.
	Distribution *DistributionSummary

	// Grounding and History are used by FAQ turns.
	Grounding *entities.GroundingFacts
	History   []entities.Turn
}

// Builder builds completion requests with the configured model and per-task
// sampling parameters.
type Builder struct {
	model      string
	completion *config.CompletionConfig
}

// NewBuilder creates a prompt builder
func NewBuilder(model string, completion *config.CompletionConfig) *Builder {
	return &Builder{
		model:      model,
		completion: completion,
	}
}

// Build renders the template of kind for subject.
func (b *Builder) Build(kind entities.TaskKind, subject string, p Params) entities.CompletionRequest {
	switch kind {
	case entities.TaskDescribe:
		return b.request(config.TaskDescribe, describeSystemPrompt, fmt.Sprintf(describeUserTemplate, subject))
	case entities.TaskRelatedSpecialties:
		return b.request(config.TaskRelated, relatedSystemPrompt,
			fmt.Sprintf(relatedUserTemplate, subject, p.Count, parser.TagDelimiter, parser.TagDelimiter))
	case entities.TaskDistributionAnalysis:
		summary := p.Distribution
		if summary == nil {
			summary = &DistributionSummary{}
		}
		return b.request(config.TaskDistribution, distributionSystemPrompt,
			fmt.Sprintf(distributionUserTemplate, renderDistribution(summary)))
	case entities.TaskSymptomTriage:
		return b.request(config.TaskTriage, triageSystemPrompt,
			fmt.Sprintf(triageUserTemplate, subject, triageContract()))
	case entities.TaskSemanticSearch:
		return b.request(config.TaskSearch, searchSystemPrompt,
			fmt.Sprintf(searchUserTemplate, subject, searchContract()))
	case entities.TaskFaqTurn:
		return b.faq(subject, p.Grounding, p.History)
	}
	return b.request(config.TaskDescribe, describeSystemPrompt, subject)
}

// FollowUp builds the request asking for follow-up questions to one FAQ exchange.
func (b *Builder) FollowUp(question, answer string) entities.CompletionRequest {
	return b.request(config.TaskFollowUp, followUpSystemPrompt, fmt.Sprintf(followUpUserTemplate, question, answer))
}

func (b *Builder) request(task, system, user string) entities.CompletionRequest {
	s := b.completion.SamplingFor(task)
	return entities.CompletionRequest{
		Turns: []entities.Turn{
			{Role: entities.RoleSystem, Content: system},
			{Role: entities.RoleUser, Content: user},
		},
		Model:       b.model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

func (b *Builder) faq(question string, grounding *entities.GroundingFacts, history []entities.Turn) entities.CompletionRequest {
	s := b.completion.SamplingFor(config.TaskFaq)

	turns := make([]entities.Turn, 0, len(history)+2)
	turns = append(turns, entities.Turn{Role: entities.RoleSystem, Content: FaqSystemPrompt(grounding)})
	turns = append(turns, history...)
	turns = append(turns, entities.Turn{Role: entities.RoleUser, Content: question})

	return entities.CompletionRequest{
		Turns:       turns,
		Model:       b.model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}

// FaqSystemPrompt renders the FAQ persona with the grounding facts folded in.
// Missing statistics render as N/A.
func FaqSystemPrompt(g *entities.GroundingFacts) string {
	if g == nil {
		g = &entities.GroundingFacts{}
	}

	total, specialties, states := parser.NotApplicable, parser.NotApplicable, parser.NotApplicable
	if g.NetworkStats != nil {
		total = strconv.Itoa(g.NetworkStats.TotalProviders)
		specialties = strconv.Itoa(g.NetworkStats.TotalSpecialties)
		states = strconv.Itoa(g.NetworkStats.TotalStates)
	}

	listed := g.AvailableSpecialties
	if len(listed) > maxGroundingSpecialties {
		listed = listed[:maxGroundingSpecialties]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(faqSystemTemplate, total, specialties, states, strings.Join(listed, ", ")))

	if sp := g.SpecialtyProviders; sp != nil {
		sb.WriteString("\n\nRELEVANT DATA FOR THIS QUESTION:\n")
		sb.WriteString(fmt.Sprintf("We have %d %s providers in our network.\n", sp.Count, sp.Specialty))
		if len(sp.SampleProviders) > 0 {
			samples := make([]string, 0, len(sp.SampleProviders))
			for _, p := range sp.SampleProviders {
				samples = append(samples, fmt.Sprintf("Dr. %s (%s, %s)", p.Name, p.City, p.State))
			}
			sb.WriteString("Sample providers: ")
			sb.WriteString(strings.Join(samples, ", "))
		}
	}

	if sd := g.StateData; sd != nil {
		sb.WriteString("\n\nLOCATION DATA:\n")
		sb.WriteString(fmt.Sprintf("We have %d providers in %s.", sd.ProviderCount, sd.State))
	}

	return sb.String()
}

func renderDistribution(s *DistributionSummary) string {
	var sb strings.Builder
	sb.WriteString("Provider Dataset Analysis:\n\n")
	sb.WriteString(fmt.Sprintf("Total Providers: %d\n\n", s.TotalProviders))

	sb.WriteString("Specialty Distribution:\n")
	for _, c := range s.BySpecialty {
		sb.WriteString(fmt.Sprintf("  - %s: %d\n", c.Specialty, c.ProviderCount))
	}

	sb.WriteString("\nGeographic Distribution (by state):\n")
	for i, c := range s.ByState {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("  - %s: %d", c.State, c.ProviderCount))
	}
	return sb.String()
}
