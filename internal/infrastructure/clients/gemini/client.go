package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	"github.com/providervault/ai-service/pkg/config"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"
)

// Client implements providers.CompletionProvider over the Gemini API.
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient creates a new Gemini client. baseURL overrides the API endpoint
// when non-empty.
func NewClient(ctx context.Context, cfg *config.CompletionConfig, baseURL string) (*Client, error) {
	if cfg == nil || cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	cli, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, err
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPM >= 0 {
		rpm, burst := cfg.RateLimitRPM, cfg.RateLimitBurst
		if rpm == 0 {
			rpm = 60
		}
		if burst <= 0 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
	}

	return &Client{cli: cli, model: model, timeout: timeout, limiter: limiter}, nil
}

// Model returns the default model of the client.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the conversation and returns the reply text. System turns
// become the system instruction; assistant turns are sent with the model role.
func (c *Client) Complete(ctx context.Context, req entities.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	fail := func(status int, cause error) error {
		return &providers.GatewayError{Provider: providerName, Model: model, StatusCode: status, Cause: cause}
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			observability.RecordCompletionMetric(ctx, providerName, model, 0, 0, err)
			return "", fail(0, err)
		}
		observability.RecordCompletionRateLimitWait(ctx, providerName, model, time.Since(waitStart))
	}

	contents, genCfg := buildContents(req)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.cli.Models.GenerateContent(callCtx, model, contents, genCfg)
	if err != nil {
		status := statusCode(err)
		observability.RecordCompletionMetric(ctx, providerName, model, status, time.Since(start), err)
		return "", fail(status, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		observability.RecordCompletionMetric(ctx, providerName, model, 0, time.Since(start), providers.ErrEmptyCompletion)
		return "", fail(0, providers.ErrEmptyCompletion)
	}

	observability.RecordCompletionMetric(ctx, providerName, model, 0, time.Since(start), nil)
	return text, nil
}

func buildContents(req entities.CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if system := req.SystemPrompt(); system != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	conversation := req.Conversation()
	contents := make([]*genai.Content, 0, len(conversation))
	for _, turn := range conversation {
		role := genai.RoleUser
		if turn.Role == entities.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, genai.Role(role)))
	}
	return contents, genCfg
}

func statusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
