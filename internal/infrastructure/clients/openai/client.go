package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/providers"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	"github.com/providervault/ai-service/pkg/config"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Client implements providers.CompletionProvider over the OpenAI Responses API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.CompletionConfig, opts ...Option) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the default model of the client.
func (c *Client) Model() string {
	return c.model
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type requestPayload struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens,omitempty"`
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// Complete sends the conversation and returns the first output text. Every
// failure is returned as a *providers.GatewayError.
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

	payload := requestPayload{
		Model:           model,
		Input:           make([]inputMessage, 0, len(req.Turns)),
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	for _, turn := range req.Turns {
		payload.Input = append(payload.Input, inputMessage{Role: string(turn.Role), Content: turn.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fail(0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fail(0, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordCompletionMetric(ctx, providerName, model, 0, time.Since(start), err)
		return "", fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("openai request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
		observability.RecordCompletionMetric(ctx, providerName, model, resp.StatusCode, time.Since(start), statusErr)
		return "", fail(resp.StatusCode, statusErr)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		observability.RecordCompletionMetric(ctx, providerName, model, resp.StatusCode, time.Since(start), err)
		return "", fail(0, fmt.Errorf("decode openai response: %w", err))
	}

	text := firstOutputText(envelope)
	if text == "" {
		observability.RecordCompletionMetric(ctx, providerName, model, resp.StatusCode, time.Since(start), providers.ErrEmptyCompletion)
		return "", fail(0, providers.ErrEmptyCompletion)
	}

	observability.RecordCompletionMetric(ctx, providerName, model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func firstOutputText(envelope responseEnvelope) string {
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text
			}
		}
	}
	return ""
}

// newLimiter returns a limiter allowing rpm requests per minute with the given
// burst. A zero rpm means 60; a negative rpm disables limiting.
func newLimiter(rpm int, burst int) *rate.Limiter {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}
