package gemini

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/pkg/config"
)

func TestBuildContents_SplitsSystemAndMapsRoles(t *testing.T) {
	req := entities.CompletionRequest{
		Turns: []entities.Turn{
			{Role: entities.RoleSystem, Content: "You are helpful."},
			{Role: entities.RoleUser, Content: "Who are you?"},
			{Role: entities.RoleAssistant, Content: "An assistant."},
			{Role: entities.RoleUser, Content: "Thanks"},
		},
		Temperature: 0.3,
		MaxTokens:   300,
	}

	contents, genCfg := buildContents(req)

	require.Len(t, contents, 3)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "Thanks", contents[2].Parts[0].Text)

	require.NotNil(t, genCfg.SystemInstruction)
	assert.Equal(t, "You are helpful.", genCfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, genCfg.Temperature)
	assert.InDelta(t, 0.3, *genCfg.Temperature, 1e-6)
	assert.Equal(t, int32(300), genCfg.MaxOutputTokens)
}

func TestBuildContents_NoSystemTurn(t *testing.T) {
	_, genCfg := buildContents(entities.CompletionRequest{
		Turns: []entities.Turn{{Role: entities.RoleUser, Content: "hi"}},
	})

	assert.Nil(t, genCfg.SystemInstruction)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 429, statusCode(fmt.Errorf("generate: %w", genai.APIError{Code: 429, Message: "quota"})))
	assert.Equal(t, 0, statusCode(context.DeadlineExceeded))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), &config.CompletionConfig{}, "")
	assert.Error(t, err)
}
