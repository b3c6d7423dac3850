package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/providervault/ai-service/internal/application/services"
	"github.com/providervault/ai-service/internal/domain/entities"
)

func sampleTurns(n int) []entities.Turn {
	turns := make([]entities.Turn, 0, n)
	for i := 0; i < n; i++ {
		role := entities.RoleUser
		if i%2 == 1 {
			role = entities.RoleAssistant
		}
		turns = append(turns, entities.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return turns
}

func TestAdvanceConversation_Window(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 8, 9, 10, 11, 30} {
		t.Run(fmt.Sprintf("history of %d", n), func(t *testing.T) {
			next := services.AdvanceConversation(sampleTurns(n), "question", "answer")

			require.LessOrEqual(t, len(next), services.MaxConversationTurns)
			require.GreaterOrEqual(t, len(next), 2)
			assert.Equal(t, entities.Turn{Role: entities.RoleUser, Content: "question"}, next[len(next)-2])
			assert.Equal(t, entities.Turn{Role: entities.RoleAssistant, Content: "answer"}, next[len(next)-1])
		})
	}
}

func TestAdvanceConversation_DropsOldestTurns(t *testing.T) {
	next := services.AdvanceConversation(sampleTurns(10), "q", "a")

	require.Len(t, next, 10)
	assert.Equal(t, "turn 2", next[0].Content)
}

func TestAdvanceConversation_DoesNotModifyInput(t *testing.T) {
	in := make([]entities.Turn, 2, 4)
	copy(in, sampleTurns(2))
	before := append([]entities.Turn{}, in...)

	next := services.AdvanceConversation(in, "q", "a")
	next[0].Content = "changed"

	assert.Equal(t, before, in)
	assert.Equal(t, "turn 0", in[0].Content)
}
