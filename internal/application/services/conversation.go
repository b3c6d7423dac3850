package services

import "github.com/providervault/ai-service/internal/domain/entities"

// MaxConversationTurns bounds the history carried between FAQ exchanges.
const MaxConversationTurns = 10

// AdvanceConversation returns a new history: history followed by the user and
// assistant turns, keeping only the most recent MaxConversationTurns entries.
// The input slice is never modified.
func AdvanceConversation(history []entities.Turn, user, assistant string) []entities.Turn {
	next := make([]entities.Turn, 0, len(history)+2)
	next = append(next, history...)
	next = append(next,
		entities.Turn{Role: entities.RoleUser, Content: user},
		entities.Turn{Role: entities.RoleAssistant, Content: assistant},
	)

	if len(next) > MaxConversationTurns {
		next = next[len(next)-MaxConversationTurns:]
	}
	return next
}
