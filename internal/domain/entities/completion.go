package entities

// Role tags a turn of a conversation sent to the completion capability.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the full input of one completion call. It is built
// fresh for every call and not modified after dispatch.
type CompletionRequest struct {
	Turns       []Turn  `json:"turns"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// SystemPrompt returns the concatenated content of all system turns.
func (r CompletionRequest) SystemPrompt() string {
	var out string
	for _, t := range r.Turns {
		if t.Role != RoleSystem {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += t.Content
	}
	return out
}

// Conversation returns the non-system turns in order.
func (r CompletionRequest) Conversation() []Turn {
	turns := make([]Turn, 0, len(r.Turns))
	for _, t := range r.Turns {
		if t.Role != RoleSystem {
			turns = append(turns, t)
		}
	}
	return turns
}
