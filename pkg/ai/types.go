package ai

import "context"

// Message roles accepted by chat-completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged prompt entry.
type Message struct {
	Role    string
	Content string
}

// Completer describes a hosted chat-completion model.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}
