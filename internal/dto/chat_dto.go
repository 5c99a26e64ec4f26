package dto

import (
	"time"

	"github.com/tryleetpro/leetpro-api/internal/models"
)

// MessagePayload mirrors models.Message on the request side.
type MessagePayload struct {
	Role      string     `json:"role" validate:"required,oneof=user assistant system"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	ID        string     `json:"id,omitempty"`
}

// ConversationPayload wraps the ordered message list submitted by clients.
// An empty message list is valid.
type ConversationPayload struct {
	Messages []MessagePayload `json:"messages" validate:"dive"`
}

// ToModel converts the payload into the domain conversation type.
func (p ConversationPayload) ToModel() models.Conversation {
	messages := make([]models.Message, 0, len(p.Messages))
	for _, msg := range p.Messages {
		messages = append(messages, models.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			ID:        msg.ID,
		})
	}

	return models.Conversation{Messages: messages}
}

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	Conversation ConversationPayload `json:"conversation"`
}

// ChatResponse is returned by POST /chat. VoiceOverID is the relative path of
// the rendered voice-over, e.g. "vo/<id>.wav", and is empty when the upstream
// completion failed.
type ChatResponse struct {
	Content     string    `json:"content"`
	VoiceOverID string    `json:"vo_id"`
	Timestamp   time.Time `json:"timestamp"`
	ID          string    `json:"id"`
}

// SaveChatRequest is the body for POST /chat/save.
type SaveChatRequest struct {
	Conversation ConversationPayload `json:"conversation"`
}

// SaveChatResponse carries the generated identifier of a persisted conversation.
type SaveChatResponse struct {
	ConversationID string `json:"conversation_id"`
}

// TranscribeResponse is returned by POST /transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}
