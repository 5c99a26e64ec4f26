package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tryleetpro/leetpro-api/internal/dto"
	"github.com/tryleetpro/leetpro-api/internal/models"
	"github.com/tryleetpro/leetpro-api/internal/repository"
	"github.com/tryleetpro/leetpro-api/pkg/ai"
	"github.com/tryleetpro/leetpro-api/pkg/speech"
)

// ChatService produces the interviewer's next reply for a conversation and
// renders it to a voice-over.
type ChatService interface {
	Chat(ctx context.Context, conversation models.Conversation) (dto.ChatResponse, error)
}

type chatService struct {
	completer   ai.Completer
	synthesizer speech.Synthesizer
	audio       repository.AudioRepository
	model       string
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewChatService constructs a chat service using the conversational reply model.
func NewChatService(completer ai.Completer, synthesizer speech.Synthesizer, audio repository.AudioRepository, model string, logger zerolog.Logger) ChatService {
	return &chatService{
		completer:   completer,
		synthesizer: synthesizer,
		audio:       audio,
		model:       model,
		logger:      logger.With().Str("component", "chat_service").Logger(),
		tracer:      otel.Tracer("github.com/tryleetpro/leetpro-api/internal/service/chat"),
	}
}

// Chat returns an empty-content response when the completion provider fails;
// synthesis and storage failures are logged but never block the reply.
func (s *chatService) Chat(parent context.Context, conversation models.Conversation) (dto.ChatResponse, error) {
	ctx, span := s.tracer.Start(parent, "chat.reply", trace.WithAttributes(
		attribute.String("model", s.model),
		attribute.Int("message_count", len(conversation.Messages)),
	))
	defer span.End()

	messages := make([]ai.Message, 0, len(conversation.Messages))
	for _, msg := range conversation.Messages {
		messages = append(messages, ai.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := s.completer.Complete(ctx, s.model, messages)
	if err != nil || reply == "" {
		if err != nil {
			s.logger.Warn().Err(err).Msg("chat completion failed")
			span.RecordError(err)
		}
		return dto.ChatResponse{Timestamp: time.Now().UTC()}, nil
	}

	voiceOverID := uuid.NewString()

	audio, err := s.synthesizer.Synthesize(ctx, speech.Normalize(reply))
	if err != nil {
		s.logger.Error().Err(err).Str("vo_id", voiceOverID).Msg("speech synthesis failed")
	} else if err := s.audio.SaveVoiceOver(ctx, voiceOverID, audio); err != nil {
		s.logger.Error().Err(err).Str("vo_id", voiceOverID).Msg("failed to store voice-over")
	}

	return dto.ChatResponse{
		Content:     reply,
		VoiceOverID: "vo/" + voiceOverID + ".wav",
		Timestamp:   time.Now().UTC(),
		ID:          voiceOverID,
	}, nil
}
