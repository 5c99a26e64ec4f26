package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tryleetpro/leetpro-api/internal/dto"
	"github.com/tryleetpro/leetpro-api/internal/middleware"
	"github.com/tryleetpro/leetpro-api/internal/service"
	"github.com/tryleetpro/leetpro-api/internal/utils"
)

// ChatHandler wires the conversational reply and save endpoints.
type ChatHandler struct {
	chat          service.ChatService
	conversations service.ConversationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(chat service.ChatService, conversations service.ConversationService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:          chat,
		conversations: conversations,
		validator:     validate,
		logger:        logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.reply)
	router.Post("/chat/save", h.save)
}

func (h *ChatHandler) reply(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.chat.Chat(h.requestContext(c), req.Conversation.ToModel())
	if err != nil {
		h.logger.Error().Err(err).Msg("chat reply failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "chat failed")
	}

	return c.JSON(response)
}

func (h *ChatHandler) save(c *fiber.Ctx) error {
	var req dto.SaveChatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id, err := h.conversations.Save(h.requestContext(c), req.Conversation.ToModel())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to save conversation")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save conversation")
	}

	return c.JSON(dto.SaveChatResponse{ConversationID: id})
}

func (h *ChatHandler) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}
