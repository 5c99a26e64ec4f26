package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tryleetpro/leetpro-api/internal/middleware"
	"github.com/tryleetpro/leetpro-api/internal/repository"
	"github.com/tryleetpro/leetpro-api/internal/service"
	"github.com/tryleetpro/leetpro-api/internal/utils"
)

// AnalysisHandler serves the rubric analysis of saved conversations.
type AnalysisHandler struct {
	conversations service.ConversationService
	logger        zerolog.Logger
}

// NewAnalysisHandler constructs an analysis handler.
func NewAnalysisHandler(conversations service.ConversationService, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		conversations: conversations,
		logger:        logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register wires the analysis route.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Get("/analysis/:conversation_id", h.analysis)
}

func (h *AnalysisHandler) analysis(c *fiber.Ctx) error {
	id := c.Params("conversation_id")

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))

	record, err := h.conversations.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "conversation not found")
		}

		h.logger.Error().Err(err).Str("conversation_id", id).Msg("analysis failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
	}

	return c.JSON(record)
}
