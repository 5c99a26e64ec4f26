package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tryleetpro/leetpro-api/internal/middleware"
	"github.com/tryleetpro/leetpro-api/internal/service"
	"github.com/tryleetpro/leetpro-api/internal/utils"
)

// TranscribeHandler handles speech-to-text uploads.
type TranscribeHandler struct {
	service service.TranscriptionService
	logger  zerolog.Logger
}

// NewTranscribeHandler constructs a transcribe handler.
func NewTranscribeHandler(service service.TranscriptionService, logger zerolog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		service: service,
		logger:  logger.With().Str("component", "transcribe_handler").Logger(),
	}
}

// Register wires the transcription route.
func (h *TranscribeHandler) Register(router fiber.Router) {
	router.Post("/transcribe", h.transcribe)
}

func (h *TranscribeHandler) transcribe(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))

	result, err := h.service.Transcribe(ctx, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedAudioType):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, service.ErrAudioTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		default:
			h.logger.Error().Err(err).Msg("transcription failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "transcription failed")
		}
	}

	return c.JSON(result)
}
