package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tryleetpro/leetpro-api/internal/config"
	"github.com/tryleetpro/leetpro-api/internal/handler"
	"github.com/tryleetpro/leetpro-api/internal/middleware"
	"github.com/tryleetpro/leetpro-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TranscribeHandler *handler.TranscribeHandler
	ChatHandler       *handler.ChatHandler
	AnalysisHandler   *handler.AnalysisHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck())
	app.Get("/metrics", observability.MetricsHandler())

	// Voice-over and speech-input WAVs are retrieved straight from disk.
	app.Static("/vo", cfg.VoiceOverDir)
	app.Static("/speech_in", cfg.SpeechInputDir)

	if deps.TranscribeHandler != nil {
		deps.TranscribeHandler.Register(app)
	}

	modelBacked := app.Group("", middleware.RateLimit("model", cfg.ChatRateLimit, time.Minute))

	if deps.ChatHandler != nil {
		deps.ChatHandler.Register(modelBacked)
	}

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.Register(modelBacked)
	}
}
