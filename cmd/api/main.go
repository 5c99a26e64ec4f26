package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tryleetpro/leetpro-api/internal/config"
	"github.com/tryleetpro/leetpro-api/internal/database"
	"github.com/tryleetpro/leetpro-api/internal/handler"
	"github.com/tryleetpro/leetpro-api/internal/middleware"
	"github.com/tryleetpro/leetpro-api/internal/repository"
	"github.com/tryleetpro/leetpro-api/internal/router"
	"github.com/tryleetpro/leetpro-api/internal/service"
	"github.com/tryleetpro/leetpro-api/pkg/ai"
	"github.com/tryleetpro/leetpro-api/pkg/speech"
)

// uploadBodyLimit leaves headroom above the 10 MB audio ceiling so oversized
// uploads reach the validation path and get a deliberate 413 instead of being
// cut off by the framework.
const uploadBodyLimit = 16 * 1024 * 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	conversationRepo, err := repository.NewFileConversationRepository(cfg.RecordsDir, logger)
	if err != nil {
		log.Fatalf("failed to create conversation repository: %v", err)
	}

	audioRepo, err := repository.NewFileAudioRepository(cfg.SpeechInputDir, cfg.VoiceOverDir, logger)
	if err != nil {
		log.Fatalf("failed to create audio repository: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	completer, err := ai.NewClient(ai.Config{
		APIKey:   cfg.OpenRouterAPIKey,
		BaseURL:  cfg.OpenRouterBaseURL,
		Referer:  cfg.SiteURL,
		AppTitle: cfg.SiteTitle,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("failed to create completion client: %v", err)
	}

	deepgram, err := speech.NewDeepgramClient(speech.DeepgramConfig{
		APIKey: cfg.DeepgramAPIKey,
		Voice:  cfg.TTSVoice,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create deepgram client: %v", err)
	}

	var synthesizer speech.Synthesizer = deepgram
	if cfg.TTSProvider == "rime" {
		rime, err := speech.NewRimeClient(speech.RimeConfig{
			APIKey: cfg.RimeAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create rime client: %v", err)
		}
		synthesizer = rime
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	analysisService := service.NewAnalysisService(completer, cfg.AnalysisModel, logger)
	conversationService := service.NewConversationService(conversationRepo, analysisService, redisClient, cfg.AnalysisCacheTTL, natsConn, cfg.EventSubject, logger)
	transcriptionService := service.NewTranscriptionService(deepgram, audioRepo, logger)
	chatService := service.NewChatService(completer, synthesizer, audioRepo, cfg.ChatModel, logger)

	transcribeHandler := handler.NewTranscribeHandler(transcriptionService, logger)
	chatHandler := handler.NewChatHandler(chatService, conversationService, validate, logger)
	analysisHandler := handler.NewAnalysisHandler(conversationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    uploadBodyLimit,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TranscribeHandler: transcribeHandler,
		ChatHandler:       chatHandler,
		AnalysisHandler:   analysisHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
