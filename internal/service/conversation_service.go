package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tryleetpro/leetpro-api/internal/models"
	"github.com/tryleetpro/leetpro-api/internal/observability"
	"github.com/tryleetpro/leetpro-api/internal/repository"
)

// ConversationService persists conversations and produces their analysis on
// demand, memoizing the result into the stored record.
type ConversationService interface {
	Save(ctx context.Context, conversation models.Conversation) (string, error)
	GetAnalysis(ctx context.Context, id string) (models.ConversationOverallAnalysis, error)
}

type conversationService struct {
	repo         repository.ConversationRepository
	analyzer     AnalysisService
	cache        *redis.Client
	cacheTTL     time.Duration
	events       *nats.Conn
	eventSubject string
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// analyzedEvent is published after an analysis is first computed.
type analyzedEvent struct {
	ConversationID string    `json:"conversation_id"`
	OverallScore   int       `json:"overall_score"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

// NewConversationService builds the conversation service. The redis client
// and NATS connection are optional; nil disables caching and event publishing.
func NewConversationService(repo repository.ConversationRepository, analyzer AnalysisService, cache *redis.Client, cacheTTL time.Duration, events *nats.Conn, eventSubject string, logger zerolog.Logger) ConversationService {
	return &conversationService{
		repo:         repo,
		analyzer:     analyzer,
		cache:        cache,
		cacheTTL:     cacheTTL,
		events:       events,
		eventSubject: eventSubject,
		logger:       logger.With().Str("component", "conversation_service").Logger(),
		tracer:       otel.Tracer("github.com/tryleetpro/leetpro-api/internal/service/conversation"),
	}
}

func (s *conversationService) Save(ctx context.Context, conversation models.Conversation) (string, error) {
	return s.repo.Save(ctx, conversation)
}

// GetAnalysis returns the analyzed record for id. The analysis is computed
// on the first call and served from the record afterwards; an analyzed record
// never triggers further model calls.
func (s *conversationService) GetAnalysis(parent context.Context, id string) (models.ConversationOverallAnalysis, error) {
	ctx, span := s.tracer.Start(parent, "conversation.get_analysis", trace.WithAttributes(
		attribute.String("conversation_id", id),
	))
	defer span.End()

	cacheKey := "analysis:conversation:" + id

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var record models.ConversationOverallAnalysis
			if unmarshalErr := json.Unmarshal([]byte(cached), &record); unmarshalErr == nil {
				s.logger.Debug().Str("conversation_id", id).Msg("analysis cache hit")
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return record, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analysis cache")
		}
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.ConversationOverallAnalysis{}, err
	}

	if !record.Analyzed() {
		result, err := s.analyzer.Analyze(ctx, record.Conversation)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return models.ConversationOverallAnalysis{}, err
		}

		record.Analysis = result.Analysis
		record.OverallScore = result.OverallScore
		record.OverallFeedback = result.OverallFeedback

		if err := s.repo.Update(ctx, id, record); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return models.ConversationOverallAnalysis{}, err
		}

		s.publishAnalyzed(id, record)
		observability.AnalysisRequests().WithLabelValues("computed").Inc()
	} else {
		observability.AnalysisRequests().WithLabelValues("memoized").Inc()
	}

	if s.cache != nil {
		if payload, err := json.Marshal(record); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analysis cache")
			}
		}
	}

	span.SetStatus(codes.Ok, "analysis served")
	return record, nil
}

// publishAnalyzed emits a fire-and-forget event; failures are logged only.
func (s *conversationService) publishAnalyzed(id string, record models.ConversationOverallAnalysis) {
	if s.events == nil || s.eventSubject == "" {
		return
	}

	score := 0
	if record.OverallScore != nil {
		score = *record.OverallScore
	}

	payload, err := json.Marshal(analyzedEvent{
		ConversationID: id,
		OverallScore:   score,
		AnalyzedAt:     time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode analyzed event")
		return
	}

	if err := s.events.Publish(s.eventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", id).Msg("failed to publish analyzed event")
	}
}
