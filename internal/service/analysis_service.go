package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tryleetpro/leetpro-api/internal/models"
	"github.com/tryleetpro/leetpro-api/internal/observability"
	"github.com/tryleetpro/leetpro-api/pkg/ai"
)

// ErrMalformedVerdict indicates the evaluation model returned a response
// without the newline separating verdict from justification.
var ErrMalformedVerdict = errors.New("evaluation response missing verdict delimiter")

const evaluatorSystemPrompt = "You are an expert at evaluating product management interviews. " +
	"Your task is to analyze a conversation and provide a grade based on specific criteria, " +
	"along with justification from the conversation."

// AnalysisService scores a conversation against the fixed rubric, one
// evaluation call per criterion plus one overall-feedback call.
type AnalysisService interface {
	Analyze(ctx context.Context, conversation models.Conversation) (models.ConversationOverallAnalysis, error)
}

type analysisService struct {
	completer ai.Completer
	model     string
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAnalysisService constructs the rubric scoring pipeline. The model is the
// designated analysis model, distinct from the conversational reply model.
func NewAnalysisService(completer ai.Completer, model string, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		completer: completer,
		model:     model,
		logger:    logger.With().Str("component", "analysis_service").Logger(),
		tracer:    otel.Tracer("github.com/tryleetpro/leetpro-api/internal/service/analysis"),
	}
}

// Analyze runs the criteria in their fixed order, sequentially. Any provider
// failure or malformed response aborts the run; no partial result is returned.
func (s *analysisService) Analyze(parent context.Context, conversation models.Conversation) (models.ConversationOverallAnalysis, error) {
	ctx, span := s.tracer.Start(parent, "analysis.run", trace.WithAttributes(
		attribute.String("model", s.model),
		attribute.Int("message_count", len(conversation.Messages)),
	))
	defer span.End()

	start := time.Now()
	transcript := buildTranscript(conversation)

	analysis := make(models.ConversationAnalysis, len(rubricCriteria))
	total := 0

	for _, criterion := range rubricCriteria {
		raw, err := s.completer.Complete(ctx, s.model, []ai.Message{
			{Role: ai.RoleSystem, Content: evaluatorSystemPrompt},
			{Role: ai.RoleUser, Content: transcript},
			{Role: ai.RoleUser, Content: criterionPrompt(criterion)},
		})
		if err != nil {
			observability.AnalysisRuns().WithLabelValues("provider_error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return models.ConversationOverallAnalysis{}, fmt.Errorf("evaluate criterion %s: %w", criterion.Key, err)
		}

		verdict, justification, err := splitVerdict(raw)
		if err != nil {
			observability.AnalysisRuns().WithLabelValues("malformed_response").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return models.ConversationOverallAnalysis{}, fmt.Errorf("evaluate criterion %s: %w", criterion.Key, err)
		}

		score := scoreVerdict(verdict)
		total += score

		s.logger.Debug().
			Str("criterion", string(criterion.Key)).
			Str("verdict", verdict).
			Int("score", score).
			Msg("criterion scored")

		analysis[criterion.Key] = &models.AnalysisScore{
			Name:        string(criterion.Key),
			HumanName:   criterion.HumanName,
			Description: criterion.Rubric,
			Score:       score,
			Feedback:    justification,
		}
	}

	overallScore := total / len(rubricCriteria)

	overallFeedback, err := s.completer.Complete(ctx, s.model, []ai.Message{
		{Role: ai.RoleSystem, Content: evaluatorSystemPrompt},
		{Role: ai.RoleUser, Content: transcript},
		{Role: ai.RoleUser, Content: "Based on your analysis of the conversation, please provide an overall feedback summary."},
	})
	if err != nil {
		observability.AnalysisRuns().WithLabelValues("provider_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.ConversationOverallAnalysis{}, fmt.Errorf("overall feedback: %w", err)
	}

	observability.AnalysisRuns().WithLabelValues("ok").Inc()
	observability.AnalysisLatency().Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("overall_score", overallScore))
	span.SetStatus(codes.Ok, "analyzed")

	return models.ConversationOverallAnalysis{
		Conversation:    conversation,
		Analysis:        analysis,
		OverallScore:    &overallScore,
		OverallFeedback: &overallFeedback,
	}, nil
}

// buildTranscript flattens user and assistant turns into one role-prefixed
// text block. System turns are intentionally excluded.
func buildTranscript(conversation models.Conversation) string {
	var builder strings.Builder
	for _, msg := range conversation.Messages {
		switch msg.Role {
		case models.RoleUser:
			builder.WriteString("User: ")
			builder.WriteString(msg.Content)
			builder.WriteString("\n")
		case models.RoleAssistant:
			builder.WriteString("Assistant: ")
			builder.WriteString(msg.Content)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func criterionPrompt(criterion Criterion) string {
	return fmt.Sprintf("Please evaluate the following conversation based on the criterion '%s'. "+
		"Use the following rubric:\n\n%s\n\n"+
		"Provide your verdict (e.g. 'Very Weak or Missing', 'Strong') and justify it with specific examples "+
		"from the conversation. Please provide your verdict on one line and justification on two different lines. "+
		"For justification, use direct quotes from the conversation when possible.",
		criterion.Key, criterion.Rubric)
}

// splitVerdict separates the verdict line from the justification at the first
// line break.
func splitVerdict(raw string) (string, string, error) {
	idx := strings.Index(raw, "\n")
	if idx < 0 {
		return "", "", ErrMalformedVerdict
	}

	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:]), nil
}
