package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tryleetpro/leetpro-api/internal/models"
	"github.com/tryleetpro/leetpro-api/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeCompleter replays scripted responses in call order. With a single
// scripted response it repeats it for every call.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   [][]ai.Message
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, messages []ai.Message) (string, error) {
	f.prompts = append(f.prompts, messages)
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 1 {
		return f.responses[0], nil
	}
	if f.calls <= len(f.responses) {
		return f.responses[f.calls-1], nil
	}
	return "", fmt.Errorf("unexpected call %d", f.calls)
}

func sampleConversation() models.Conversation {
	now := time.Now().UTC()
	return models.Conversation{Messages: []models.Message{
		{Role: models.RoleSystem, Content: "You are a product interviewer."},
		{Role: models.RoleAssistant, Content: "Design a product for dog owners.", Timestamp: &now},
		{Role: models.RoleUser, Content: "First I'd ask who the target users are.", Timestamp: &now},
	}}
}

func TestAnalyzeScoresAllCriteria(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Neutral\nSome reason"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	result, err := svc.Analyze(context.Background(), sampleConversation())
	require.NoError(t, err)

	// 8 criterion evaluations plus one overall-feedback call.
	require.Equal(t, 9, completer.calls)
	require.Len(t, result.Analysis, 8)

	for _, criterion := range rubricCriteria {
		score := result.Analysis[criterion.Key]
		require.NotNil(t, score, "missing score for %s", criterion.Key)
		require.Equal(t, string(criterion.Key), score.Name)
		require.Equal(t, criterion.HumanName, score.HumanName)
		require.Equal(t, criterion.Rubric, score.Description)
		require.Equal(t, 60, score.Score)
		require.Equal(t, "Some reason", score.Feedback)
	}

	require.NotNil(t, result.OverallScore)
	require.Equal(t, 60, *result.OverallScore)
	require.NotNil(t, result.OverallFeedback)
	require.Equal(t, "Neutral\nSome reason", *result.OverallFeedback)
}

func TestAnalyzeOverallScoreFloors(t *testing.T) {
	// Scores 20, 40, 60, 60, 80, 80, 80, 80 sum to 500; 500/8 = 62.5 floors
	// to 62.
	completer := &fakeCompleter{responses: []string{
		"Very Weak or Missing\nno context",
		"Weak\nlittle grounding",
		"Neutral\nmixed",
		"Neutral\nmixed",
		"Strong\ngood",
		"Strong\ngood",
		"Strong\ngood",
		"Strong\ngood",
		"Overall the candidate did fine.",
	}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	result, err := svc.Analyze(context.Background(), sampleConversation())
	require.NoError(t, err)
	require.NotNil(t, result.OverallScore)
	require.Equal(t, 62, *result.OverallScore)
	require.Equal(t, "Overall the candidate did fine.", *result.OverallFeedback)
}

func TestAnalyzeVeryStrongScoresEighty(t *testing.T) {
	// Pins the verdict precedence end to end: the top band is absorbed by
	// the "Strong" check and never reaches 100.
	completer := &fakeCompleter{responses: []string{"Very Strong\nexceptional throughout"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	result, err := svc.Analyze(context.Background(), sampleConversation())
	require.NoError(t, err)

	for _, criterion := range rubricCriteria {
		require.Equal(t, 80, result.Analysis[criterion.Key].Score)
	}
	require.Equal(t, 80, *result.OverallScore)
}

func TestAnalyzeTranscriptExcludesSystemTurns(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Neutral\nok"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	_, err := svc.Analyze(context.Background(), sampleConversation())
	require.NoError(t, err)

	transcript := completer.prompts[0][1].Content
	require.Equal(t, "Assistant: Design a product for dog owners.\nUser: First I'd ask who the target users are.\n", transcript)
	require.NotContains(t, transcript, "You are a product interviewer.")
}

func TestAnalyzeEmptyConversation(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Neutral\nnothing to judge"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	result, err := svc.Analyze(context.Background(), models.Conversation{Messages: []models.Message{}})
	require.NoError(t, err)
	require.Len(t, result.Analysis, 8)
	require.Equal(t, "", completer.prompts[0][1].Content)
}

func TestAnalyzeMalformedResponseFails(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Neutral with no line break"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	_, err := svc.Analyze(context.Background(), sampleConversation())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedVerdict)
	// The first criterion fails; no further calls are issued.
	require.Equal(t, 1, completer.calls)
}

func TestAnalyzeProviderErrorPropagates(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream down")}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	_, err := svc.Analyze(context.Background(), sampleConversation())
	require.Error(t, err)
	require.Equal(t, 1, completer.calls)
}

func TestAnalyzePromptShape(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Neutral\nok"}}
	svc := NewAnalysisService(completer, "test-model", testLogger())

	_, err := svc.Analyze(context.Background(), sampleConversation())
	require.NoError(t, err)

	first := completer.prompts[0]
	require.Len(t, first, 3)
	require.Equal(t, ai.RoleSystem, first[0].Role)
	require.Contains(t, first[0].Content, "evaluating product management interviews")
	require.Equal(t, ai.RoleUser, first[1].Role)
	require.Equal(t, ai.RoleUser, first[2].Role)
	require.Contains(t, first[2].Content, "business_acumen")
	require.Contains(t, first[2].Content, "Very Weak or Missing: Failed to show an understanding")

	overall := completer.prompts[8]
	require.Len(t, overall, 3)
	require.Contains(t, overall[2].Content, "overall feedback summary")
}
