package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tryleetpro/leetpro-api/internal/models"
	"github.com/tryleetpro/leetpro-api/internal/repository"
)

type fakeAnalyzer struct {
	calls  int
	result models.ConversationOverallAnalysis
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, conversation models.Conversation) (models.ConversationOverallAnalysis, error) {
	f.calls++
	if f.err != nil {
		return models.ConversationOverallAnalysis{}, f.err
	}
	result := f.result
	result.Conversation = conversation
	return result, nil
}

func analyzedResult() models.ConversationOverallAnalysis {
	score := 60
	feedback := "Solid overall."
	return models.ConversationOverallAnalysis{
		Analysis: models.ConversationAnalysis{
			models.CriterionCommunication: &models.AnalysisScore{
				Name:      string(models.CriterionCommunication),
				HumanName: "Communication",
				Score:     60,
				Feedback:  "Clear enough.",
			},
		},
		OverallScore:    &score,
		OverallFeedback: &feedback,
	}
}

func newTestRepo(t *testing.T) (repository.ConversationRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := repository.NewFileConversationRepository(dir, testLogger())
	require.NoError(t, err)
	return repo, dir
}

func TestGetAnalysisComputesOnceAndMemoizes(t *testing.T) {
	repo, _ := newTestRepo(t)
	analyzer := &fakeAnalyzer{result: analyzedResult()}
	svc := NewConversationService(repo, analyzer, nil, 0, nil, "", testLogger())

	id, err := svc.Save(context.Background(), sampleConversation())
	require.NoError(t, err)

	first, err := svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, analyzer.calls)
	require.NotNil(t, first.OverallScore)
	require.Equal(t, 60, *first.OverallScore)

	second, err := svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, analyzer.calls, "memoized record must not trigger further analysis")
	require.Equal(t, first.OverallScore, second.OverallScore)
	require.Equal(t, first.OverallFeedback, second.OverallFeedback)
}

func TestGetAnalysisPersistsMergedRecord(t *testing.T) {
	repo, dir := newTestRepo(t)
	analyzer := &fakeAnalyzer{result: analyzedResult()}
	svc := NewConversationService(repo, analyzer, nil, 0, nil, "", testLogger())

	id, err := svc.Save(context.Background(), sampleConversation())
	require.NoError(t, err)

	_, err = svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	require.NoError(t, err)

	var record models.ConversationOverallAnalysis
	require.NoError(t, json.Unmarshal(data, &record))
	require.NotNil(t, record.OverallScore)
	require.Equal(t, 60, *record.OverallScore)
	require.Len(t, record.Conversation.Messages, 3)
	require.NotNil(t, record.Analysis[models.CriterionCommunication])
}

func TestGetAnalysisUnknownID(t *testing.T) {
	repo, _ := newTestRepo(t)
	analyzer := &fakeAnalyzer{result: analyzedResult()}
	svc := NewConversationService(repo, analyzer, nil, 0, nil, "", testLogger())

	_, err := svc.GetAnalysis(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrConversationNotFound)
	require.Equal(t, 0, analyzer.calls)
}

func TestGetAnalysisEmptyConversation(t *testing.T) {
	repo, _ := newTestRepo(t)
	analyzer := &fakeAnalyzer{result: analyzedResult()}
	svc := NewConversationService(repo, analyzer, nil, 0, nil, "", testLogger())

	id, err := svc.Save(context.Background(), models.Conversation{Messages: []models.Message{}})
	require.NoError(t, err)

	record, err := svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, analyzer.calls)
	require.NotNil(t, record.OverallScore)
}

func TestGetAnalysisServesFromRedisCache(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	repo, _ := newTestRepo(t)
	analyzer := &fakeAnalyzer{result: analyzedResult()}
	svc := NewConversationService(repo, analyzer, cache, time.Minute, nil, "", testLogger())

	id, err := svc.Save(context.Background(), sampleConversation())
	require.NoError(t, err)

	_, err = svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.True(t, mini.Exists("analysis:conversation:"+id))

	// A cache hit short-circuits both the repository and the analyzer.
	cached, err := svc.GetAnalysis(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 1, analyzer.calls)
	require.Equal(t, 60, *cached.OverallScore)
}
