package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tryleetpro/leetpro-api/internal/models"
)

// ErrConversationNotFound indicates no record exists for the given id.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository persists one JSON record per conversation id.
type ConversationRepository interface {
	Save(ctx context.Context, conversation models.Conversation) (string, error)
	Get(ctx context.Context, id string) (models.ConversationOverallAnalysis, error)
	Update(ctx context.Context, id string, record models.ConversationOverallAnalysis) error
}

type fileConversationRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewFileConversationRepository constructs a repository storing records as
// {dir}/{id}.json files.
func NewFileConversationRepository(dir string, logger zerolog.Logger) (ConversationRepository, error) {
	if dir == "" {
		return nil, errors.New("records directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create records directory: %w", err)
	}

	return &fileConversationRepository{
		dir:    dir,
		logger: logger.With().Str("component", "conversation_repository").Logger(),
	}, nil
}

func (r *fileConversationRepository) Save(_ context.Context, conversation models.Conversation) (string, error) {
	id := uuid.NewString()
	record := models.ConversationOverallAnalysis{Conversation: conversation}

	if err := r.write(id, record); err != nil {
		return "", err
	}

	r.logger.Debug().Str("conversation_id", id).Int("messages", len(conversation.Messages)).Msg("conversation saved")
	return id, nil
}

func (r *fileConversationRepository) Get(_ context.Context, id string) (models.ConversationOverallAnalysis, error) {
	path, err := r.recordPath(id)
	if err != nil {
		return models.ConversationOverallAnalysis{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.ConversationOverallAnalysis{}, ErrConversationNotFound
		}
		return models.ConversationOverallAnalysis{}, fmt.Errorf("read conversation record: %w", err)
	}

	var record models.ConversationOverallAnalysis
	if err := json.Unmarshal(data, &record); err != nil {
		return models.ConversationOverallAnalysis{}, fmt.Errorf("decode conversation record: %w", err)
	}

	return record, nil
}

func (r *fileConversationRepository) Update(_ context.Context, id string, record models.ConversationOverallAnalysis) error {
	return r.write(id, record)
}

func (r *fileConversationRepository) write(id string, record models.ConversationOverallAnalysis) error {
	path, err := r.recordPath(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode conversation record: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write conversation record: %w", err)
	}

	return nil
}

// recordPath refuses ids that would escape the records directory.
func (r *fileConversationRepository) recordPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", ErrConversationNotFound
	}

	return filepath.Join(r.dir, id+".json"), nil
}
