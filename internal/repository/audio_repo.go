package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// AudioRepository stores WAV artifacts on disk: speech recordings uploaded by
// candidates and voice-overs rendered for interviewer replies. The directories
// are served as static routes.
type AudioRepository interface {
	SaveSpeechInput(ctx context.Context, id string, audio []byte) error
	SaveVoiceOver(ctx context.Context, id string, audio []byte) error
}

type fileAudioRepository struct {
	speechDir string
	voDir     string
	logger    zerolog.Logger
}

// NewFileAudioRepository constructs an audio repository rooted at the given
// directories, creating them if needed.
func NewFileAudioRepository(speechDir, voDir string, logger zerolog.Logger) (AudioRepository, error) {
	if speechDir == "" || voDir == "" {
		return nil, errors.New("audio directories must not be empty")
	}

	for _, dir := range []string{speechDir, voDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audio directory: %w", err)
		}
	}

	return &fileAudioRepository{
		speechDir: speechDir,
		voDir:     voDir,
		logger:    logger.With().Str("component", "audio_repository").Logger(),
	}, nil
}

func (r *fileAudioRepository) SaveSpeechInput(_ context.Context, id string, audio []byte) error {
	return r.write(r.speechDir, id, audio)
}

func (r *fileAudioRepository) SaveVoiceOver(_ context.Context, id string, audio []byte) error {
	return r.write(r.voDir, id, audio)
}

func (r *fileAudioRepository) write(dir, id string, audio []byte) error {
	if id == "" {
		return errors.New("audio id must not be empty")
	}

	path := filepath.Join(dir, id+".wav")
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}

	r.logger.Debug().Str("path", path).Int("bytes", len(audio)).Msg("audio written")
	return nil
}
