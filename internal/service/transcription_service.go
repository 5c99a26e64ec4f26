package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tryleetpro/leetpro-api/internal/dto"
	"github.com/tryleetpro/leetpro-api/internal/observability"
	"github.com/tryleetpro/leetpro-api/internal/repository"
	"github.com/tryleetpro/leetpro-api/pkg/speech"
)

// maxAudioBytes is the ceiling on uploaded recordings.
const maxAudioBytes = 10 * 1024 * 1024

var (
	// ErrUnsupportedAudioType indicates the upload is not WAV audio.
	ErrUnsupportedAudioType = errors.New("audio/wav is required")
	// ErrAudioTooLarge indicates the upload exceeds the size ceiling.
	ErrAudioTooLarge = errors.New("file too large")
)

// TranscriptionService validates uploaded recordings, persists them, and
// converts them to text.
type TranscriptionService interface {
	Transcribe(ctx context.Context, file *multipart.FileHeader) (dto.TranscribeResponse, error)
}

type transcriptionService struct {
	transcriber speech.Transcriber
	audio       repository.AudioRepository
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewTranscriptionService constructs a transcription service.
func NewTranscriptionService(transcriber speech.Transcriber, audio repository.AudioRepository, logger zerolog.Logger) TranscriptionService {
	return &transcriptionService{
		transcriber: transcriber,
		audio:       audio,
		logger:      logger.With().Str("component", "transcription_service").Logger(),
		tracer:      otel.Tracer("github.com/tryleetpro/leetpro-api/internal/service/transcription"),
	}
}

// Transcribe rejects oversized or non-WAV uploads before any provider call is
// attempted.
func (s *transcriptionService) Transcribe(parent context.Context, file *multipart.FileHeader) (dto.TranscribeResponse, error) {
	ctx, span := s.tracer.Start(parent, "transcription.run")
	defer span.End()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.TranscribeResponse{}, err
	}

	span.SetAttributes(attribute.Int64("audio.request_size", file.Size))

	if file.Size > maxAudioBytes {
		observability.TranscriptionRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAudioTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.TranscribeResponse{}, ErrAudioTooLarge
	}

	if declared := file.Header.Get("Content-Type"); !strings.HasPrefix(declared, "audio/wav") {
		observability.TranscriptionRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUnsupportedAudioType)
		span.SetStatus(codes.Error, "unsupported media type")
		return dto.TranscribeResponse{}, ErrUnsupportedAudioType
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.TranscribeResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxAudioBytes+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.TranscribeResponse{}, err
	}
	if buf.Len() > maxAudioBytes {
		observability.TranscriptionRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAudioTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.TranscribeResponse{}, ErrAudioTooLarge
	}

	// The declared content type is easy to spoof; sniff the bytes as well.
	if !mimetype.Detect(buf.Bytes()).Is("audio/wav") {
		observability.TranscriptionRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUnsupportedAudioType)
		span.SetStatus(codes.Error, "unsupported media type")
		return dto.TranscribeResponse{}, ErrUnsupportedAudioType
	}

	fileID, err := uuid.NewV7()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "id generation failed")
		return dto.TranscribeResponse{}, fmt.Errorf("generate speech file id: %w", err)
	}

	if err := s.audio.SaveSpeechInput(ctx, fileID.String(), buf.Bytes()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.TranscribeResponse{}, err
	}

	text, err := s.transcriber.Transcribe(ctx, buf.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		return dto.TranscribeResponse{}, err
	}

	s.logger.Debug().Str("speech_file_id", fileID.String()).Int("bytes", buf.Len()).Msg("audio transcribed")
	span.SetStatus(codes.Ok, "transcribed")

	return dto.TranscribeResponse{Text: text}, nil
}
