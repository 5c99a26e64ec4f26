package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const deepgramProvider = "deepgram"

// DeepgramConfig defines configuration options for the Deepgram client.
type DeepgramConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// DeepgramClient calls the Deepgram prerecorded-listen and speak REST APIs.
// It implements both Transcriber and Synthesizer.
type DeepgramClient struct {
	cfg    DeepgramConfig
	client *http.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewDeepgramClient builds a Deepgram client from the provided configuration.
func NewDeepgramClient(cfg DeepgramConfig) (*DeepgramClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepgram api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com"
	}

	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}

	if cfg.Voice == "" {
		cfg.Voice = "aura-asteria-en"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &DeepgramClient{
		cfg:    cfg,
		client: client,
		tracer: otel.Tracer("github.com/tryleetpro/leetpro-api/pkg/speech"),
		logger: logger.With().Str("component", "deepgram_client").Logger(),
	}, nil
}

type deepgramListenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends WAV audio to the prerecorded-listen endpoint and returns
// the transcript of the first channel.
func (d *DeepgramClient) Transcribe(parent context.Context, audio []byte) (string, error) {
	ctx, span := d.tracer.Start(parent, "speech.transcribe")
	defer span.End()

	query := url.Values{}
	query.Set("model", d.cfg.Model)
	query.Set("language", "en")
	query.Set("smart_format", "true")
	query.Set("filler_words", "true")

	endpoint := fmt.Sprintf("%s/v1/listen?%s", d.cfg.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.cfg.APIKey)
	req.Header.Set("Content-Type", "audio/wav")

	start := time.Now()
	resp, err := d.client.Do(req)
	providerDuration.WithLabelValues(deepgramProvider, "transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues(deepgramProvider, "transcribe").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("deepgram transcribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerFailures.WithLabelValues(deepgramProvider, "transcribe").Inc()
		err := fmt.Errorf("deepgram transcribe: unexpected status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var payload deepgramListenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		providerFailures.WithLabelValues(deepgramProvider, "transcribe").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	if len(payload.Results.Channels) == 0 || len(payload.Results.Channels[0].Alternatives) == 0 {
		err := fmt.Errorf("deepgram transcribe: empty result set")
		providerFailures.WithLabelValues(deepgramProvider, "transcribe").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return payload.Results.Channels[0].Alternatives[0].Transcript, nil
}

// Synthesize renders text through the speak endpoint and returns the raw
// linear16 audio bytes.
func (d *DeepgramClient) Synthesize(parent context.Context, text string) ([]byte, error) {
	ctx, span := d.tracer.Start(parent, "speech.synthesize")
	defer span.End()

	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	query := url.Values{}
	query.Set("model", d.cfg.Voice)
	query.Set("encoding", "linear16")

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/speak?%s", d.cfg.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	providerDuration.WithLabelValues(deepgramProvider, "synthesize").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues(deepgramProvider, "synthesize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("deepgram synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerFailures.WithLabelValues(deepgramProvider, "synthesize").Inc()
		err := fmt.Errorf("deepgram synthesize: unexpected status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		providerFailures.WithLabelValues(deepgramProvider, "synthesize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}

	return audio, nil
}
