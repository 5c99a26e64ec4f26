package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const rimeProvider = "rime"

// rimeMaxTextLen is the provider's ceiling on normalized text length.
const rimeMaxTextLen = 1000

// ErrTextTooLong indicates the normalized text exceeds the provider limit.
var ErrTextTooLong = fmt.Errorf("normalized text is too long, max length is %d characters", rimeMaxTextLen)

// RimeConfig defines configuration options for the Rime TTS client.
type RimeConfig struct {
	APIKey     string
	BaseURL    string
	Speaker    string
	ModelID    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// RimeClient implements Synthesizer against the Rime TTS REST API.
type RimeClient struct {
	cfg    RimeConfig
	client *http.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewRimeClient builds a Rime client from the provided configuration.
func NewRimeClient(cfg RimeConfig) (*RimeClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("rime api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://users.rime.ai/v1/rime-tts"
	}

	if cfg.Speaker == "" {
		cfg.Speaker = "joy"
	}

	if cfg.ModelID == "" {
		cfg.ModelID = "mist"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &RimeClient{
		cfg:    cfg,
		client: client,
		tracer: otel.Tracer("github.com/tryleetpro/leetpro-api/pkg/speech"),
		logger: logger.With().Str("component", "rime_client").Logger(),
	}, nil
}

type rimeRequest struct {
	Speaker       string  `json:"speaker"`
	Text          string  `json:"text"`
	ModelID       string  `json:"modelId"`
	AudioFormat   string  `json:"audioFormat"`
	SamplingRate  int     `json:"samplingRate"`
	SpeedAlpha    float64 `json:"speedAlpha"`
	ReduceLatency bool    `json:"reduceLatency"`
}

type rimeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders text through the Rime API. The audio payload arrives
// base64-encoded in a JSON envelope.
func (r *RimeClient) Synthesize(parent context.Context, text string) ([]byte, error) {
	ctx, span := r.tracer.Start(parent, "speech.synthesize")
	defer span.End()

	payload := rimeRequest{
		Speaker:       r.cfg.Speaker,
		Text:          strings.ReplaceAll(text, "\n", " "),
		ModelID:       r.cfg.ModelID,
		AudioFormat:   "mp3",
		SamplingRate:  22050,
		SpeedAlpha:    1.0,
		ReduceLatency: false,
	}

	if len(payload.Text) > rimeMaxTextLen {
		span.RecordError(ErrTextTooLong)
		span.SetStatus(codes.Error, ErrTextTooLong.Error())
		return nil, ErrTextTooLong
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	providerDuration.WithLabelValues(rimeProvider, "synthesize").Observe(time.Since(start).Seconds())
	if err != nil {
		providerFailures.WithLabelValues(rimeProvider, "synthesize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("rime synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerFailures.WithLabelValues(rimeProvider, "synthesize").Inc()
		err := fmt.Errorf("rime synthesize: unexpected status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var envelope rimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		providerFailures.WithLabelValues(rimeProvider, "synthesize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode synthesis response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(envelope.AudioContent)
	if err != nil {
		providerFailures.WithLabelValues(rimeProvider, "synthesize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode audio content: %w", err)
	}

	return audio, nil
}
