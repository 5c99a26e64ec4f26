package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leetpro",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of chat completion requests",
	}, []string{"model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetpro",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of chat completion failures",
	}, []string{"model"})
)

// Config defines configuration options for the OpenRouter-backed completer.
type Config struct {
	APIKey  string
	BaseURL string
	// Referer and AppTitle are forwarded as the OpenRouter attribution
	// headers HTTP-Referer and X-Title.
	Referer  string
	AppTitle string
	Logger   zerolog.Logger
}

// Client implements Completer against an OpenAI-compatible chat completion API.
type Client struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewClient builds a new completion client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}

	tracer := otel.Tracer("github.com/tryleetpro/leetpro-api/pkg/ai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	config.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			referer: cfg.Referer,
			title:   cfg.AppTitle,
			base:    http.DefaultTransport,
		},
	}
	client := openai.NewClientWithConfig(config)

	return &Client{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Complete sends the role-tagged messages to the given model and returns the
// generated text.
func (c *Client) Complete(parent context.Context, model string, messages []Message) (string, error) {
	ctx, span := c.tracer.Start(parent, "ai.complete", trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("message_count", len(messages)),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	completionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		completionFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from completion provider")
		completionFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return resp.Choices[0].Message.Content, nil
}

// attributionTransport injects the OpenRouter attribution headers into every
// outgoing request.
type attributionTransport struct {
	referer string
	title   string
	base    http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if t.referer != "" {
		cloned.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		cloned.Header.Set("X-Title", t.title)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(cloned)
}
