package speech

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer renders text into playable audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

var (
	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leetpro",
		Subsystem: "speech",
		Name:      "provider_duration_seconds",
		Help:      "Duration of speech provider requests",
	}, []string{"provider", "operation"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leetpro",
		Subsystem: "speech",
		Name:      "provider_failures_total",
		Help:      "Number of speech provider failures",
	}, []string{"provider", "operation"})
)

var ttsCleaner = strings.NewReplacer("*", " ", "~", " ", "\n", "...")

// Normalize strips markup characters and newlines from reply text before it
// is handed to a synthesizer.
func Normalize(text string) string {
	return ttsCleaner.Replace(text)
}
