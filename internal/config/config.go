package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	RecordsDir     string
	SpeechInputDir string
	VoiceOverDir   string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	SiteURL           string
	SiteTitle         string
	ChatModel         string
	AnalysisModel     string

	DeepgramAPIKey string
	RimeAPIKey     string
	TTSProvider    string
	TTSVoice       string

	RedisURL         string
	AnalysisCacheTTL time.Duration
	NATSURL          string
	EventSubject     string

	ChatRateLimit int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LEETPRO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LeetPro API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("records.dir", "public/analyze")
	v.SetDefault("speech_in.dir", "public/speech_in")
	v.SetDefault("vo.dir", "public/vo")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("site.url", "https://tryleetpro.com")
	v.SetDefault("site.title", "LeetPro - Practice Interviews Online")
	v.SetDefault("chat.model", "openai/gpt-4o-2024-08-06")
	v.SetDefault("analysis.model", "cohere/command-r-plus-08-2024")
	v.SetDefault("tts.provider", "deepgram")
	v.SetDefault("tts.voice", "aura-asteria-en")
	v.SetDefault("analysis.cache_ttl", "10m")
	v.SetDefault("event.subject", "leetpro.conversation.analyzed")
	v.SetDefault("chat.rate_limit", 30)

	ttlString := v.GetString("analysis.cache_ttl")
	if ttlString == "" {
		ttlString = "10m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid analysis cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		RecordsDir:        v.GetString("records.dir"),
		SpeechInputDir:    v.GetString("speech_in.dir"),
		VoiceOverDir:      v.GetString("vo.dir"),
		OpenRouterAPIKey:  v.GetString("openrouter.api_key"),
		OpenRouterBaseURL: v.GetString("openrouter.base_url"),
		SiteURL:           v.GetString("site.url"),
		SiteTitle:         v.GetString("site.title"),
		ChatModel:         v.GetString("chat.model"),
		AnalysisModel:     v.GetString("analysis.model"),
		DeepgramAPIKey:    v.GetString("deepgram.api_key"),
		RimeAPIKey:        v.GetString("rime.api_key"),
		TTSProvider:       strings.ToLower(v.GetString("tts.provider")),
		TTSVoice:          v.GetString("tts.voice"),
		RedisURL:          v.GetString("redis.url"),
		AnalysisCacheTTL:  ttl,
		NATSURL:           v.GetString("nats.url"),
		EventSubject:      v.GetString("event.subject"),
		ChatRateLimit:     v.GetInt("chat.rate_limit"),
	}

	if cfg.OpenRouterAPIKey == "" {
		return Config{}, fmt.Errorf("openrouter api key must be provided")
	}

	if cfg.DeepgramAPIKey == "" {
		return Config{}, fmt.Errorf("deepgram api key must be provided")
	}

	if cfg.TTSProvider == "rime" && cfg.RimeAPIKey == "" {
		return Config{}, fmt.Errorf("rime api key must be provided when rime tts is selected")
	}

	if cfg.ChatRateLimit <= 0 {
		cfg.ChatRateLimit = 30
	}

	return cfg, nil
}
