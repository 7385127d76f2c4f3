// internal/workers/ai-conversation/generate-reply/config.go
package generatereply

import "time"

const (
	ProviderHTTP   = "http"
	ProviderGemini = "gemini"
)

type Config struct {
	Provider     string
	GenAIBaseURL string
	APIKey       string
	Model        string
	Timeout      time.Duration
	MaxAttempts  int
	MaxTokens    int
	Temperature  float64
	// MaxTranscriptTurns bounds how much history is sent; 0 sends all of it.
	MaxTranscriptTurns int
}

func LoadConfig() *Config {
	return &Config{
		Provider:           ProviderHTTP,
		Timeout:            30 * time.Second,
		MaxAttempts:        3,
		MaxTokens:          600,
		Temperature:        0.4,
		MaxTranscriptTurns: 20,
	}
}
