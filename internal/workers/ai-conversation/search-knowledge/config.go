// internal/workers/ai-conversation/search-knowledge/config.go
package searchknowledge

import "time"

type Config struct {
	Index      string
	Timeout    time.Duration
	MaxResults int
	MinScore   float64
}

func LoadConfig() *Config {
	return &Config{
		Index:      "pump_knowledge",
		Timeout:    3 * time.Second,
		MaxResults: 3,
	}
}
