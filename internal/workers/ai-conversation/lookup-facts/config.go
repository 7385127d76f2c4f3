// internal/workers/ai-conversation/lookup-facts/config.go
package lookupfacts

import "time"

const DefaultSearchAPIBaseURL = "https://www.googleapis.com/customsearch/v1"

type Config struct {
	SearchAPIBaseURL string
	SearchAPIKey     string
	SearchEngineID   string
	Timeout          time.Duration
	MaxResults       int
	CacheSize        int
	CacheTTL         time.Duration
	CacheKeyPrefix   string
}

func LoadConfig() *Config {
	return &Config{
		SearchAPIBaseURL: DefaultSearchAPIBaseURL,
		Timeout:          5 * time.Second,
		MaxResults:       5,
		CacheSize:        512,
		CacheTTL:         6 * time.Hour,
		CacheKeyPrefix:   "advisor:fact:",
	}
}
