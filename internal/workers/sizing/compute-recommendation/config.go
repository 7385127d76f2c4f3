// internal/workers/sizing/compute-recommendation/config.go
package computerecommendation

import "time"

type Config struct {
	PeakSunHours float64
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PeakSunHours: 5.4,
		Timeout:      10 * time.Second,
	}
}
