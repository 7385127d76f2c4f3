// internal/workers/leads/notify-sales/config.go
package notifysales

import "time"

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	SalesEmail        string
	SalesPhone        string
	SMSPanelThreshold int
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SMSPanelThreshold: 8,
		Timeout:           15 * time.Second,
	}
}
