// internal/workers/leads/notify-sales/models.go
package notifysales

type Input struct {
	LeadID       string  `json:"leadId"`
	SessionID    string  `json:"sessionId"`
	Location     string  `json:"location"`
	UsageType    string  `json:"usageType"`
	Qualified    bool    `json:"qualified"`
	Outcome      string  `json:"outcome"`
	PumpModel    string  `json:"pumpModel"`
	PanelsNeeded int     `json:"panelsNeeded"`
	DailyGallons float64 `json:"dailyGallons"`
	CRMID        string  `json:"crmId,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
)
