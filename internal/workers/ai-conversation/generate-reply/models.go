// internal/workers/ai-conversation/generate-reply/models.go
package generatereply

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Input struct {
	SystemContext string    `json:"system"`
	Messages      []Message `json:"messages"`
}

type Output struct {
	Reply    string `json:"reply"`
	Attempts int    `json:"attempts"`
}

type generateRequest struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}
