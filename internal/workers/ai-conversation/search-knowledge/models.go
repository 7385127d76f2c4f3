// internal/workers/ai-conversation/search-knowledge/models.go
package searchknowledge

type Input struct {
	Query string `json:"query"`
	Model string `json:"model,omitempty"`
}

type Output struct {
	Articles []Article `json:"articles"`
	Summary  string    `json:"summary"`
}

// Article is one document of the pump knowledge index.
type Article struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Models  []string `json:"models"`
	Tags    []string `json:"tags"`
	Score   float64  `json:"score"`
	Excerpt string   `json:"excerpt"`
}
