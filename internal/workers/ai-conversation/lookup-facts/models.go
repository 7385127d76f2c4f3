// internal/workers/ai-conversation/lookup-facts/models.go
package lookupfacts

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Snippet string   `json:"snippet"`
	Sources []Source `json:"sources"`
	Cached  bool     `json:"cached"`
}

type Source struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

type searchItem struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Mime    string `json:"mime"`
}
