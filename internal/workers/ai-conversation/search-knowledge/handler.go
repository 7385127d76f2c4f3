// internal/workers/ai-conversation/search-knowledge/handler.go
package searchknowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	Name = "search-knowledge"
)

var (
	ErrKnowledgeSearchFailed = errors.New("KNOWLEDGE_SEARCH_FAILED")
)

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Handler searches the internal pump knowledge base held in Elasticsearch.
type Handler struct {
	config   *Config
	esClient *elasticsearch.Client
	logger   Logger
}

func NewHandler(config *Config, esClient *elasticsearch.Client, log Logger) *Handler {
	return &Handler{
		config:   config,
		esClient: esClient,
		logger:   log.With(map[string]interface{}{"component": Name}),
	}
}

// Lookup implements the chat fact source for pump information.
func (h *Handler) Lookup(ctx context.Context, query string) (string, bool) {
	if h.esClient == nil {
		return "", false
	}
	out, err := h.Execute(ctx, &Input{Query: query, Model: modelFromQuery(query)})
	if err != nil {
		h.logger.Warn("knowledge search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return "", false
	}
	return out.Summary, out.Summary != ""
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	body, err := json.Marshal(h.buildQuery(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKnowledgeSearchFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{h.config.Index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, h.esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKnowledgeSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrKnowledgeSearchFailed, res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source Article `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrKnowledgeSearchFailed, err)
	}

	articles := []Article{}
	for _, hit := range r.Hits.Hits {
		if hit.Score < h.config.MinScore {
			continue
		}
		a := hit.Source
		a.ID = hit.ID
		a.Score = hit.Score
		a.Excerpt = excerpt(a.Body, 280)
		articles = append(articles, a)
	}

	out := &Output{Articles: articles}
	if len(articles) > 0 {
		out.Summary = articles[0].Excerpt
	}

	h.logger.Debug("knowledge search completed", map[string]interface{}{
		"query":       input.Query,
		"resultCount": len(articles),
	})
	return out, nil
}

// buildQuery boosts documents tagged with the exact pump model.
func (h *Handler) buildQuery(input *Input) map[string]interface{} {
	should := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"title^2", "body", "tags"},
			},
		},
	}
	if input.Model != "" {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{
				"models.keyword": map[string]interface{}{"value": input.Model, "boost": 3.0},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"size": h.config.MaxResults,
	}
}

// modelFromQuery picks out a catalog model name such as "SQF-48-4".
func modelFromQuery(query string) string {
	for _, word := range strings.Fields(query) {
		if strings.HasPrefix(strings.ToUpper(word), "SQF-") {
			return strings.ToUpper(strings.Trim(word, ".,;:"))
		}
	}
	return ""
}

func excerpt(body string, limit int) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > limit/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
