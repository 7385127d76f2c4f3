// internal/workers/ai-conversation/lookup-facts/handler.go
package lookupfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const (
	Name = "lookup-facts"
)

var (
	ErrWebSearchTimeout = errors.New("WEB_SEARCH_TIMEOUT")
	ErrWebSearchFailed  = errors.New("WEB_SEARCH_FAILED")
)

var whitespace = regexp.MustCompile(`\s+`)

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type cachedFact struct {
	snippet string
	expires time.Time
}

// Handler answers fact lookups from a web search API. Results are cached
// in process and, when a redis client is given, shared across replicas.
type Handler struct {
	config *Config
	base   *url.URL
	client *http.Client
	local  *lru.Cache[string, cachedFact]
	redis  *redis.Client
	logger Logger
	now    func() time.Time
}

func NewHandler(config *Config, redisClient *redis.Client, log Logger) (*Handler, error) {
	base, err := url.Parse(config.SearchAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse search base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("search base url %q must be absolute", config.SearchAPIBaseURL)
	}

	size := config.CacheSize
	if size <= 0 {
		size = 512
	}
	local, err := lru.New[string, cachedFact](size)
	if err != nil {
		return nil, fmt.Errorf("create fact cache: %w", err)
	}
	return &Handler{
		config: config,
		base:   base,
		client: &http.Client{Timeout: config.Timeout},
		local:  local,
		redis:  redisClient,
		logger: log.With(map[string]interface{}{"component": Name}),
		now:    time.Now,
	}, nil
}

// Lookup implements the chat fact source. Any failure is reported as a miss.
func (h *Handler) Lookup(ctx context.Context, query string) (string, bool) {
	out, err := h.Execute(ctx, &Input{Query: query})
	if err != nil {
		h.logger.Warn("fact lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return "", false
	}
	return out.Snippet, out.Snippet != ""
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := normalizeQuery(input.Query)
	if query == "" {
		return &Output{Sources: []Source{}}, nil
	}

	if snippet, ok := h.cached(ctx, query); ok {
		return &Output{Snippet: snippet, Sources: []Source{}, Cached: true}, nil
	}

	sources, err := h.search(ctx, query)
	if err != nil {
		return nil, err
	}

	snippet := ""
	if len(sources) > 0 {
		snippet = sources[0].Snippet
	}
	h.store(ctx, query, snippet)

	h.logger.Debug("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(sources),
	})
	return &Output{Snippet: snippet, Sources: sources}, nil
}

func normalizeQuery(q string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(q), " ")
}

func (h *Handler) cacheKey(query string) string {
	return h.config.CacheKeyPrefix + strings.ToLower(query)
}

func (h *Handler) cached(ctx context.Context, query string) (string, bool) {
	key := h.cacheKey(query)
	if fact, ok := h.local.Get(key); ok {
		if h.now().Before(fact.expires) {
			return fact.snippet, true
		}
		h.local.Remove(key)
	}

	if h.redis == nil {
		return "", false
	}
	snippet, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("fact cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return "", false
	}
	h.local.Add(key, cachedFact{snippet: snippet, expires: h.now().Add(h.config.CacheTTL)})
	return snippet, true
}

// store caches empty results too, so repeated misses do not hit the API.
func (h *Handler) store(ctx context.Context, query, snippet string) {
	key := h.cacheKey(query)
	h.local.Add(key, cachedFact{snippet: snippet, expires: h.now().Add(h.config.CacheTTL)})

	if h.redis == nil {
		return
	}
	if err := h.redis.Set(ctx, key, snippet, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("fact cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) search(ctx context.Context, query string) ([]Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.buildSearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebSearchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "Client.Timeout") ||
			strings.Contains(err.Error(), "deadline") {
			return nil, ErrWebSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrWebSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned %d", ErrWebSearchFailed, resp.StatusCode)
	}

	var apiResponse struct {
		Items []searchItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrWebSearchFailed, err)
	}

	return h.processResults(apiResponse.Items), nil
}

func (h *Handler) buildSearchURL(query string) string {
	u := *h.base
	params := url.Values{}
	params.Add("key", h.config.SearchAPIKey)
	params.Add("cx", h.config.SearchEngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", h.config.MaxResults))
	u.RawQuery = params.Encode()
	return u.String()
}

// processResults drops non-HTML and duplicate links and ranks government,
// university and extension sources first.
func (h *Handler) processResults(items []searchItem) []Source {
	seen := make(map[string]bool)
	sources := []Source{}

	for _, item := range items {
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if seen[item.Link] || strings.TrimSpace(item.Snippet) == "" {
			continue
		}
		seen[item.Link] = true

		relevance := 1.0
		if strings.Contains(item.Link, ".gov") || strings.Contains(item.Link, ".edu") {
			relevance += 0.2
		}
		if strings.Contains(strings.ToLower(item.Title), "extension") {
			relevance += 0.1
		}

		sources = append(sources, Source{
			URL:       item.Link,
			Title:     item.Title,
			Snippet:   strings.TrimSpace(item.Snippet),
			Relevance: relevance,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Relevance > sources[j].Relevance
	})

	if h.config.MaxResults > 0 && len(sources) > h.config.MaxResults {
		sources = sources[:h.config.MaxResults]
	}
	return sources
}
