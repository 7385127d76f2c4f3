// internal/workers/ai-conversation/search-knowledge/handler_test.go
package searchknowledge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) With(map[string]interface{}) Logger { return l }

// ==========================
// Helpers
// ==========================

// esServer fakes the search endpoint; the product header is required by
// the v8 client.
func esServer(t *testing.T, status int, response string, captured *map[string]interface{}) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if captured != nil {
			assert.True(t, strings.HasPrefix(r.URL.Path, "/pump_knowledge/_search"), r.URL.Path)
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

const twoHits = `{"hits":{"hits":[
  {"_id":"a1","_score":7.5,"_source":{"title":"SQF-48-4 overview","body":"The SQF-48-4 is a helical rotor pump that runs directly from 48 V solar arrays.","models":["SQF-48-4"]}},
  {"_id":"a2","_score":0.4,"_source":{"title":"Wiring","body":"General wiring notes."}}
]}}`

// ==========================
// Tests
// ==========================

func TestExecute_ReturnsArticles(t *testing.T) {
	var body map[string]interface{}
	cfg := LoadConfig()
	cfg.MinScore = 1.0
	h := NewHandler(cfg, esServer(t, http.StatusOK, twoHits, &body), &TestLogger{t})

	out, err := h.Execute(context.Background(), &Input{Query: "SQF-48-4", Model: "SQF-48-4"})
	require.NoError(t, err)

	require.Len(t, out.Articles, 1)
	assert.Equal(t, "a1", out.Articles[0].ID)
	assert.Equal(t, 7.5, out.Articles[0].Score)
	assert.Contains(t, out.Summary, "helical rotor")

	assert.Equal(t, float64(3), body["size"])
	should := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["should"].([]interface{})
	assert.Len(t, should, 2)
}

func TestExecute_ErrorStatus(t *testing.T) {
	h := NewHandler(LoadConfig(), esServer(t, http.StatusNotFound, `{"error":"index_not_found"}`, nil), &TestLogger{t})

	_, err := h.Execute(context.Background(), &Input{Query: "anything"})
	assert.True(t, errors.Is(err, ErrKnowledgeSearchFailed))
}

func TestLookup(t *testing.T) {
	h := NewHandler(LoadConfig(), esServer(t, http.StatusOK, twoHits, nil), &TestLogger{t})

	snippet, ok := h.Lookup(context.Background(), "SQF-48-4")
	assert.True(t, ok)
	assert.Contains(t, snippet, "SQF-48-4")

	empty := NewHandler(LoadConfig(), esServer(t, http.StatusOK, `{"hits":{"hits":[]}}`, nil), &TestLogger{t})
	_, ok = empty.Lookup(context.Background(), "SQF-48-4")
	assert.False(t, ok)

	failing := NewHandler(LoadConfig(), esServer(t, http.StatusInternalServerError, `{}`, nil), &TestLogger{t})
	_, ok = failing.Lookup(context.Background(), "SQF-48-4")
	assert.False(t, ok)

	unconfigured := NewHandler(LoadConfig(), nil, &TestLogger{t})
	_, ok = unconfigured.Lookup(context.Background(), "SQF-48-4")
	assert.False(t, ok)
}

func TestModelFromQuery(t *testing.T) {
	assert.Equal(t, "SQF-48-4", modelFromQuery("sqf-48-4"))
	assert.Equal(t, "SQF-48-10", modelFromQuery("Tell me about the SQF-48-10."))
	assert.Empty(t, modelFromQuery("solar pumps"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short   text", 50))

	long := strings.Repeat("word ", 100)
	got := excerpt(long, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 43)
}
