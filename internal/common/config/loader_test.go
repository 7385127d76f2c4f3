// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
apis:
  genai:
    base_url: "http://genai.local"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pump-advisor", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2000, cfg.Server.MaxMessageLength)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, GetDuration(cfg.Session.TTL))
	assert.Equal(t, 5.4, cfg.Sizing.PeakSunHours)
	assert.Equal(t, "pump-lead-intake", cfg.Camunda.LeadProcessID)
	assert.Equal(t, 3, cfg.APIs.GenAI.MaxRetries)
	assert.Equal(t, "https://www.googleapis.com/customsearch/v1", cfg.APIs.WebSearch.BaseURL)
	assert.Equal(t, "pump_knowledge", cfg.Database.Elasticsearch.KnowledgeIndex)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_GENAI_URL", "http://expanded.local")
	path := writeConfig(t, `
apis:
  genai:
    base_url: ${TEST_GENAI_URL}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded.local", cfg.APIs.GenAI.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing genai url",
			body:    "server:\n  port: 9000\n",
			wantErr: "apis.genai.base_url is required",
		},
		{
			name: "redis backend without address",
			body: `
session:
  backend: redis
apis:
  genai:
    base_url: "http://genai.local"
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "unknown session backend",
			body: `
session:
  backend: etcd
apis:
  genai:
    base_url: "http://genai.local"
`,
			wantErr: "session.backend",
		},
		{
			name: "camunda enabled without broker",
			body: `
camunda:
  enabled: true
apis:
  genai:
    base_url: "http://genai.local"
`,
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "peak sun hours out of range",
			body: `
sizing:
  peak_sun_hours: 30
apis:
  genai:
    base_url: "http://genai.local"
`,
			wantErr: "sizing.peak_sun_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_FallsBackToDefaults(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"notify-sales": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "notify-sales"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "notify-sales").MaxJobsActive)

	def := GetWorkerConfig(cfg, "record-pump-lead")
	assert.True(t, def.Enabled)
	assert.Equal(t, 3, def.MaxRetries)
	assert.True(t, IsWorkerEnabled(cfg, "record-pump-lead"))
}
