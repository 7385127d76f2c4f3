// internal/cli/cli_test.go
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &App{In: strings.NewReader(stdin), Out: &out}
	root := NewRootCmd(app)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const dairyIntake = `{"usageType":"livestock","livestockType":"dairy","animalCount":20,"staticWaterLevel":100,
	"drawdownLevel":10,"elevationGain":20,"pipeLength":300,"pipeSize":1.25}`

// ==========================
// size
// ==========================

func TestSize(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		fromFile  bool
		wantValid bool
		wantModel string
		wantCode  models.ReasonCode
	}{
		{
			name:      "stdin",
			stdin:     dairyIntake,
			wantValid: true,
			wantModel: "SQF-48-4",
		},
		{
			name:      "file",
			fromFile:  true,
			wantValid: true,
			wantModel: "SQF-48-4",
		},
		{
			name:     "sandy water",
			stdin:    `{"usageType":"livestock","livestockType":"dairy","animalCount":20,"sandyWater":true}`,
			wantCode: models.ReasonSandyWater,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"size"}
			if tt.fromFile {
				args = append(args, "-f", writeFile(t, dairyIntake))
			}
			out, err := run(t, tt.stdin, args...)
			require.NoError(t, err)

			var rec models.RecommendationResult
			require.NoError(t, json.Unmarshal([]byte(out), &rec))
			assert.Equal(t, tt.wantValid, rec.IsValid)
			if tt.wantValid {
				require.NotNil(t, rec.PumpDetails)
				assert.Equal(t, tt.wantModel, rec.PumpDetails.Model)
			} else {
				assert.Equal(t, tt.wantCode, rec.ReasonCode)
			}
		})
	}
}

func TestSize_BadInput(t *testing.T) {
	_, err := run(t, "not json", "size")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode intake data")
}

// ==========================
// catalog
// ==========================

func TestCatalogList_Builtin(t *testing.T) {
	out, err := run(t, "", "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "SQF-48-4")
	assert.NotContains(t, out, "degraded")
}

func TestCatalogValidate(t *testing.T) {
	good := writeFile(t, `{"models":[{"name":"FLAT-1","stages":2,"voltage":48,"maxFlow":6,"maxHead":80}]}`)
	out, err := run(t, "", "catalog", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 models OK")

	bad := writeFile(t, `{"models":[]}`)
	_, err = run(t, "", "catalog", "validate", bad)
	require.Error(t, err)

	_, err = run(t, "", "catalog", "validate")
	require.Error(t, err)
}

// ==========================
// chat
// ==========================

func TestChat_ScriptedConversation(t *testing.T) {
	out, err := run(t, "hello\nquit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, conversation.NextQuestion(models.StageGreeting))
	assert.Contains(t, out, "assistant> "+conversation.NextQuestion(models.StageUsageType))
}

func TestChat_ShowsState(t *testing.T) {
	out, err := run(t, "hello\nwatering cattle\n", "chat", "--state")
	require.NoError(t, err)
	assert.Contains(t, out, "[LOCATION]")
	assert.Contains(t, out, `"usageType":"livestock"`)
}

func TestScriptedReplies(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"next question", "persona\n\nCurrent stage: LOCATION\nNext question: Where is the well?\nmore", "Where is the well?"},
		{"summary", "persona\n\nCurrent stage: SUMMARY\n\nRead this back:\nHead: 20", "Read this back:\nHead: 20"},
		{"bare", "  hello  ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scriptedReplies{}.Generate(context.Background(), tt.context, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
