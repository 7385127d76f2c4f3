// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["sessionId", "message"],
  "properties": {
    "sessionId": {"type": "string", "minLength": 1},
    "message": {"type": "string"}
  }
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(testSchema)

	res, err := s.ValidateBytes([]byte(`{"sessionId":"abc","message":"hi"}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	res, err = s.ValidateGo(map[string]interface{}{"sessionId": ""})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Summary(), "sessionId")
	assert.Contains(t, res.Summary(), "message")
}

func TestSchema_MalformedDocument(t *testing.T) {
	s := MustCompile(testSchema)
	_, err := s.ValidateBytes([]byte(`{not json`))
	assert.Error(t, err)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`{`) })
}
