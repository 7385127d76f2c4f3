// internal/advisor/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/models"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pumps.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.False(t, c.Degraded())
	require.NotEmpty(t, c.Models())

	for _, m := range c.Models() {
		assert.Equal(t, 48, m.Voltage, m.Name)
		require.NotEmpty(t, m.Curve, m.Name)
		assert.Equal(t, 0.0, m.Curve[0].Head, m.Name)
		assert.Equal(t, m.MaxHead, m.Curve[len(m.Curve)-1].Head, m.Name)
	}

	m, ok := c.Lookup("SQF-48-3")
	require.True(t, ok)
	assert.InDelta(t, 4.5, FlowAt(m, 70), 1e-9)
}

func TestModels_ReturnsCopy(t *testing.T) {
	c := Builtin()
	ms := c.Models()
	ms[0].Name = "mutated"
	assert.NotEqual(t, "mutated", c.Models()[0].Name)
}

func TestLoadFile_FlatModelBecomesTwoPointCurve(t *testing.T) {
	path := writeCatalog(t, `{"models":[
		{"name":"FLAT-1","stages":2,"voltage":48,"maxFlow":6,"maxHead":80},
		{"name":"CURVE-1","stages":3,"voltage":48,"maxFlow":5,"maxHead":120,
		 "curve":[{"head":0,"flow":5},{"head":120,"flow":3}]}
	]}`)

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source())

	flat, ok := c.Lookup("FLAT-1")
	require.True(t, ok)
	assert.Equal(t, []models.CurvePoint{{Head: 0, Flow: 6}, {Head: 80, Flow: 6}}, flat.Curve)
	assert.InDelta(t, 6.0, FlowAt(flat, 80), 1e-9)
	assert.Equal(t, 0.0, FlowAt(flat, 81))
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty model list", `{"models":[]}`},
		{"zero stages", `{"models":[{"name":"X","stages":0,"voltage":48,"maxFlow":1,"maxHead":1}]}`},
		{"missing max head", `{"models":[{"name":"X","stages":1,"voltage":48,"maxFlow":1}]}`},
		{"curve not starting at zero", `{"models":[{"name":"X","stages":1,"voltage":48,"maxFlow":1,"maxHead":10,
			"curve":[{"head":5,"flow":1},{"head":10,"flow":0.5}]}]}`},
		{"decreasing head", `{"models":[{"name":"X","stages":1,"voltage":48,"maxFlow":1,"maxHead":10,
			"curve":[{"head":0,"flow":1},{"head":10,"flow":0.5},{"head":8,"flow":0.2}]}]}`},
		{"duplicate names", `{"models":[
			{"name":"X","stages":1,"voltage":48,"maxFlow":1,"maxHead":10},
			{"name":"X","stages":2,"voltage":48,"maxFlow":1,"maxHead":20}]}`},
		{"not json", `stages,voltage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeCatalog(t, tt.body))
			require.Error(t, err)
			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, stdErr.Code)
		})
	}
}

func TestLoad(t *testing.T) {
	log := logger.NewTestLogger(t)

	c, err := Load("", false, log)
	require.NoError(t, err)
	assert.Equal(t, "builtin", c.Source())

	missing := filepath.Join(t.TempDir(), "missing.json")

	_, err = Load(missing, false, log)
	require.Error(t, err)

	c, err = Load(missing, true, log)
	require.NoError(t, err)
	assert.True(t, c.Degraded())
	require.Len(t, c.Models(), 1)
	assert.Contains(t, c.Models()[0].Name, "DEGRADED")
}
