// internal/advisor/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/validation"
	"pump-advisor/internal/models"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Catalog is immutable after load and safe for concurrent readers.
type Catalog struct {
	models   []models.PumpModel
	source   string
	degraded bool
}

func (c *Catalog) Models() []models.PumpModel {
	out := make([]models.PumpModel, len(c.models))
	copy(out, c.models)
	return out
}

func (c *Catalog) Degraded() bool { return c.degraded }

func (c *Catalog) Source() string { return c.source }

func (c *Catalog) Lookup(name string) (models.PumpModel, bool) {
	for _, m := range c.models {
		if m.Name == name {
			return m, true
		}
	}
	return models.PumpModel{}, false
}

// FlowAt is the deliverable flow of a model at the given head.
func FlowAt(model models.PumpModel, head float64) float64 {
	return model.FlowAt(head)
}

// Builtin returns the compiled-in pump range.
func Builtin() *Catalog {
	return &Catalog{models: normalize(builtinModels), source: "builtin"}
}

// DegradedDefault returns the single conservative fallback model.
func DegradedDefault() *Catalog {
	return &Catalog{models: normalize([]models.PumpModel{degradedModel}), source: "degraded-default", degraded: true}
}

// New builds a catalog from already-validated models.
func New(source string, pumps []models.PumpModel) (*Catalog, error) {
	if len(pumps) == 0 {
		return nil, fmt.Errorf("catalog %s has no models", source)
	}
	if err := checkModels(pumps); err != nil {
		return nil, err
	}
	return &Catalog{models: normalize(pumps), source: source}, nil
}

type fileFormat struct {
	Models []models.PumpModel `json:"models"`
}

// LoadFile reads and validates a JSON catalog.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}

	res, err := catalogSchema.ValidateBytes(raw)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}
	if !res.Valid {
		return nil, apperrors.NewCatalogLoadFailedError(path, fmt.Errorf("schema: %s", res.Summary()))
	}

	var doc fileFormat
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}

	c, err := New(path, doc.Models)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}
	return c, nil
}

// Load picks the catalog for the process: the built-in table when path is
// empty, the file otherwise. A file that fails to load is fatal unless
// allowDegraded is set, in which case the single fallback model is served
// and the catalog reports Degraded.
func Load(path string, allowDegraded bool, log Logger) (*Catalog, error) {
	if path == "" {
		c := Builtin()
		log.Info("Pump catalog loaded", map[string]interface{}{"source": c.source, "models": len(c.models)})
		return c, nil
	}

	c, err := LoadFile(path)
	if err == nil {
		log.Info("Pump catalog loaded", map[string]interface{}{"source": c.source, "models": len(c.models)})
		return c, nil
	}
	if !allowDegraded {
		return nil, err
	}

	log.Warn("Pump catalog unavailable, serving DEGRADED default model", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
		"model": degradedModel.Name,
	})
	return DegradedDefault(), nil
}

func checkModels(pumps []models.PumpModel) error {
	seen := make(map[string]bool, len(pumps))
	for _, m := range pumps {
		if seen[m.Name] {
			return fmt.Errorf("duplicate model %q", m.Name)
		}
		seen[m.Name] = true

		if m.Stages < 1 {
			return fmt.Errorf("model %q: stages must be >= 1", m.Name)
		}
		if m.MaxFlow <= 0 || m.MaxHead <= 0 {
			return fmt.Errorf("model %q: maxFlow and maxHead must be positive", m.Name)
		}
		if len(m.Curve) == 0 {
			continue
		}
		if m.Curve[0].Head != 0 {
			return fmt.Errorf("model %q: curve must start at head 0", m.Name)
		}
		for i := 1; i < len(m.Curve); i++ {
			if m.Curve[i].Head < m.Curve[i-1].Head {
				return fmt.Errorf("model %q: curve head must be non-decreasing", m.Name)
			}
		}
	}
	return nil
}

// normalize turns flat models into two-point curves so every model is
// selected the same way.
func normalize(pumps []models.PumpModel) []models.PumpModel {
	out := make([]models.PumpModel, len(pumps))
	for i, m := range pumps {
		if len(m.Curve) == 0 {
			m.Curve = []models.CurvePoint{{Head: 0, Flow: m.MaxFlow}, {Head: m.MaxHead, Flow: m.MaxFlow}}
		} else {
			m.Curve = append([]models.CurvePoint(nil), m.Curve...)
		}
		out[i] = m
	}
	return out
}

var catalogSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["models"],
  "properties": {
    "models": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "stages", "voltage", "maxFlow", "maxHead"],
        "properties": {
          "name":    {"type": "string", "minLength": 1},
          "stages":  {"type": "integer", "minimum": 1},
          "voltage": {"type": "integer"},
          "maxFlow": {"type": "number", "exclusiveMinimum": 0},
          "maxHead": {"type": "number", "exclusiveMinimum": 0},
          "curve": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["head", "flow"],
              "properties": {
                "head": {"type": "number", "minimum": 0},
                "flow": {"type": "number", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`)
