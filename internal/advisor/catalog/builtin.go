// internal/advisor/catalog/builtin.go
package catalog

import "pump-advisor/internal/models"

// builtinModels is the standard 48V submersible range, ordered by
// increasing stage count within each flow class.
var builtinModels = []models.PumpModel{
	{
		Name: "SQF-48-2", Stages: 2, Voltage: 48, MaxFlow: 9.0, MaxHead: 60,
		Curve: []models.CurvePoint{{Head: 0, Flow: 9.0}, {Head: 20, Flow: 8.2}, {Head: 40, Flow: 6.5}, {Head: 60, Flow: 4.0}},
	},
	{
		Name: "SQF-48-3", Stages: 3, Voltage: 48, MaxFlow: 5.0, MaxHead: 120,
		Curve: []models.CurvePoint{{Head: 0, Flow: 5.0}, {Head: 50, Flow: 5.0}, {Head: 90, Flow: 4.0}, {Head: 120, Flow: 3.0}},
	},
	{
		Name: "SQF-48-4", Stages: 4, Voltage: 48, MaxFlow: 5.0, MaxHead: 160,
		Curve: []models.CurvePoint{{Head: 0, Flow: 5.0}, {Head: 60, Flow: 4.8}, {Head: 120, Flow: 3.8}, {Head: 160, Flow: 2.6}},
	},
	{
		Name: "SQF-48-6", Stages: 6, Voltage: 48, MaxFlow: 4.5, MaxHead: 240,
		Curve: []models.CurvePoint{{Head: 0, Flow: 4.5}, {Head: 100, Flow: 4.1}, {Head: 180, Flow: 3.2}, {Head: 240, Flow: 2.0}},
	},
	{
		Name: "SQF-48-8", Stages: 8, Voltage: 48, MaxFlow: 4.0, MaxHead: 320,
		Curve: []models.CurvePoint{{Head: 0, Flow: 4.0}, {Head: 150, Flow: 3.6}, {Head: 250, Flow: 2.7}, {Head: 320, Flow: 1.6}},
	},
	{
		Name: "SQF-48-10", Stages: 10, Voltage: 48, MaxFlow: 3.5, MaxHead: 400,
		Curve: []models.CurvePoint{{Head: 0, Flow: 3.5}, {Head: 200, Flow: 3.0}, {Head: 320, Flow: 2.2}, {Head: 400, Flow: 1.2}},
	},
}

// degradedModel serves traffic only when the configured catalog cannot be
// read and degraded mode is explicitly allowed.
var degradedModel = models.PumpModel{
	Name: "SQF-48-4-DEGRADED", Stages: 4, Voltage: 48, MaxFlow: 3.0, MaxHead: 120,
}
