// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_DistinguishesZeroFromUnset(t *testing.T) {
	zero := Some(0.0)
	unset := None[float64]()

	assert.True(t, zero.IsSet())
	assert.False(t, unset.IsSet())
	assert.Equal(t, 0.0, zero.OrElse(7))
	assert.Equal(t, 7.0, unset.OrElse(7))

	raw, err := json.Marshal(struct {
		A Optional[float64] `json:"a"`
		B Optional[float64] `json:"b"`
	}{A: zero, B: unset})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0,"b":null}`, string(raw))

	var back struct {
		A Optional[float64] `json:"a"`
		B Optional[float64] `json:"b"`
	}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.A.IsSet())
	assert.False(t, back.B.IsSet())
}

func TestPumpModel_FlowAt(t *testing.T) {
	curved := PumpModel{
		Name: "curve", Stages: 3, MaxFlow: 5, MaxHead: 120,
		Curve: []CurvePoint{{0, 5.0}, {50, 5.0}, {90, 4.0}, {120, 3.0}},
	}
	flat := PumpModel{Name: "flat", Stages: 2, MaxFlow: 6, MaxHead: 80}

	tests := []struct {
		name  string
		model PumpModel
		head  float64
		want  float64
	}{
		{"between bracketing points", curved, 70, 4.5},
		{"exactly on a point", curved, 90, 4.0},
		{"flat segment", curved, 20, 5.0},
		{"last point", curved, 120, 3.0},
		{"above curve", curved, 121, 0},
		{"negative head clamps", curved, -5, 5.0},
		{"flat model below max head", flat, 40, 6},
		{"flat model at max head", flat, 80, 6},
		{"flat model above max head", flat, 81, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.model.FlowAt(tt.head), 1e-9)
		})
	}
}

func TestPumpModel_PowerDraw(t *testing.T) {
	assert.Equal(t, 159, PumpModel{Stages: 3}.PowerDraw())
	assert.Equal(t, 212, PumpModel{Stages: 4}.PowerDraw())
}

func TestCollectedData_ApplyKeepsUsageType(t *testing.T) {
	d := NewCollectedData()
	d.Apply(Partial{UsageType: Some(UsageLivestock), AnimalCount: Some(12)})
	d.Apply(Partial{UsageType: Some(UsageHousehold), WellDepth: Some(200.0)})

	assert.Equal(t, UsageLivestock, d.UsageType)
	assert.Equal(t, 12, d.AnimalCount.OrElse(0))
	assert.Equal(t, 200.0, d.WellDepth.OrElse(0))
	assert.False(t, d.PeopleCount.IsSet())
}

func TestPartial_MergePrefersArgument(t *testing.T) {
	a := Partial{CustomGPD: Some(100.0), WellDepth: Some(50.0)}
	b := Partial{CustomGPD: Some(250.0)}

	m := a.Merge(b)
	assert.Equal(t, 250.0, m.CustomGPD.OrElse(0))
	assert.Equal(t, 50.0, m.WellDepth.OrElse(0))
}

func TestSession_CloneAndExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("abc", now)
	s.AddTurn(RoleUser, "hi", now)
	s.Facts["solar"] = "5.8 peak sun hours"

	c := s.Clone()
	c.AddTurn(RoleAssistant, "hello", now)
	c.Facts["solar"] = "changed"

	assert.Len(t, s.Transcript, 1)
	assert.Equal(t, "5.8 peak sun hours", s.Facts["solar"])

	assert.False(t, s.Expired(now.Add(24*time.Hour), 24*time.Hour))
	assert.True(t, s.Expired(now.Add(24*time.Hour+time.Second), 24*time.Hour))
}

func TestStage_UsageSpecific(t *testing.T) {
	assert.True(t, StageCustomHead.UsageSpecific())
	assert.True(t, StageUsageType.UsageSpecific())
	assert.False(t, StageWellDepth.UsageSpecific())
	assert.False(t, StageSummary.UsageSpecific())
	assert.True(t, StageSummary.Valid())
	assert.False(t, Stage("NOPE").Valid())
}
