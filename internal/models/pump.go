// internal/models/pump.go
package models

// WattsPerStage is the electrical draw of one pumping stage.
const WattsPerStage = 53

type CurvePoint struct {
	Head float64 `json:"head"` // feet
	Flow float64 `json:"flow"` // GPM
}

// PumpModel is one catalog entry. Curve is ordered by non-decreasing head
// and starts at head 0.
type PumpModel struct {
	Name    string       `json:"name"`
	Stages  int          `json:"stages"`
	Voltage int          `json:"voltage"`
	MaxFlow float64      `json:"maxFlow"`
	MaxHead float64      `json:"maxHead"`
	Curve   []CurvePoint `json:"curve,omitempty"`
}

func (m PumpModel) PowerDraw() int {
	return m.Stages * WattsPerStage
}

// FlowAt interpolates the deliverable flow at the given head. Heads above
// the last curve point deliver nothing.
func (m PumpModel) FlowAt(head float64) float64 {
	curve := m.Curve
	if len(curve) == 0 {
		curve = []CurvePoint{{Head: 0, Flow: m.MaxFlow}, {Head: m.MaxHead, Flow: m.MaxFlow}}
	}
	if head < 0 {
		head = 0
	}
	if len(curve) == 1 {
		if head <= curve[0].Head {
			return curve[0].Flow
		}
		return 0
	}

	for i := 0; i < len(curve)-1; i++ {
		p1, p2 := curve[i], curve[i+1]
		if p1.Head <= head && head <= p2.Head {
			if p2.Head == p1.Head {
				return p1.Flow
			}
			return p1.Flow + (p2.Flow-p1.Flow)*(head-p1.Head)/(p2.Head-p1.Head)
		}
	}
	return 0
}
