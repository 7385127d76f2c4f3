// internal/models/collected_data.go
package models

// CollectedData accumulates everything the user has told the assistant.
type CollectedData struct {
	UsageType UsageType        `json:"usageType"`
	Location  Optional[string] `json:"location"`

	// livestock
	LivestockType Optional[string] `json:"livestockType"`
	AnimalCount   Optional[int]    `json:"animalCount"`

	// household
	PeopleCount         Optional[int]     `json:"peopleCount"`
	BathroomCount       Optional[float64] `json:"bathroomCount"`
	FixturesDescription Optional[string]  `json:"fixturesDescription"`

	// irrigation
	IrrigationArea   Optional[float64]          `json:"irrigationArea"`
	IrrigationMethod Optional[IrrigationMethod] `json:"irrigationMethod"`
	CropCategory     Optional[CropCategory]     `json:"cropCategory"`

	// hydraulics, feet unless noted
	WellDepth         Optional[float64] `json:"wellDepth"`
	StaticWaterLevel  Optional[float64] `json:"staticWaterLevel"`
	DrawdownLevel     Optional[float64] `json:"drawdownLevel"`
	DrawdownEstimated bool              `json:"drawdownEstimated"`
	ElevationGain     Optional[float64] `json:"elevationGain"`
	PipeLength        Optional[float64] `json:"pipeLength"`
	PipeSize          Optional[float64] `json:"pipeSize"`       // inches
	WellCasingSize    Optional[float64] `json:"wellCasingSize"` // inches
	DirectToTank      Optional[bool]    `json:"directToTank"`
	HasStorageTank    Optional[bool]    `json:"hasStorageTank"`
	SandyWater        Optional[bool]    `json:"sandyWater"`

	CustomGPD  Optional[float64] `json:"customGPD"`
	CustomHead Optional[float64] `json:"customHead"`

	// from a fetched insolation snippet for the location
	PeakSunHours Optional[float64] `json:"peakSunHours"`

	Recommendation *RecommendationResult `json:"recommendation,omitempty"`
}

func NewCollectedData() CollectedData {
	return CollectedData{UsageType: UsageUnknown}
}

// HasCustomFlow and HasCustomHead treat a zero override as absent.
func (d CollectedData) HasCustomFlow() bool {
	return d.CustomGPD.OrElse(0) > 0
}

func (d CollectedData) HasCustomHead() bool {
	return d.CustomHead.OrElse(0) > 0
}

// Partial is the output of one extraction pass: only set fields are applied.
type Partial struct {
	UsageType           Optional[UsageType]
	Location            Optional[string]
	LivestockType       Optional[string]
	AnimalCount         Optional[int]
	PeopleCount         Optional[int]
	BathroomCount       Optional[float64]
	FixturesDescription Optional[string]
	IrrigationArea      Optional[float64]
	IrrigationMethod    Optional[IrrigationMethod]
	CropCategory        Optional[CropCategory]
	WellDepth           Optional[float64]
	StaticWaterLevel    Optional[float64]
	DrawdownLevel       Optional[float64]
	DrawdownEstimated   Optional[bool]
	ElevationGain       Optional[float64]
	PipeLength          Optional[float64]
	PipeSize            Optional[float64]
	WellCasingSize      Optional[float64]
	DirectToTank        Optional[bool]
	HasStorageTank      Optional[bool]
	SandyWater          Optional[bool]
	CustomGPD           Optional[float64]
	CustomHead          Optional[float64]
}

func merge[T any](dst *Optional[T], src Optional[T]) {
	if src.IsSet() {
		*dst = src
	}
}

// Merge combines two partials, values in o winning.
func (p Partial) Merge(o Partial) Partial {
	out := p
	merge(&out.UsageType, o.UsageType)
	merge(&out.Location, o.Location)
	merge(&out.LivestockType, o.LivestockType)
	merge(&out.AnimalCount, o.AnimalCount)
	merge(&out.PeopleCount, o.PeopleCount)
	merge(&out.BathroomCount, o.BathroomCount)
	merge(&out.FixturesDescription, o.FixturesDescription)
	merge(&out.IrrigationArea, o.IrrigationArea)
	merge(&out.IrrigationMethod, o.IrrigationMethod)
	merge(&out.CropCategory, o.CropCategory)
	merge(&out.WellDepth, o.WellDepth)
	merge(&out.StaticWaterLevel, o.StaticWaterLevel)
	merge(&out.DrawdownLevel, o.DrawdownLevel)
	merge(&out.DrawdownEstimated, o.DrawdownEstimated)
	merge(&out.ElevationGain, o.ElevationGain)
	merge(&out.PipeLength, o.PipeLength)
	merge(&out.PipeSize, o.PipeSize)
	merge(&out.WellCasingSize, o.WellCasingSize)
	merge(&out.DirectToTank, o.DirectToTank)
	merge(&out.HasStorageTank, o.HasStorageTank)
	merge(&out.SandyWater, o.SandyWater)
	merge(&out.CustomGPD, o.CustomGPD)
	merge(&out.CustomHead, o.CustomHead)
	return out
}

// Apply writes every set field of p into d. The usage type is only taken
// while it is still unknown.
func (d *CollectedData) Apply(p Partial) {
	if ut, ok := p.UsageType.Get(); ok && (d.UsageType == "" || d.UsageType == UsageUnknown) {
		d.UsageType = ut
	}
	merge(&d.Location, p.Location)
	merge(&d.LivestockType, p.LivestockType)
	merge(&d.AnimalCount, p.AnimalCount)
	merge(&d.PeopleCount, p.PeopleCount)
	merge(&d.BathroomCount, p.BathroomCount)
	merge(&d.FixturesDescription, p.FixturesDescription)
	merge(&d.IrrigationArea, p.IrrigationArea)
	merge(&d.IrrigationMethod, p.IrrigationMethod)
	merge(&d.CropCategory, p.CropCategory)
	merge(&d.WellDepth, p.WellDepth)
	merge(&d.StaticWaterLevel, p.StaticWaterLevel)
	merge(&d.DrawdownLevel, p.DrawdownLevel)
	if est, ok := p.DrawdownEstimated.Get(); ok {
		d.DrawdownEstimated = est
	}
	merge(&d.ElevationGain, p.ElevationGain)
	merge(&d.PipeLength, p.PipeLength)
	merge(&d.PipeSize, p.PipeSize)
	merge(&d.WellCasingSize, p.WellCasingSize)
	merge(&d.DirectToTank, p.DirectToTank)
	merge(&d.HasStorageTank, p.HasStorageTank)
	merge(&d.SandyWater, p.SandyWater)
	merge(&d.CustomGPD, p.CustomGPD)
	merge(&d.CustomHead, p.CustomHead)
}
