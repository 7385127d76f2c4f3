// internal/models/stage.go
package models

// Stage is the question the assistant is currently waiting on.
type Stage string

const (
	StageGreeting       Stage = "GREETING"
	StageUsageType      Stage = "USAGE_TYPE"
	StageLocation       Stage = "LOCATION"
	StageLivestockType  Stage = "LIVESTOCK_TYPE"
	StageAnimalCount    Stage = "ANIMAL_COUNT"
	StagePeopleCount    Stage = "PEOPLE_COUNT"
	StageFixturesCount  Stage = "FIXTURES_COUNT"
	StageIrrigationArea Stage = "IRRIGATION_AREA"
	StageIrrigationType Stage = "IRRIGATION_TYPE"
	StageCropType       Stage = "CROP_TYPE"
	StageCustomFlow     Stage = "CUSTOM_FLOW"
	StageCustomHead     Stage = "CUSTOM_HEAD"
	StageWellDepth      Stage = "WELL_DEPTH"
	StageStaticWater    Stage = "STATIC_WATER"
	StageDrawdown       Stage = "DRAWDOWN"
	StageElevation      Stage = "ELEVATION"
	StagePipeInfo       Stage = "PIPE_INFO"
	StageStorageTank    Stage = "STORAGE_TANK"
	StageWaterQuality   Stage = "WATER_QUALITY"
	StageWellCasing     Stage = "WELL_CASING"
	StageSummary        Stage = "SUMMARY"
	StageRecommendation Stage = "RECOMMENDATION"
)

// AllStages lists every stage in dialogue order, branches grouped.
var AllStages = []Stage{
	StageGreeting, StageUsageType, StageLocation,
	StageLivestockType, StageAnimalCount,
	StagePeopleCount, StageFixturesCount,
	StageIrrigationArea, StageIrrigationType, StageCropType,
	StageCustomFlow, StageCustomHead,
	StageWellDepth, StageStaticWater, StageDrawdown, StageElevation,
	StagePipeInfo, StageStorageTank, StageWaterQuality, StageWellCasing,
	StageSummary, StageRecommendation,
}

// UsageSpecific reports whether the stage belongs to one of the usage branches
// (or precedes them), i.e. the part of the dialogue a custom override skips.
func (s Stage) UsageSpecific() bool {
	switch s {
	case StageGreeting, StageUsageType, StageLocation,
		StageLivestockType, StageAnimalCount,
		StagePeopleCount, StageFixturesCount,
		StageIrrigationArea, StageIrrigationType, StageCropType,
		StageCustomFlow, StageCustomHead:
		return true
	}
	return false
}

func (s Stage) Valid() bool {
	for _, st := range AllStages {
		if st == s {
			return true
		}
	}
	return false
}
