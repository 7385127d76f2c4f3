// internal/advisor/conversation/transitions.go
package conversation

import "pump-advisor/internal/models"

var branchStart = map[models.UsageType]models.Stage{
	models.UsageLivestock:  models.StageLivestockType,
	models.UsageHousehold:  models.StagePeopleCount,
	models.UsageIrrigation: models.StageIrrigationArea,
	models.UsageOther:      models.StageCustomFlow,
	models.UsageUnknown:    models.StageCustomFlow,
}

var linear = map[models.Stage]models.Stage{
	models.StageGreeting:       models.StageUsageType,
	models.StageUsageType:      models.StageLocation,
	models.StageLivestockType:  models.StageAnimalCount,
	models.StageAnimalCount:    models.StageWellDepth,
	models.StagePeopleCount:    models.StageFixturesCount,
	models.StageFixturesCount:  models.StageWellDepth,
	models.StageIrrigationArea: models.StageIrrigationType,
	models.StageIrrigationType: models.StageCropType,
	models.StageCropType:       models.StageWellDepth,
	models.StageCustomFlow:     models.StageCustomHead,
	models.StageCustomHead:     models.StageWellDepth,
	models.StageWellDepth:      models.StageStaticWater,
	models.StageStaticWater:    models.StageDrawdown,
	models.StageDrawdown:       models.StageElevation,
	models.StagePipeInfo:       models.StageStorageTank,
	models.StageStorageTank:    models.StageWaterQuality,
	models.StageWaterQuality:   models.StageWellCasing,
	models.StageWellCasing:     models.StageSummary,
}

// Next is the default progression out of a data-collecting stage.
func Next(stage models.Stage, data models.CollectedData) models.Stage {
	switch stage {
	case models.StageLocation:
		if start, ok := branchStart[data.UsageType]; ok {
			return start
		}
		return models.StageCustomFlow
	case models.StageElevation:
		if data.DirectToTank.OrElse(false) {
			return models.StageWaterQuality
		}
		return models.StagePipeInfo
	case models.StageSummary, models.StageRecommendation:
		return stage
	}
	if next, ok := linear[stage]; ok {
		return next
	}
	return stage
}

// Successors lists every stage reachable in one turn from stage, covering
// the default progression, the override short-circuit, the direct-to-tank
// skip, fast-forwarding after a correction and the correction jumps.
func Successors(stage models.Stage) []models.Stage {
	set := map[models.Stage]bool{}

	switch stage {
	case models.StageSummary:
		set[models.StageSummary] = true
		set[models.StageRecommendation] = true
		for _, c := range corrections {
			set[c.target] = true
		}
	case models.StageRecommendation:
		set[models.StageRecommendation] = true
		for _, c := range corrections {
			set[c.target] = true
		}
	default:
		// forward along the table, possibly fast-forwarding to SUMMARY
		for _, usage := range []models.UsageType{models.UsageLivestock, models.UsageHousehold,
			models.UsageIrrigation, models.UsageOther} {
			for _, direct := range []bool{false, true} {
				d := models.NewCollectedData()
				d.UsageType = usage
				d.DirectToTank = models.Some(direct)
				for s := Next(stage, d); ; s = Next(s, d) {
					set[s] = true
					if s == models.StageSummary || s == Next(s, d) {
						break
					}
				}
			}
		}
		if stage.UsageSpecific() {
			set[models.StageWellDepth] = true
		}
	}

	out := make([]models.Stage, 0, len(set))
	for _, s := range models.AllStages {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
