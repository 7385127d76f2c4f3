// internal/advisor/conversation/corrections.go
package conversation

import (
	"pump-advisor/internal/advisor/extract"
	"pump-advisor/internal/models"
)

type correction struct {
	keywords []string
	usage    models.UsageType // empty applies to every usage
	target   models.Stage
}

// corrections is evaluated top to bottom; the first match wins. Casing sits
// above "well" so that "well casing" lands on the casing question.
var corrections = []correction{
	{keywords: []string{"location", "address", "county"}, target: models.StageLocation},

	{keywords: []string{"livestock", "animal", "cattle", "cow", "horse", "goat", "sheep", "breed", "species"},
		usage: models.UsageLivestock, target: models.StageLivestockType},
	{keywords: []string{"count", "how many", "head", "herd size", "number of"},
		usage: models.UsageLivestock, target: models.StageAnimalCount},

	{keywords: []string{"people", "person", "family", "household", "occupant"},
		usage: models.UsageHousehold, target: models.StagePeopleCount},
	{keywords: []string{"bathroom", "fixture", "kitchen", "laundry", "garden"},
		usage: models.UsageHousehold, target: models.StageFixturesCount},

	{keywords: []string{"acre", "area"}, usage: models.UsageIrrigation, target: models.StageIrrigationArea},
	{keywords: []string{"drip", "sprinkler", "flood", "method", "irrigation type"},
		usage: models.UsageIrrigation, target: models.StageIrrigationType},
	{keywords: []string{"crop", "vegetable", "fruit", "lawn"},
		usage: models.UsageIrrigation, target: models.StageCropType},

	{keywords: []string{"flow", "gpd", "gallons"}, usage: models.UsageOther, target: models.StageCustomFlow},
	{keywords: []string{"head", "tdh"}, usage: models.UsageOther, target: models.StageCustomHead},

	{keywords: []string{"casing"}, target: models.StageWellCasing},
	{keywords: []string{"quality", "sand", "silt", "sediment"}, target: models.StageWaterQuality},
	{keywords: []string{"drawdown"}, target: models.StageDrawdown},
	{keywords: []string{"static", "water level"}, target: models.StageStaticWater},
	{keywords: []string{"well", "depth", "deep"}, target: models.StageWellDepth},
	{keywords: []string{"elevation", "uphill", "height", "lift"}, target: models.StageElevation},
	{keywords: []string{"pipe"}, target: models.StagePipeInfo},
	{keywords: []string{"tank", "storage"}, target: models.StageStorageTank},
}

// CorrectionTarget returns the stage a correction message points back to.
func CorrectionTarget(text string, usage models.UsageType) (models.Stage, bool) {
	if usage == models.UsageUnknown {
		usage = models.UsageOther
	}
	for _, c := range corrections {
		if c.usage != "" && c.usage != usage {
			continue
		}
		if extract.Matches(text, c.keywords, false) {
			return c.target, true
		}
	}
	return "", false
}
