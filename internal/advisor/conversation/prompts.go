// internal/advisor/conversation/prompts.go
package conversation

import (
	"fmt"
	"strings"

	"pump-advisor/internal/models"
)

var questions = map[models.Stage]string{
	models.StageGreeting:       "Hi! I can size a solar water pump for you. Tell me a little about your project.",
	models.StageUsageType:      "What will the water be used for: livestock, household, irrigation, or something else?",
	models.StageLocation:       "Where is the well located (town, county or state)?",
	models.StageLivestockType:  "What kind of livestock are you watering (beef cattle, dairy, horses, goats, sheep)?",
	models.StageAnimalCount:    "How many head do you need to water?",
	models.StagePeopleCount:    "How many people live in the home?",
	models.StageFixturesCount:  "How many bathrooms are there, and do you have a kitchen, laundry or garden (small, medium or large)?",
	models.StageIrrigationArea: "How many acres do you want to irrigate?",
	models.StageIrrigationType: "Which irrigation method do you use: drip, sprinkler or flood?",
	models.StageCropType:       "What are you growing: vegetables, fruit or lawn?",
	models.StageCustomFlow:     "How many gallons per day do you need?",
	models.StageCustomHead:     "Do you know the total dynamic head, in feet?",
	models.StageWellDepth:      "How deep is the well, in feet?",
	models.StageStaticWater:    "What is the static water level (feet from the surface to the water when the pump is off)?",
	models.StageDrawdown:       "Do you know the drawdown while pumping? If not, I'll estimate it.",
	models.StageElevation:      "How much higher is the delivery point than the well head, in feet? Does the water go directly into a stock tank?",
	models.StagePipeInfo:       "How long is the pipe run from the well, and what is the pipe diameter?",
	models.StageStorageTank:    "Do you have a storage tank?",
	models.StageWaterQuality:   "Is the water sandy or silty?",
	models.StageWellCasing:     "What is the inside diameter of the well casing, in inches?",
	models.StageSummary:        "Does this summary look right? Reply yes, or tell me what to change.",
	models.StageRecommendation: "Here is your recommended system. Let me know if you want to change anything.",
}

// NextQuestion is the question the assistant should ask at stage.
func NextQuestion(stage models.Stage) string {
	if q, ok := questions[stage]; ok {
		return q
	}
	return questions[models.StageGreeting]
}

// Summary renders the collected answers for the confirmation step.
// Unanswered fields are left out.
func Summary(d models.CollectedData) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "- %s: %s\n", label, value)
	}
	num := func(label string, v models.Optional[float64], unit string) {
		if x, ok := v.Get(); ok {
			line(label, fmt.Sprintf("%g%s", x, unit))
		}
	}

	line("Usage", string(d.UsageType))
	if v, ok := d.Location.Get(); ok {
		line("Location", v)
	}

	switch d.UsageType {
	case models.UsageLivestock:
		if v, ok := d.LivestockType.Get(); ok {
			line("Livestock", v)
		}
		if v, ok := d.AnimalCount.Get(); ok {
			line("Head", fmt.Sprint(v))
		}
	case models.UsageHousehold:
		if v, ok := d.PeopleCount.Get(); ok {
			line("People", fmt.Sprint(v))
		}
		num("Bathrooms", d.BathroomCount, "")
		if v, ok := d.FixturesDescription.Get(); ok {
			line("Fixtures", v)
		}
	case models.UsageIrrigation:
		num("Area", d.IrrigationArea, " acres")
		if v, ok := d.IrrigationMethod.Get(); ok {
			line("Method", string(v))
		}
		if v, ok := d.CropCategory.Get(); ok {
			line("Crop", string(v))
		}
	}

	num("Custom flow", d.CustomGPD, " gal/day")
	num("Custom head", d.CustomHead, " ft")
	num("Well depth", d.WellDepth, " ft")
	num("Static water level", d.StaticWaterLevel, " ft")
	if v, ok := d.DrawdownLevel.Get(); ok {
		label := "Drawdown"
		if d.DrawdownEstimated {
			label = "Drawdown (estimated)"
		}
		line(label, fmt.Sprintf("%g ft", v))
	}
	num("Elevation gain", d.ElevationGain, " ft")
	if d.DirectToTank.OrElse(false) {
		line("Delivery", "direct to stock tank")
	} else {
		num("Pipe length", d.PipeLength, " ft")
		num("Pipe size", d.PipeSize, " in")
		if v, ok := d.HasStorageTank.Get(); ok {
			line("Storage tank", yesNo(v))
		}
	}
	if v, ok := d.SandyWater.Get(); ok {
		line("Sandy water", yesNo(v))
	}
	num("Casing", d.WellCasingSize, " in")

	return strings.TrimRight(b.String(), "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
