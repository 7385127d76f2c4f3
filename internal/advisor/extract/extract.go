// internal/advisor/extract/extract.go
package extract

import (
	"strings"

	"pump-advisor/internal/models"
)

// ForStage extracts the fields owned by stage from one user message.
// prior is read only and is used for derived values (estimated drawdown).
// The result depends only on its arguments.
func ForStage(stage models.Stage, text string, prior models.CollectedData) models.Partial {
	var p models.Partial
	trimmed := strings.TrimSpace(text)

	switch stage {
	case models.StageUsageType:
		p.UsageType = Classify(text, usageRules)

	case models.StageLocation:
		if trimmed != "" {
			p.Location = models.Some(trimmed)
		}

	case models.StageLivestockType:
		if trimmed != "" {
			p.LivestockType = models.Some(trimmed)
		}
		// "40 head of beef cattle" answers the next question early
		if n, ok := firstCount(text); ok {
			p.AnimalCount = models.Some(n)
		}

	case models.StageAnimalCount:
		p.AnimalCount = count(text)

	case models.StagePeopleCount:
		p.PeopleCount = count(text)

	case models.StageFixturesCount:
		if v, ok := submatchFloat(reBathrooms, text); ok {
			p.BathroomCount = models.Some(v)
		} else if v, ok := firstNumber(text); ok {
			p.BathroomCount = models.Some(v)
		} else if n, ok := firstCount(text); ok {
			p.BathroomCount = models.Some(float64(n))
		}
		if trimmed != "" {
			p.FixturesDescription = models.Some(trimmed)
		}

	case models.StageIrrigationArea:
		p.IrrigationArea = Acres(text)
		if !p.IrrigationArea.IsSet() {
			p.IrrigationArea = number(text)
		}

	case models.StageIrrigationType:
		p.IrrigationMethod = Classify(text, irrigationMethodRules)

	case models.StageCropType:
		p.CropCategory = Classify(text, cropRules)

	case models.StageCustomFlow:
		p.CustomGPD = CustomGPD(text)
		if !p.CustomGPD.IsSet() {
			p.CustomGPD = number(text)
		}

	case models.StageCustomHead:
		p.CustomHead = CustomHead(text)
		if !p.CustomHead.IsSet() {
			p.CustomHead = number(text)
		}

	case models.StageWellDepth:
		p.WellDepth = number(text)

	case models.StageStaticWater:
		p.StaticWaterLevel = number(text)

	case models.StageDrawdown:
		if v, ok := firstNumber(text); ok {
			p.DrawdownLevel = models.Some(v)
			p.DrawdownEstimated = models.Some(false)
		} else {
			p.DrawdownLevel = models.Some(EstimateDrawdown(prior.StaticWaterLevel.OrElse(0)))
			p.DrawdownEstimated = models.Some(true)
		}

	case models.StageElevation:
		p.ElevationGain = number(text)
		if !p.ElevationGain.IsSet() && Matches(text, elevationNoneKeywords, true) {
			p.ElevationGain = models.Some(0.0)
		}
		p.DirectToTank = Classify(text, directToTankRules)

	case models.StagePipeInfo:
		size, hasSize := inches(text)
		if hasSize {
			p.PipeSize = models.Some(size)
		}
		if v, ok := submatchFloat(reFeet, text); ok {
			p.PipeLength = models.Some(v)
		} else if v, ok := firstNumber(withoutInches(text)); ok {
			p.PipeLength = models.Some(v)
		}

	case models.StageStorageTank:
		p.HasStorageTank = Classify(text, storageTankRules)

	case models.StageWaterQuality:
		p.SandyWater = Classify(text, sandyWaterRules)

	case models.StageWellCasing:
		if v, ok := inches(text); ok {
			p.WellCasingSize = models.Some(v)
		} else {
			p.WellCasingSize = number(text)
		}
	}

	return p
}

// Overrides looks for flow and head overrides and a direct-to-tank mention,
// which may appear in any message before the summary. While the custom
// flow or head question is open any head phrasing is accepted.
func Overrides(stage models.Stage, text string) models.Partial {
	var p models.Partial
	p.CustomGPD = CustomGPD(text)
	if stage == models.StageCustomFlow || stage == models.StageCustomHead {
		p.CustomHead = CustomHead(text)
	} else {
		p.CustomHead = statedHead(text)
	}
	if Matches(text, directToTankMentions, false) {
		p.DirectToTank = models.Some(true)
	}
	return p
}

// EstimateDrawdown is used when the user cannot give a measured drawdown.
func EstimateDrawdown(staticLevel float64) float64 {
	return staticLevel * 0.10
}

func CustomGPD(text string) models.Optional[float64] {
	if v, ok := submatchFloat(reCustomGPD, text); ok {
		return models.Some(v)
	}
	return models.None[float64]()
}

func CustomHead(text string) models.Optional[float64] {
	if v, ok := submatchFloat(reCustomHeadAfter, text); ok {
		return models.Some(v)
	}
	if v, ok := submatchFloat(reCustomHeadBefore, text); ok {
		return models.Some(v)
	}
	return models.None[float64]()
}

func statedHead(text string) models.Optional[float64] {
	if v, ok := submatchFloat(reStatedHeadAfter, text); ok {
		return models.Some(v)
	}
	if v, ok := submatchFloat(reStatedHeadBefore, text); ok {
		return models.Some(v)
	}
	return models.None[float64]()
}

func Acres(text string) models.Optional[float64] {
	if v, ok := submatchFloat(reAcres, text); ok {
		return models.Some(v)
	}
	return models.None[float64]()
}

// Species resolves a free-text livestock description, beef by default.
func Species(description string) models.Species {
	return Classify(description, speciesRules).OrElse(models.SpeciesBeef)
}

// Garden returns the garden size mentioned in a fixtures description.
func Garden(description string) models.GardenSize {
	return Classify(description, gardenRules).OrElse(models.GardenNone)
}

func MentionsKitchen(description string) bool {
	return Matches(description, []string{"kitchen"}, false)
}

func MentionsLaundry(description string) bool {
	return Matches(description, []string{"laundry", "washer", "washing machine"}, false)
}

// Affirmative reports a confirmation that is not negated in the same
// message. "yes, but change the pipe" is a correction.
func Affirmative(text string) bool {
	if !Matches(text, affirmativeKeywords, true) {
		return false
	}
	rest := strings.ToLower(text)
	for _, phrase := range unchangedPhrases {
		rest = strings.ReplaceAll(rest, phrase, " ")
	}
	return !Matches(rest, negationKeywords, true) && !Matches(rest, negationStems, false)
}

// PeakSunHours reads an insolation figure out of a search snippet. Values
// outside 2..8 hours are ignored as implausible.
func PeakSunHours(snippet string) models.Optional[float64] {
	v, ok := submatchFloat(rePeakSunHours, snippet)
	if !ok || v < 2 || v > 8 {
		return models.None[float64]()
	}
	return models.Some(v)
}

func number(text string) models.Optional[float64] {
	if v, ok := firstNumber(text); ok {
		return models.Some(v)
	}
	return models.None[float64]()
}

func count(text string) models.Optional[int] {
	if n, ok := firstCount(text); ok {
		return models.Some(n)
	}
	return models.None[int]()
}

func withoutInches(text string) string {
	return reInches.ReplaceAllString(normalize(text), " ")
}
