// internal/advisor/sizing/demand.go
package sizing

import (
	"pump-advisor/internal/advisor/extract"
	"pump-advisor/internal/models"
)

const (
	DefaultPeakSunHours      = 5.4
	DefaultOtherDailyGallons = 500.0

	gallonsPerPerson   = 80.0
	gallonsPerBathroom = 100.0
	gallonsKitchen     = 50.0
	gallonsLaundry     = 30.0
)

// summer rates, gallons per head per day
var perHeadDaily = map[models.Species]float64{
	models.SpeciesBeef:  22,
	models.SpeciesDairy: 32,
	models.SpeciesHorse: 13.5,
	models.SpeciesGoat:  4,
	models.SpeciesSheep: 4,
}

var gardenDaily = map[models.GardenSize]float64{
	models.GardenNone:   0,
	models.GardenSmall:  100,
	models.GardenMedium: 300,
	models.GardenLarge:  600,
}

// gallons per acre per day
var baseRatePerAcre = map[models.IrrigationMethod]float64{
	models.IrrigationDrip:      600,
	models.IrrigationSprinkler: 1200,
	models.IrrigationFlood:     2400,
}

var cropMultiplier = map[models.CropCategory]float64{
	models.CropVegetables: 1.2,
	models.CropFruits:     1.0,
	models.CropLawn:       1.5,
}

// DailyGallons applies the custom override first, then the usage-specific rule.
func DailyGallons(data models.CollectedData) float64 {
	if data.HasCustomFlow() {
		return data.CustomGPD.OrElse(0)
	}

	switch data.UsageType {
	case models.UsageLivestock:
		species := extract.Species(data.LivestockType.OrElse(""))
		return perHeadDaily[species] * float64(data.AnimalCount.OrElse(0))

	case models.UsageHousehold:
		fixtures := data.FixturesDescription.OrElse("")
		total := float64(data.PeopleCount.OrElse(0))*gallonsPerPerson +
			data.BathroomCount.OrElse(0)*gallonsPerBathroom
		if extract.MentionsKitchen(fixtures) {
			total += gallonsKitchen
		}
		if extract.MentionsLaundry(fixtures) {
			total += gallonsLaundry
		}
		return total + gardenDaily[extract.Garden(fixtures)]

	case models.UsageIrrigation:
		method := data.IrrigationMethod.OrElse(models.IrrigationSprinkler)
		crop := data.CropCategory.OrElse(models.CropFruits)
		return baseRatePerAcre[method] * data.IrrigationArea.OrElse(0) * cropMultiplier[crop]

	default:
		return DefaultOtherDailyGallons
	}
}

// Demand spreads the daily volume over the peak sun window.
func Demand(data models.CollectedData, peakSunHours float64) models.WaterRequirements {
	if peakSunHours <= 0 {
		peakSunHours = DefaultPeakSunHours
	}
	daily := DailyGallons(data)
	return models.WaterRequirements{
		DailyGallons: daily,
		RequiredGPM:  daily / (peakSunHours * 60),
		PeakSunHours: peakSunHours,
	}
}
