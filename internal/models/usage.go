// internal/models/usage.go
package models

type UsageType string

const (
	UsageUnknown    UsageType = "unknown"
	UsageLivestock  UsageType = "livestock"
	UsageHousehold  UsageType = "household"
	UsageIrrigation UsageType = "irrigation"
	UsageOther      UsageType = "other"
)

type IrrigationMethod string

const (
	IrrigationDrip      IrrigationMethod = "drip"
	IrrigationSprinkler IrrigationMethod = "sprinkler"
	IrrigationFlood     IrrigationMethod = "flood"
)

type CropCategory string

const (
	CropVegetables CropCategory = "vegetables"
	CropFruits     CropCategory = "fruits"
	CropLawn       CropCategory = "lawn"
)

// Species drives the per-head daily water need.
type Species string

const (
	SpeciesBeef  Species = "beef"
	SpeciesDairy Species = "dairy"
	SpeciesHorse Species = "horse"
	SpeciesGoat  Species = "goat"
	SpeciesSheep Species = "sheep"
)

type GardenSize string

const (
	GardenNone   GardenSize = ""
	GardenSmall  GardenSize = "small"
	GardenMedium GardenSize = "medium"
	GardenLarge  GardenSize = "large"
)
