// internal/advisor/extract/extract_test.go
package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-advisor/internal/models"
)

// ==========================
// Keyword classification
// ==========================

func TestForStage_UsageType(t *testing.T) {
	tests := []struct {
		text string
		want models.Optional[models.UsageType]
	}{
		{"Watering about 40 head of cattle", models.Some(models.UsageLivestock)},
		{"I want to irrigate my orchard", models.Some(models.UsageIrrigation)},
		{"It's for our house", models.Some(models.UsageHousehold)},
		{"a decorative pond", models.Some(models.UsageOther)},
		{"dunno yet", models.None[models.UsageType]()},
		// livestock wins over household by rule order
		{"home ranch with horses", models.Some(models.UsageLivestock)},
		// keywords must start a word
		{"my mother asked", models.None[models.UsageType]()},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := ForStage(models.StageUsageType, tt.text, models.NewCollectedData())
			assert.Equal(t, tt.want, p.UsageType)
		})
	}
}

func TestForStage_IrrigationAndCrop(t *testing.T) {
	prior := models.NewCollectedData()

	assert.Equal(t, models.Some(models.IrrigationDrip),
		ForStage(models.StageIrrigationType, "Drip lines", prior).IrrigationMethod)
	assert.Equal(t, models.Some(models.IrrigationFlood),
		ForStage(models.StageIrrigationType, "we flood the furrows", prior).IrrigationMethod)
	assert.False(t, ForStage(models.StageIrrigationType, "not sure", prior).IrrigationMethod.IsSet())

	assert.Equal(t, models.Some(models.CropVegetables),
		ForStage(models.StageCropType, "market vegetables", prior).CropCategory)
	assert.Equal(t, models.Some(models.CropLawn),
		ForStage(models.StageCropType, "Just the lawn", prior).CropCategory)
	assert.Equal(t, models.Some(models.CropFruits),
		ForStage(models.StageCropType, "apple trees", prior).CropCategory)
}

func TestForStage_Booleans(t *testing.T) {
	prior := models.NewCollectedData()

	tests := []struct {
		name  string
		stage models.Stage
		text  string
		get   func(models.Partial) models.Optional[bool]
		want  models.Optional[bool]
	}{
		{"sandy yes", models.StageWaterQuality, "Yes, it's pretty sandy", sandy, models.Some(true)},
		{"sandy negated phrase", models.StageWaterQuality, "no sand at all", sandy, models.Some(false)},
		{"sandy plain no", models.StageWaterQuality, "No", sandy, models.Some(false)},
		{"sandy unknown", models.StageWaterQuality, "hmm", sandy, models.None[bool]()},
		{"no sediment", models.StageWaterQuality, "no sediment", sandy, models.Some(false)},
		{"no silt", models.StageWaterQuality, "there's no silt in it", sandy, models.Some(false)},
		{"no grit", models.StageWaterQuality, "no grit, tastes fine", sandy, models.Some(false)},
		{"never cloudy", models.StageWaterQuality, "it's never cloudy", sandy, models.Some(false)},
		{"sediment yes", models.StageWaterQuality, "some sediment after heavy rain", sandy, models.Some(true)},
		{"tank have", models.StageStorageTank, "We have a 1500 gallon tank", tank, models.Some(true)},
		{"tank don't", models.StageStorageTank, "I don't have one", tank, models.Some(false)},
		{"tank no is whole word", models.StageStorageTank, "I know we have a cistern", tank, models.Some(true)},
		{"direct yes", models.StageElevation, "20 ft, straight into a stock tank", direct, models.Some(true)},
		{"direct storage", models.StageElevation, "30 feet up to a storage tank", direct, models.Some(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.get(ForStage(tt.stage, tt.text, prior)))
		})
	}
}

func sandy(p models.Partial) models.Optional[bool]  { return p.SandyWater }
func tank(p models.Partial) models.Optional[bool]   { return p.HasStorageTank }
func direct(p models.Partial) models.Optional[bool] { return p.DirectToTank }

// ==========================
// Numeric extraction
// ==========================

func TestForStage_Numbers(t *testing.T) {
	prior := models.NewCollectedData()

	assert.Equal(t, models.Some(250.0), ForStage(models.StageWellDepth, "about 250 feet deep", prior).WellDepth)
	assert.Equal(t, models.Some(1200.0), ForStage(models.StageWellDepth, "1,200 ft", prior).WellDepth)
	assert.Equal(t, models.Some(85.5), ForStage(models.StageStaticWater, "85.5", prior).StaticWaterLevel)
	assert.False(t, ForStage(models.StageWellDepth, "no idea", prior).WellDepth.IsSet())

	assert.Equal(t, models.Some(20), ForStage(models.StageAnimalCount, "20 cows", prior).AnimalCount)
	assert.Equal(t, models.Some(4), ForStage(models.StagePeopleCount, "four of us", prior).PeopleCount)
	assert.Equal(t, models.Some(12), ForStage(models.StageAnimalCount, "a dozen goats", prior).AnimalCount)

	assert.Equal(t, models.Some(2.5), ForStage(models.StageIrrigationArea, "2.5 acres", prior).IrrigationArea)
	assert.Equal(t, models.Some(3.0), ForStage(models.StageIrrigationArea, "3", prior).IrrigationArea)
}

func TestForStage_Elevation(t *testing.T) {
	prior := models.NewCollectedData()

	p := ForStage(models.StageElevation, "it's 40 feet uphill", prior)
	assert.Equal(t, models.Some(40.0), p.ElevationGain)

	p = ForStage(models.StageElevation, "flat ground", prior)
	assert.Equal(t, models.Some(0.0), p.ElevationGain)

	p = ForStage(models.StageElevation, "not sure", prior)
	assert.False(t, p.ElevationGain.IsSet())
}

func TestForStage_Fixtures(t *testing.T) {
	p := ForStage(models.StageFixturesCount, "2.5 bathrooms, a kitchen and a large garden", models.NewCollectedData())
	assert.Equal(t, models.Some(2.5), p.BathroomCount)
	assert.Equal(t, models.Some("2.5 bathrooms, a kitchen and a large garden"), p.FixturesDescription)

	p = ForStage(models.StageFixturesCount, "two baths", models.NewCollectedData())
	assert.Equal(t, models.Some(2.0), p.BathroomCount)
}

func TestForStage_PipeInfo(t *testing.T) {
	tests := []struct {
		text       string
		wantSize   models.Optional[float64]
		wantLength models.Optional[float64]
	}{
		{`300 feet of 1-1/4" pipe`, models.Some(1.25), models.Some(300.0)},
		{"1 1/4 inch, 150 ft", models.Some(1.25), models.Some(150.0)},
		{"3/4 in poly, about 90", models.Some(0.75), models.Some(90.0)},
		{"2 inch pipe", models.Some(2.0), models.None[float64]()},
		{"about 500 ft", models.None[float64](), models.Some(500.0)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := ForStage(models.StagePipeInfo, tt.text, models.NewCollectedData())
			assert.Equal(t, tt.wantSize, p.PipeSize)
			assert.Equal(t, tt.wantLength, p.PipeLength)
		})
	}
}

func TestForStage_Casing(t *testing.T) {
	prior := models.NewCollectedData()
	assert.Equal(t, models.Some(6.0), ForStage(models.StageWellCasing, `6" steel casing`, prior).WellCasingSize)
	assert.Equal(t, models.Some(4.0), ForStage(models.StageWellCasing, "4", prior).WellCasingSize)
}

func TestForStage_DrawdownEstimate(t *testing.T) {
	prior := models.NewCollectedData()
	prior.StaticWaterLevel = models.Some(100.0)

	p := ForStage(models.StageDrawdown, "I have no idea", prior)
	assert.Equal(t, models.Some(10.0), p.DrawdownLevel)
	assert.Equal(t, models.Some(true), p.DrawdownEstimated)

	p = ForStage(models.StageDrawdown, "about 25 feet", prior)
	assert.Equal(t, models.Some(25.0), p.DrawdownLevel)
	assert.Equal(t, models.Some(false), p.DrawdownEstimated)
}

// ==========================
// Overrides
// ==========================

func TestOverrides(t *testing.T) {
	tests := []struct {
		name     string
		stage    models.Stage
		text     string
		wantFlow models.Optional[float64]
		wantHead models.Optional[float64]
	}{
		{"both in one message", models.StageUsageType, "I need 2,000 gpd at 150 ft of head", models.Some(2000.0), models.Some(150.0)},
		{"gallons per day and tdh", models.StageUsageType, "1500 gallons per day, 220 TDH", models.Some(1500.0), models.Some(220.0)},
		{"total dynamic head first", models.StageLocation, "total dynamic head of 90 feet, 800 gal/day", models.Some(800.0), models.Some(90.0)},
		{"tdh first", models.StageWellDepth, "TDH is 140", models.None[float64](), models.Some(140.0)},
		{"livestock head is not a head override", models.StageLivestockType, "30 head of cattle", models.None[float64](), models.None[float64]()},
		{"well depth is not a head override", models.StageWellDepth, "my well is 200 feet deep", models.None[float64](), models.None[float64]()},
		{"elevation head is not a head override", models.StageElevation, "the elevation head is 30 ft up to a storage tank", models.None[float64](), models.None[float64]()},
		{"static head is not a head override", models.StageStaticWater, "static head 80 feet", models.None[float64](), models.None[float64]()},
		{"bare head phrasing on the flow question", models.StageCustomFlow, "800 gal/day, head of 90 feet", models.Some(800.0), models.Some(90.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Overrides(tt.stage, tt.text)
			assert.Equal(t, tt.wantFlow, p.CustomGPD)
			assert.Equal(t, tt.wantHead, p.CustomHead)
		})
	}

	assert.Equal(t, models.Some(true), Overrides(models.StageElevation, "it pumps directly into the stock tank").DirectToTank)
	assert.False(t, Overrides(models.StageElevation, "30 feet").DirectToTank.IsSet())
}

func TestForStage_CustomStagesAcceptBareNumbers(t *testing.T) {
	prior := models.NewCollectedData()
	assert.Equal(t, models.Some(750.0), ForStage(models.StageCustomFlow, "750", prior).CustomGPD)
	assert.Equal(t, models.Some(180.0), ForStage(models.StageCustomHead, "180 feet", prior).CustomHead)
	assert.Equal(t, models.Some(95.0), ForStage(models.StageCustomHead, "head is 95", prior).CustomHead)
}

// ==========================
// Helpers used by sizing and conversation
// ==========================

func TestSpeciesAndGarden(t *testing.T) {
	assert.Equal(t, models.SpeciesDairy, Species("Holstein dairy cows"))
	assert.Equal(t, models.SpeciesHorse, Species("a few horses"))
	assert.Equal(t, models.SpeciesBeef, Species("Angus"))

	assert.Equal(t, models.GardenLarge, Garden("big garden out back"))
	assert.Equal(t, models.GardenMedium, Garden("medium garden"))
	assert.Equal(t, models.GardenSmall, Garden("a garden"))
	assert.Equal(t, models.GardenNone, Garden("kitchen and laundry"))

	assert.True(t, MentionsKitchen("Kitchen sink"))
	assert.True(t, MentionsLaundry("washing machine"))
}

func TestAffirmative(t *testing.T) {
	assert.True(t, Affirmative("Yes"))
	assert.True(t, Affirmative("that's right"))
	assert.True(t, Affirmative("Looks good to me"))
	assert.True(t, Affirmative("yes, no changes"))
	assert.False(t, Affirmative("that's not right"))
	assert.False(t, Affirmative("the pipe is wrong"))
	assert.False(t, Affirmative("alright, change the pipe")) // "right" inside a word
	assert.False(t, Affirmative("yes, but change the pipe length to 400 feet"))
	assert.False(t, Affirmative("correct except the well depth changed"))
	assert.False(t, Affirmative("no, that's not correct"))
	assert.True(t, Affirmative("yes, nothing to change"))
	assert.True(t, Affirmative("yes, I know")) // "no" must be a whole word
}

func TestPeakSunHours(t *testing.T) {
	assert.Equal(t, models.Some(5.8), PeakSunHours("Averages 5.8 peak sun hours per day"))
	assert.Equal(t, models.Some(6.1), PeakSunHours("annual GHI of 6.1 kWh/m2/day"))
	assert.False(t, PeakSunHours("41 peak sun hours").IsSet())
	assert.False(t, PeakSunHours("no data").IsSet())
}

func TestForStage_Idempotent(t *testing.T) {
	prior := models.NewCollectedData()
	prior.StaticWaterLevel = models.Some(120.0)

	for _, stage := range models.AllStages {
		text := `About 120 ft, 1-1/4" pipe, 2000 gpd, sandy, yes`
		first := ForStage(stage, text, prior)
		second := ForStage(stage, text, prior)
		require.Equal(t, first, second, "stage %s", stage)
	}
}
