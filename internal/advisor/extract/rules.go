// internal/advisor/extract/rules.go
package extract

import (
	"strings"
	"unicode"

	"pump-advisor/internal/models"
)

// Rule maps a keyword set onto a value. Keywords match case-insensitively
// at the start of a word; Exact rules must match a whole word.
type Rule[T any] struct {
	Keywords []string
	Exact    bool
	Value    T
}

// Classify returns the value of the first rule with a matching keyword.
func Classify[T any](text string, rules []Rule[T]) models.Optional[T] {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if containsKeyword(lower, kw, r.Exact) {
				return models.Some(r.Value)
			}
		}
	}
	return models.None[T]()
}

// Matches reports whether any keyword occurs in text.
func Matches(text string, keywords []string, exact bool) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if containsKeyword(lower, kw, exact) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

func containsKeyword(lower, kw string, exact bool) bool {
	for from := 0; from <= len(lower)-len(kw); {
		i := strings.Index(lower[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)

		leftOK := start == 0 || !isWordRune(rune(lower[start-1]))
		rightOK := !exact || end == len(lower) || !isWordRune(rune(lower[end]))
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
	return false
}

var usageRules = []Rule[models.UsageType]{
	{Keywords: []string{"livestock", "cattle", "cow", "beef", "dairy", "horse", "goat", "sheep",
		"animal", "herd", "stock tank", "trough", "pasture"}, Value: models.UsageLivestock},
	{Keywords: []string{"irrigat", "crop", "acre", "orchard", "field", "lawn", "sprinkler", "drip"},
		Value: models.UsageIrrigation},
	{Keywords: []string{"house", "home", "domestic", "family", "drinking", "cabin", "residential"},
		Value: models.UsageHousehold},
	{Keywords: []string{"other", "pond", "fountain", "industrial", "commercial", "custom"},
		Value: models.UsageOther},
}

var irrigationMethodRules = []Rule[models.IrrigationMethod]{
	{Keywords: []string{"drip", "trickle", "micro"}, Value: models.IrrigationDrip},
	{Keywords: []string{"flood", "furrow", "gravity"}, Value: models.IrrigationFlood},
	{Keywords: []string{"sprinkler", "pivot", "spray", "rotor", "overhead"}, Value: models.IrrigationSprinkler},
}

var cropRules = []Rule[models.CropCategory]{
	{Keywords: []string{"vegetable", "veg", "tomato", "pepper", "garden", "market"}, Value: models.CropVegetables},
	{Keywords: []string{"lawn", "grass", "turf", "yard"}, Value: models.CropLawn},
	{Keywords: []string{"fruit", "orchard", "tree", "berr", "vine", "grape", "apple", "citrus"}, Value: models.CropFruits},
}

var speciesRules = []Rule[models.Species]{
	{Keywords: []string{"dairy", "milk"}, Value: models.SpeciesDairy},
	{Keywords: []string{"horse", "pony", "mule", "donkey"}, Value: models.SpeciesHorse},
	{Keywords: []string{"goat"}, Value: models.SpeciesGoat},
	{Keywords: []string{"sheep", "lamb", "ewe"}, Value: models.SpeciesSheep},
}

var gardenRules = []Rule[models.GardenSize]{
	{Keywords: []string{"large garden", "big garden", "large"}, Value: models.GardenLarge},
	{Keywords: []string{"medium garden", "medium"}, Value: models.GardenMedium},
	{Keywords: []string{"garden"}, Value: models.GardenSmall},
}

// ELEVATION answers decide direct-to-tank both ways; elsewhere only a
// positive mention is taken.
var directToTankRules = []Rule[bool]{
	{Keywords: []string{"not direct", "storage tank", "cistern", "pressure tank"}, Value: false},
	{Keywords: []string{"direct", "straight to", "straight into", "stock tank", "trough"}, Value: true},
	{Keywords: []string{"no", "nope"}, Exact: true, Value: false},
}

var directToTankMentions = []string{"directly to", "directly into", "straight to the stock tank",
	"straight into the stock tank", "into a stock tank", "into the stock tank", "into the trough"}

var storageTankRules = []Rule[bool]{
	{Keywords: []string{"no", "nope", "none", "don't", "dont", "not"}, Exact: true, Value: false},
	{Keywords: []string{"yes", "yeah", "yep", "have", "tank", "cistern", "gallon"}, Value: true},
}

var sandyWaterRules = []Rule[bool]{
	{Keywords: []string{"no sand", "no grit", "no silt", "no sediment", "no dirt", "without sand", "without sediment",
		"not sandy", "isn't sandy", "isnt sandy", "never sandy", "not cloudy", "isn't cloudy", "isnt cloudy",
		"never cloudy", "not dirty", "never dirty", "free of", "clean", "clear", "good quality"}, Value: false},
	{Keywords: []string{"sand", "grit", "silt", "sediment", "cloudy", "dirty"}, Value: true},
	{Keywords: []string{"no", "nope", "none"}, Exact: true, Value: false},
}

var elevationNoneKeywords = []string{"flat", "level", "none", "no", "zero", "downhill"}

var affirmativeKeywords = []string{"yes", "yep", "yeah", "correct", "right", "looks good", "sounds good", "all good"}

var negationKeywords = []string{"no", "not", "wrong", "incorrect", "isn't", "isnt", "aren't", "arent"}

// negationStems also match inflections ("changed", "changes").
var negationStems = []string{"change"}

// unchangedPhrases confirm despite containing a negation word.
var unchangedPhrases = []string{"no changes", "no change", "nothing to change", "no need to change"}
