// internal/advisor/extract/numbers.go
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reThousands   = regexp.MustCompile(`(\d),(\d{3})\b`)
	reFirstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reFirstInt    = regexp.MustCompile(`\b\d+\b`)

	reCustomGPD        = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:gpd\b|gal(?:lon)?s?\s*(?:per|a|/)\s*day)`)
	reCustomHeadAfter  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:(?:ft|feet|foot)\.?\s*(?:of\s+)?(?:total\s+dynamic\s+)?head\b|(?:ft\s*|feet\s*)?tdh\b)`)
	reCustomHeadBefore = regexp.MustCompile(`\b(?:head|tdh)\s*(?:of|is|=|:|at|around|about)?\s*(\d+(?:\.\d+)?)`)

	// outside the custom stages only total dynamic head phrasings count
	reStatedHeadAfter  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:(?:ft|feet|foot)\.?\s*(?:of\s+(?:total\s+(?:dynamic\s+)?)?head\b|(?:of\s+)?total\s+dynamic\s+head\b|(?:of\s+)?tdh\b)|tdh\b)`)
	reStatedHeadBefore = regexp.MustCompile(`\b(?:tdh|total\s+(?:dynamic\s+)?head|dynamic\s+head)\s*(?:of|is|=|:|at|around|about)?\s*(\d+(?:\.\d+)?)`)
	reFeet             = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:feet|foot|ft)\b`)
	reAcres            = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:acres?|ac)\b`)
	reInches           = regexp.MustCompile(`(\d+(?:\.\d+)?(?:[\s-]+\d+/\d+)?|\d+/\d+)\s*(?:"|inch(?:es)?\b|in\b\.?)`)
	reBathrooms        = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:full\s+|half\s+)?bath(?:room)?s?\b`)
	rePeakSunHours     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:peak\s+sun(?:light)?\s+hours|psh\b|sun\s+hours|kwh\s*/\s*m(?:2|²|\^2)\s*(?:/|per)\s*day)`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "dozen": 12,
	"fifteen": 15, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "hundred": 100,
}

// normalize lower-cases and drops thousands separators ("2,500" -> "2500").
func normalize(text string) string {
	out := strings.ToLower(text)
	for {
		next := reThousands.ReplaceAllString(out, "$1$2")
		if next == out {
			return out
		}
		out = next
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMixed understands "1.25", "3/4", "1 1/4" and "1-1/4".
func parseMixed(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		return parseFloat(s)
	}

	whole := 0.0
	frac := s
	if idx := strings.LastIndexAny(s, " -"); idx >= 0 {
		w, ok := parseFloat(s[:idx])
		if !ok {
			return 0, false
		}
		whole = w
		frac = strings.TrimSpace(s[idx+1:])
	}

	parts := strings.SplitN(frac, "/", 2)
	num, ok1 := parseFloat(parts[0])
	den, ok2 := parseFloat(parts[1])
	if !ok1 || !ok2 || den == 0 {
		return 0, false
	}
	return whole + num/den, true
}

func firstNumber(text string) (float64, bool) {
	m := reFirstNumber.FindString(normalize(text))
	if m == "" {
		return 0, false
	}
	return parseFloat(m)
}

// firstCount returns the first integer, falling back to a spelled-out count.
func firstCount(text string) (int, bool) {
	norm := normalize(text)
	if m := reFirstInt.FindString(norm); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return n, true
		}
	}
	if m := reFirstNumber.FindString(norm); m != "" {
		if f, ok := parseFloat(m); ok {
			return int(f), true
		}
	}
	for _, word := range strings.FieldsFunc(norm, func(r rune) bool { return !isWordRune(r) }) {
		if n, ok := numberWords[word]; ok {
			return n, true
		}
	}
	return 0, false
}

func submatchFloat(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(normalize(text))
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g != "" {
			return parseFloat(g)
		}
	}
	return 0, false
}

func inches(text string) (float64, bool) {
	m := reInches.FindStringSubmatch(normalize(text))
	if m == nil {
		return 0, false
	}
	return parseMixed(m[1])
}
