package candidate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const digits = `(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// priceRegex matches "$1,234.50", "USD 99", "€80", "1,200 EUR", "80 €" or "45 dollars".
// "$" and "£" only count as prefixes so "in 2024 $450" reads as 450.
var priceRegex = regexp.MustCompile(
	`(?i)(?:US\$|[$€£]|(?:USD|EUR|GBP)\b)\s?` + digits +
		`|` + digits + `\s?(?:€|(?:USD|EUR|GBP|dollars?|euros?)\b)`,
)

// ExtractPrice returns the first currency-marked amount found in text.
func ExtractPrice(text string) (float64, bool) {
	m := priceRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ParseAmount reads a loosely formatted amount: a plain number, a number with
// separators or a currency-marked string. Unreadable input yields false.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	plain := strings.NewReplacer(",", "", "$", "", "€", "", "£", "", " ", "").Replace(s)
	if v, err := strconv.ParseFloat(plain, 64); err == nil {
		return clampPrice(v), true
	}
	if v, ok := ExtractPrice(s); ok {
		return v, true
	}
	return 0, false
}

// priceRange is the [min, max) interval used for synthesized prices.
type priceRange struct {
	min, max float64
}

var fallbackPrices = map[EntityKind]priceRange{
	KindFlight:  {200, 1200},
	KindLodging: {60, 400},
	KindPOI:     {0, 60},
}

func randomPrice(rng RandSource, kind EntityKind) float64 {
	r := fallbackPrices[kind]
	return roundCents(r.min + rng.Float64()*(r.max-r.min))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPrice(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return roundCents(v)
}
