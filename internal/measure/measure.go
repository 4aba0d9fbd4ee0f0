// Package measure converts customer-entered dimensions into the square
// footage the pricing tables are quoted in.
package measure

import (
	"regexp"
	"strconv"
	"strings"
)

// Supported input units. UnitFeetInches is the compound text format;
// the widget sends the typed string in Raw for it.
const (
	UnitMM         = "mm"
	UnitCM         = "cm"
	UnitInch       = "inch"
	UnitFeet       = "ft"
	UnitFeetInches = "ft-in"
	UnitM          = "m"
)

// Dimension is a single measurement as entered in the widget. Raw keeps
// the original text; the feet-and-inches unit parses shorthand like 6'3
// from it, while plain feet read it as a decimal.
type Dimension struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Raw   string  `json:"raw,omitempty"`
}

var feetInchesRe = regexp.MustCompile(`(\d+)[\s']*(\d+)?`)

// ToFeet converts a value in the given unit to feet. Unknown units
// convert to zero so downstream math degrades to a zero quote instead
// of a bogus one.
func ToFeet(value float64, unit string) float64 {
	switch unit {
	case UnitMM:
		return value / 304.8
	case UnitCM:
		return value / 30.48
	case UnitInch:
		return value / 12
	case UnitFeet:
		return value
	case UnitM:
		return value * 3.28084
	default:
		return 0
	}
}

// ParseFeetInches parses feet-and-inches shorthand: "6 3" and "6'3" both
// mean six feet three inches. Input with no shorthand match falls back
// to decimal feet, and unparseable input yields zero.
func ParseFeetInches(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if m := feetInchesRe.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.ParseFloat(m[1], 64)
		if m[2] != "" {
			inches, _ := strconv.ParseFloat(m[2], 64)
			feet += inches / 12
		}
		return feet
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return 0
}

// Feet resolves the dimension to feet. Raw text wins over the numeric
// value: the compound unit parses shorthand, plain feet parse a
// decimal, so typed input like "6.5" is never floored.
func (d Dimension) Feet() float64 {
	switch d.Unit {
	case UnitFeetInches:
		if d.Raw != "" {
			return ParseFeetInches(d.Raw)
		}
		return d.Value
	case UnitFeet:
		if d.Raw != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(d.Raw), 64)
			if err != nil {
				return 0
			}
			return v
		}
		return d.Value
	}
	return ToFeet(d.Value, d.Unit)
}

// Area returns the face area in square feet. Non-positive sides give a
// zero area.
func Area(width, height Dimension) float64 {
	w := width.Feet()
	h := height.Feet()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Height check outcomes.
const (
	HeightOK       = "ok"
	HeightWarning  = "warning"
	HeightExceeded = "exceeded"
)

// HeightCheck is the advisory result for a requested height.
type HeightCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckHeight compares a height in feet against the recommended and
// maximum heights for a product. Zero limits mean no limit.
func CheckHeight(heightFt, recommendedFt, maxFt float64) HeightCheck {
	if maxFt > 0 && heightFt > maxFt {
		return HeightCheck{
			Status:  HeightExceeded,
			Message: "height exceeds the maximum for this product",
		}
	}
	if recommendedFt > 0 && heightFt > recommendedFt {
		return HeightCheck{
			Status:  HeightWarning,
			Message: "height is above the recommended limit for this product",
		}
	}
	return HeightCheck{Status: HeightOK}
}
