// Package quote decides how a computed price is shown: a widened range
// before a lead is captured, the exact figure after.
package quote

// DefaultVariance is the range width used when a product does not
// declare its own.
const DefaultVariance = 0.2

// Display modes.
const (
	ModeRange = "range"
	ModeExact = "exact"
)

// Display is the user-facing view of one computed cost.
type Display struct {
	Mode  string  `json:"mode"`
	Exact float64 `json:"exact,omitempty"`
	Low   float64 `json:"low,omitempty"`
	High  float64 `json:"high,omitempty"`
}

// RangeFor widens a cost by the product's variance. By construction
// low <= cost <= high.
func RangeFor(cost, variance float64) (low, high float64) {
	if variance <= 0 {
		variance = DefaultVariance
	}
	return cost * (1 - variance), cost * (1 + variance)
}

// Presented renders a cost for display. Before lead capture the true
// cost is never shown, only the range.
func Presented(cost float64, leadCaptured bool, variance float64) Display {
	if leadCaptured {
		return Display{Mode: ModeExact, Exact: cost}
	}
	low, high := RangeFor(cost, variance)
	return Display{Mode: ModeRange, Low: low, High: high}
}
