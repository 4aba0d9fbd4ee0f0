// Package pricing maps a resolved product, a measured area and the
// user's option selections to a deterministic price. Each product
// archetype has its own strategy sharing the common base-plus-add-ons
// shape.
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"quote-service/internal/catalog"
	"quote-service/internal/cutting"
	"quote-service/pkg/logger"
	"quote-service/prometheus"

	"go.uber.org/zap"
)

// Selection is the set of user-chosen option values for one pricing
// pass. Zero values mean "not selected".
type Selection struct {
	Glass       string `json:"glass,omitempty"`
	Coating     string `json:"coating,omitempty"`
	Lock        string `json:"lock,omitempty"`
	Mesh        bool   `json:"mesh,omitempty"`
	MeshTier    string `json:"meshTier,omitempty"`
	Grill       bool   `json:"grill,omitempty"`
	GrillType   string `json:"grillType,omitempty"`
	Color       string `json:"color,omitempty"`
	Finish      string `json:"finish,omitempty"`
	PanelConfig string `json:"panelConfig,omitempty"`
	Track       string `json:"track,omitempty"`
	Doors       int    `json:"doors,omitempty"`
	Fluted      bool   `json:"fluted,omitempty"`
	FlutedTint  string `json:"flutedTint,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

// Input is one pricing pass. Width and height are kept alongside the
// area because louver products derive piece counts from the run width.
type Input struct {
	Area      float64
	WidthFt   float64
	HeightFt  float64
	Quantity  int
	Selection Selection
}

// Result is the priced outcome of one pass. Total is always PerUnit
// times Units.
type Result struct {
	PerUnit float64 `json:"perUnit"`
	Total   float64 `json:"total"`
	Area    float64 `json:"area"`
	Units   int     `json:"units"`

	Plan     *cutting.Plan          `json:"cuttingPlan,omitempty"`
	Wastage  *cutting.CostBreakdown `json:"wastage,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

type strategy func(p *catalog.Product, in Input) Result

var strategies = map[string]strategy{
	"window":        windowStrategy,
	"casement":      casementStrategy,
	"entrance":      entranceStrategy,
	"trackSliding":  trackSlidingStrategy,
	"fullElevation": fullElevationStrategy,
	"telescopic":    telescopicStrategy,
	"foldSlide":     foldSlideStrategy,
	"shower":        showerStrategy,
	"louver":        louverStrategy,
	"cladding":      claddingStrategy,
}

// Evaluate prices one pass for the product. A non-positive area yields
// an all-zero result without touching the rules, matching the widget's
// idle state. Unknown archetypes are a configuration error.
func Evaluate(p *catalog.Product, in Input) (Result, error) {
	start := time.Now()

	strat, ok := strategies[p.Archetype]
	if !ok {
		return Result{}, fmt.Errorf("product %s has unknown archetype %q", p.ID, p.Archetype)
	}

	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if in.Area <= 0 {
		return Result{}, nil
	}

	res := strat(p, in)
	res.PerUnit = guard(p, "result", res.PerUnit)
	res.Area = in.Area
	res.Units = in.Quantity
	res.Total = res.PerUnit * float64(in.Quantity)

	prometheus.RecordQuoteComputation(p.Archetype, start)
	return res, nil
}

// canonicalGlassKey strips a size suffix from a named glass tier, so
// "safety-13.52mm" and "safety" resolve to the same rate key. Plain
// thickness keys pass through untouched.
func canonicalGlassKey(key string) string {
	if i := strings.Index(key, "-"); i > 0 {
		prefix := key[:i]
		switch prefix {
		case "safety", "dgu", "laminated":
			return prefix
		}
	}
	return key
}

// glassRate resolves the glass surcharge. The full key is tried first
// so products with composite keys keep them; the lowest "6mm" tier is
// the free baseline even when absent from the table.
func glassRate(p *catalog.Product, key string) float64 {
	if key == "" {
		return 0
	}
	table := p.Rates.Glass
	if v, ok := table[key]; ok {
		return guard(p, "glass", v)
	}
	canon := canonicalGlassKey(key)
	if v, ok := table[canon]; ok {
		return guard(p, "glass", v)
	}
	if canon == "6mm" {
		return 0
	}
	coerce(p, "glass", key)
	return 0
}

// rate resolves a required key from a table; a missing key is coerced
// to zero and reported, since it points at a configuration bug.
func rate(p *catalog.Product, table catalog.RateTable, name, key string) float64 {
	if key == "" {
		return 0
	}
	v, ok := table[key]
	if !ok {
		coerce(p, name, key)
		return 0
	}
	return guard(p, name, v)
}

// optionalRate resolves a key that is legitimately absent for most
// values, such as a premium color; absence is a zero surcharge, not a
// configuration bug.
func optionalRate(p *catalog.Product, table catalog.RateTable, name, key string) float64 {
	if key == "" {
		return 0
	}
	if v, ok := table[key]; ok {
		return guard(p, name, v)
	}
	return 0
}

func meshRate(p *catalog.Product, tier string) float64 {
	m := p.Rates.Mesh
	if m == nil {
		return 0
	}
	if m.Flat != nil {
		return guard(p, "mesh", *m.Flat)
	}
	return rate(p, m.Tiered, "mesh", tier)
}

func guard(p *catalog.Product, table string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		logger.GetLogger().Warn("Non-finite rate coerced to zero",
			zap.String("product_id", p.ID),
			zap.String("table", table))
		prometheus.RecordRateCoercion(p.ID, table)
		return 0
	}
	return v
}

func coerce(p *catalog.Product, table, key string) {
	logger.GetLogger().Warn("Missing rate key coerced to zero",
		zap.String("product_id", p.ID),
		zap.String("table", table),
		zap.String("key", key))
	prometheus.RecordRateCoercion(p.ID, table)
}
