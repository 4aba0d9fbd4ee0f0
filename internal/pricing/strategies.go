package pricing

import (
	"math"

	"quote-service/internal/catalog"
	"quote-service/internal/cutting"
)

// Heavy glass tiers that force a hardware upgrade: thicker panes need
// reinforced hardware regardless of the lock the user picked.
var (
	casementHeavyGlass = map[string]bool{
		"10mm": true, "12mm": true, "dgu": true, "laminated": true, "safety": true,
	}
	entranceHeavyGlass = map[string]bool{
		"12mm": true, "dgu": true, "safety": true,
	}
)

// commonAddOns accumulates the per-area surcharges shared by the
// window-like families.
func commonAddOns(p *catalog.Product, sel Selection, defaultMeshTier string) float64 {
	add := glassRate(p, sel.Glass)
	if sel.Coating != "" {
		add += rate(p, p.Rates.Coating, "coating", sel.Coating)
	}
	if sel.Mesh && p.HasFeature("mesh") {
		tier := sel.MeshTier
		if tier == "" {
			tier = defaultMeshTier
		}
		add += meshRate(p, tier)
	}
	if sel.Grill && p.HasFeature("grill") {
		gt := sel.GrillType
		if gt == "" {
			gt = "aluminium12mm"
		}
		add += rate(p, p.Rates.Grill, "grill", gt)
	}
	return add
}

// upgradedHardware applies the heavy-glass hardware rule. An explicit
// multi-point lock also upgrades the hardware tier; its flat rate is
// charged only when the glass did not already force the upgrade. A
// mortice lock is always a flat add on top.
func upgradedHardware(p *catalog.Product, sel Selection, heavy map[string]bool) (hardware, flatLock float64) {
	hardware = p.Rates.Hardware
	glassUpgraded := heavy[canonicalGlassKey(sel.Glass)] && p.Rates.HardwareMultiPoint > 0
	if glassUpgraded {
		hardware = p.Rates.HardwareMultiPoint
	}
	if sel.Lock == "multiPoint" {
		if p.Rates.HardwareMultiPoint > 0 {
			hardware = p.Rates.HardwareMultiPoint
		}
		if !glassUpgraded {
			flatLock += rate(p, p.Rates.Lock, "lock", "multiPoint")
		}
	}
	if sel.Lock == "mortice" {
		flatLock += rate(p, p.Rates.Lock, "lock", "mortice")
	}
	return hardware, flatLock
}

func windowStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	addOns := commonAddOns(p, sel, "standard")

	var flatLock float64
	if sel.Lock != "" && sel.Lock != "singlePoint" {
		flatLock = rate(p, p.Rates.Lock, "lock", sel.Lock)
	}

	perUnit := p.Rates.Base*in.Area + p.Rates.Hardware + addOns*in.Area + flatLock
	return Result{PerUnit: perUnit}
}

func casementStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	addOns := commonAddOns(p, sel, "openable")
	hardware, flatLock := upgradedHardware(p, sel, casementHeavyGlass)

	perUnit := p.Rates.Base*in.Area + hardware + addOns*in.Area + flatLock
	return Result{PerUnit: perUnit}
}

func entranceStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	addOns := commonAddOns(p, sel, "security")
	hardware, flatLock := upgradedHardware(p, sel, entranceHeavyGlass)

	perUnit := p.Rates.Base*in.Area + hardware + addOns*in.Area + flatLock
	return Result{PerUnit: perUnit}
}

// trackSlidingStrategy folds the selected track tier into the base rate
// itself; the product's own glass table bundles the thinnest pane free.
func trackSlidingStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	base := p.Rates.Base + rate(p, p.Rates.TrackOptions, "track", sel.Track)
	addOns := commonAddOns(p, sel, "standard")

	perUnit := base*in.Area + p.Rates.Hardware + addOns*in.Area
	return Result{PerUnit: perUnit}
}

// fullElevationStrategy has no hardware term. Fluted glass prices from
// its own table and premium colors carry a hidden per-area upcharge.
func fullElevationStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	perSqft := p.Rates.Base
	if sel.Fluted && sel.FlutedTint != "" {
		perSqft += rate(p, p.Rates.FlutedGlass, "flutedGlass", sel.FlutedTint)
	} else {
		perSqft += glassRate(p, sel.Glass)
	}
	perSqft += optionalRate(p, p.Rates.PremiumColors, "premiumColors", sel.Color)
	if sel.Coating != "" {
		perSqft += rate(p, p.Rates.Coating, "coating", sel.Coating)
	}

	perUnit := perSqft*in.Area + p.Rates.Hardware
	return Result{PerUnit: perUnit}
}

// telescopicStrategy looks hardware up from the panel-ratio table
// instead of computing it from area.
func telescopicStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	addOns := glassRate(p, sel.Glass)
	if sel.Coating != "" {
		addOns += rate(p, p.Rates.Coating, "coating", sel.Coating)
	}
	addOns += optionalRate(p, p.Rates.Profiles, "profiles", sel.Variant)
	addOns += optionalRate(p, p.Rates.PremiumColors, "premiumColors", sel.Color)
	panelHardware := rate(p, p.Rates.PanelConfigs, "panelConfig", sel.PanelConfig)

	perUnit := in.Area*(p.Rates.Base+addOns) + panelHardware
	return Result{PerUnit: perUnit}
}

// foldSlideStrategy is purely per-area; glass deltas may be negative
// relative to the base rate.
func foldSlideStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	perSqft := p.Rates.Base + glassRate(p, sel.Glass)
	if sel.Coating != "" {
		perSqft += rate(p, p.Rates.Coating, "coating", sel.Coating)
	}
	perSqft += optionalRate(p, p.Rates.PremiumColors, "premiumColors", sel.Color)

	perUnit := perSqft * in.Area
	return Result{PerUnit: perUnit}
}

// showerStrategy prices hardware per door by finish; glass cost stays
// per-area regardless of the door count. The caller resolves L-corner
// geometry into the area before pricing.
func showerStrategy(p *catalog.Product, in Input) Result {
	sel := in.Selection
	doors := sel.Doors
	if doors <= 0 {
		doors = 1
	}

	perSqft := p.Rates.Base + glassRate(p, sel.Glass)
	perSqft += optionalRate(p, p.Rates.PremiumColors, "premiumColors", sel.Color)

	hardware := rate(p, p.Rates.HardwarePerDoor, "hardwarePerDoor", sel.Finish) * float64(doors)

	var lockExtra float64
	if sel.Lock != "" && sel.Lock != "singlePoint" {
		lockExtra = guard(p, "lockExtra", p.Rates.LockExtra)
	}

	perUnit := perSqft*in.Area + hardware + lockExtra
	return Result{PerUnit: perUnit}
}

// louverStrategy adds the cost of wasted stock material on top of the
// per-area rate. Piece count comes from the run width and the louver
// spacing; piece length is the run height.
func louverStrategy(p *catalog.Product, in Input) Result {
	perUnit := p.Rates.Base * in.Area
	res := Result{}

	if spec := p.Cutting; spec != nil {
		pieces := cutting.PiecesForRun(in.WidthFt, spec.GapInches)
		plan := cutting.Optimize(in.HeightFt, pieces, spec.StockLengths)
		cost := cutting.Cost(plan.WastageLength, cutting.CostRates{
			ReferenceWeight:     spec.ReferenceWeight,
			ReferenceLength:     spec.ReferenceLength,
			AluminiumRatePerKg:  spec.AluminiumRatePerKg,
			CoatingRatePerFt:    spec.CoatingRatePerFt,
			ExtraWastagePercent: spec.ExtraWastagePercent,
		})
		perUnit += cost.Total
		res.Plan = &plan
		res.Wastage = &cost
		if plan.NeedsJoining {
			res.Warnings = append(res.Warnings, "pieces must be joined from multiple stock lengths")
		}
	}

	res.PerUnit = perUnit
	return res
}

// claddingStrategy prices sheets over the buffered total area, then
// derives the per-unit figure, since sheet rounding spans the whole
// order rather than one facade.
func claddingStrategy(p *catalog.Product, in Input) Result {
	spec := p.Cladding
	if spec == nil {
		coerce(p, "cladding", "parameters")
		return Result{}
	}

	qty := float64(in.Quantity)
	buffered := in.Area * qty * (1 + spec.WastagePercent/100)

	var total float64
	switch spec.Brand {
	case "hpl":
		variant := in.Selection.Variant
		if variant == "" {
			variant = "facade"
		}
		var sheetCost float64
		if spec.SheetAreaSqft > 0 {
			sheets := math.Ceil(buffered / spec.SheetAreaSqft)
			sheetCost = sheets * spec.SheetAreaSqft * spec.SheetRate
		}
		install := buffered * rate(p, spec.InstallRates, "installRates", variant)
		total = sheetCost + install
	case "acp":
		total = buffered * rate(p, spec.RateMatrix, "rateMatrix", in.Selection.Variant)
	default:
		coerce(p, "cladding", spec.Brand)
	}

	return Result{PerUnit: total / qty}
}
