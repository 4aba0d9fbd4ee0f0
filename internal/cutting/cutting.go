// Package cutting plans how required piece lengths are sliced from
// available stock lengths with minimum material wastage, and prices the
// wastage in aluminium weight and coating length.
package cutting

import (
	"math"
	"sort"
)

// Plan describes how many stock units of one length cover a cut
// requirement. TotalMaterialUsed is always StockUnitsNeeded times
// StockLength, and WastageLength is never negative.
type Plan struct {
	StockLength            float64 `json:"stockLength"`
	PiecesPerStockUnit     int     `json:"piecesPerStockUnit"`
	StockUnitsNeeded       int     `json:"stockUnitsNeeded"`
	TotalMaterialUsed      float64 `json:"totalMaterialUsed"`
	ActualMaterialRequired float64 `json:"actualMaterialRequired"`
	WastageLength          float64 `json:"wastageLength"`
	NeedsJoining           bool    `json:"needsJoining,omitempty"`
}

// Optimize selects the stock length minimizing total wastage for the
// required piece length and count. Candidates are tried longest-first
// and equal wastage keeps the longer stock length, so the result is
// deterministic. When the piece is longer than every stock length, the
// longest stock is used and pieces are joined from multiple units; the
// plan is flagged NeedsJoining.
func Optimize(pieceLength float64, pieceCount int, stockLengths []float64) Plan {
	if pieceLength <= 0 || pieceCount <= 0 || len(stockLengths) == 0 {
		return Plan{}
	}

	sorted := append([]float64(nil), stockLengths...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	required := pieceLength * float64(pieceCount)

	var best Plan
	found := false
	for _, stock := range sorted {
		perUnit := int(math.Floor(stock / pieceLength))
		if perUnit == 0 {
			continue
		}
		units := int(math.Ceil(float64(pieceCount) / float64(perUnit)))
		used := float64(units) * stock
		plan := Plan{
			StockLength:            stock,
			PiecesPerStockUnit:     perUnit,
			StockUnitsNeeded:       units,
			TotalMaterialUsed:      used,
			ActualMaterialRequired: required,
			WastageLength:          used - required,
		}
		if !found || plan.WastageLength < best.WastageLength {
			best = plan
			found = true
		}
	}
	if found {
		return best
	}

	// Piece exceeds every stock length. Join from the longest stock.
	longest := sorted[0]
	unitsPerPiece := int(math.Ceil(pieceLength / longest))
	units := pieceCount * unitsPerPiece
	used := float64(units) * longest
	return Plan{
		StockLength:            longest,
		PiecesPerStockUnit:     1,
		StockUnitsNeeded:       units,
		TotalMaterialUsed:      used,
		ActualMaterialRequired: required,
		WastageLength:          used - required,
		NeedsJoining:           true,
	}
}

// CostRates parameterizes wastage costing for one product.
type CostRates struct {
	ReferenceWeight     float64
	ReferenceLength     float64
	AluminiumRatePerKg  float64
	CoatingRatePerFt    float64
	ExtraWastagePercent float64
}

// CostBreakdown itemizes the price of wasted material.
type CostBreakdown struct {
	WastageLength float64 `json:"wastageLength"`
	WastageWeight float64 `json:"wastageWeight"`
	AluminiumCost float64 `json:"aluminiumCost"`
	CoatingCost   float64 `json:"coatingCost"`
	Total         float64 `json:"total"`
}

// Cost prices a wastage length. The extra-wastage buffer is applied to
// the length before costing so it also scales the weight-based
// aluminium cost, not just the coating cost.
func Cost(wastageLength float64, r CostRates) CostBreakdown {
	if wastageLength < 0 {
		wastageLength = 0
	}
	if r.ExtraWastagePercent > 0 {
		wastageLength *= 1 + r.ExtraWastagePercent/100
	}

	var weight float64
	if r.ReferenceLength > 0 {
		weight = wastageLength * (r.ReferenceWeight / r.ReferenceLength)
	}
	aluminium := weight * r.AluminiumRatePerKg
	coating := wastageLength * r.CoatingRatePerFt

	return CostBreakdown{
		WastageLength: wastageLength,
		WastageWeight: weight,
		AluminiumCost: aluminium,
		CoatingCost:   coating,
		Total:         aluminium + coating,
	}
}

// PiecesForRun derives the louver piece count for a run width from the
// product's center-to-center spacing, rounding up.
func PiecesForRun(widthFt, gapInches float64) int {
	if widthFt <= 0 || gapInches <= 0 {
		return 0
	}
	return int(math.Ceil(widthFt * 12 / gapInches))
}
