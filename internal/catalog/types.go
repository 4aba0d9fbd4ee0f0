package catalog

import (
	"encoding/json"
	"fmt"
)

// RateTable maps an option key, such as a glass thickness or a lock
// tier, to its surcharge. Values are per square foot or flat per unit
// depending on the category.
type RateTable map[string]float64

// MeshRate is either a flat per-area number (legacy format) or a table
// keyed by mesh tier ("standard", "openable", "security"). After the
// merge step both views may be populated: Flat keeps the legacy number
// and Tiered carries the structured table for callers that need it.
type MeshRate struct {
	Flat   *float64
	Tiered RateTable
}

// UnmarshalJSON accepts both a bare number and a tier object.
func (m *MeshRate) UnmarshalJSON(data []byte) error {
	var flat float64
	if err := json.Unmarshal(data, &flat); err == nil {
		m.Flat = &flat
		m.Tiered = nil
		return nil
	}
	var tiered RateTable
	if err := json.Unmarshal(data, &tiered); err == nil {
		m.Flat = nil
		m.Tiered = tiered
		return nil
	}
	return fmt.Errorf("mesh rate is neither a number nor a tier table")
}

// MarshalJSON writes the legacy flat form when present, otherwise the
// tier table.
func (m MeshRate) MarshalJSON() ([]byte, error) {
	if m.Flat != nil {
		return json.Marshal(*m.Flat)
	}
	return json.Marshal(m.Tiered)
}

// Rates is the full rate collection for one product.
type Rates struct {
	UseGlobalRates bool `json:"useGlobalRates,omitempty"`

	// Per-area base rate and flat hardware tiers.
	Base               float64 `json:"base,omitempty"`
	Hardware           float64 `json:"hardware,omitempty"`
	HardwareMultiPoint float64 `json:"hardwareMultiPoint,omitempty"`

	Glass         RateTable `json:"glass,omitempty"`
	Coating       RateTable `json:"coating,omitempty"`
	Lock          RateTable `json:"lock,omitempty"`
	Mesh          *MeshRate `json:"mesh,omitempty"`
	Grill         RateTable `json:"grill,omitempty"`
	FlutedGlass   RateTable `json:"flutedGlass,omitempty"`
	PremiumColors RateTable `json:"premiumColors,omitempty"`
	TrackOptions  RateTable `json:"trackOptions,omitempty"`
	PanelConfigs  RateTable `json:"panelConfigs,omitempty"`
	Profiles      RateTable `json:"profiles,omitempty"`

	// Shower families price hardware per door, keyed by finish.
	HardwarePerDoor RateTable `json:"hardwarePerDoor,omitempty"`
	LockExtra       float64   `json:"lockExtra,omitempty"`
}

// CuttingSpec carries the stock and wastage parameters for louver and
// profile products.
type CuttingSpec struct {
	StockLengths        []float64 `json:"stockLengths"`
	GapInches           float64   `json:"gapInches"`
	ReferenceWeight     float64   `json:"referenceWeight"`
	ReferenceLength     float64   `json:"referenceLength"`
	AluminiumRatePerKg  float64   `json:"aluminiumRatePerKg"`
	CoatingRatePerFt    float64   `json:"coatingRatePerFt"`
	ExtraWastagePercent float64   `json:"extraWastagePercent,omitempty"`
}

// CladdingSpec carries sheet and installation parameters for cladding
// products.
type CladdingSpec struct {
	Brand          string    `json:"brand"`
	SheetAreaSqft  float64   `json:"sheetAreaSqft,omitempty"`
	SheetRate      float64   `json:"sheetRate,omitempty"`
	InstallRates   RateTable `json:"installRates,omitempty"`
	RateMatrix     RateTable `json:"rateMatrix,omitempty"`
	WastagePercent float64   `json:"wastagePercent"`
}

// Product identifies one sellable variant and its pricing rules.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Archetype   string `json:"archetype"`
	Active      bool   `json:"active"`

	Features []string `json:"features,omitempty"`

	// Variance controls the width of the pre-lead price range.
	Variance float64 `json:"variance,omitempty"`

	StandardHeight   float64            `json:"standardHeight,omitempty"`
	MaxHeight        float64            `json:"maxHeight,omitempty"`
	FlutedMaxHeights map[string]float64 `json:"flutedMaxHeights,omitempty"`

	Rates    Rates         `json:"rates"`
	Cutting  *CuttingSpec  `json:"cutting,omitempty"`
	Cladding *CladdingSpec `json:"cladding,omitempty"`
}

// HasFeature reports whether the product declares the named feature flag.
func (p *Product) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}

// GlobalRates is the shared default rate table set.
type GlobalRates struct {
	Glass   RateTable `json:"glass"`
	Coating RateTable `json:"coating"`
	Lock    RateTable `json:"lock"`
	Mesh    RateTable `json:"mesh"`
	Grill   RateTable `json:"grill"`
}

// Catalog is the bulk document served by the catalog endpoint.
type Catalog struct {
	GlobalRates GlobalRates `json:"globalRates"`
	Products    []Product   `json:"products"`
}
