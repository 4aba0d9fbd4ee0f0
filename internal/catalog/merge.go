package catalog

// mergeTable overlays global defaults into a product rate table for one
// category. A missing product table becomes a copy of the global one.
// Within a present table the product value wins only when it is a
// non-zero number; zero means "use the global default", so the global
// value is substituted. Keys only the product knows are kept as-is.
func mergeTable(product, global RateTable) RateTable {
	if global == nil {
		return product
	}
	merged := make(RateTable, len(global)+len(product))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range product {
		if v != 0 {
			merged[k] = v
			continue
		}
		// A zero defers to the global default; keys the global table
		// does not know keep their entered zero.
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged
}

// resolveRates applies the global defaults to a product whose rates
// declare useGlobalRates. The merge runs once per product id; the
// result is cached by the store and never mutated afterwards.
func resolveRates(p Product, global GlobalRates) Product {
	if !p.Rates.UseGlobalRates {
		return p
	}

	p.Rates.Glass = mergeTable(p.Rates.Glass, global.Glass)
	p.Rates.Coating = mergeTable(p.Rates.Coating, global.Coating)
	p.Rates.Lock = mergeTable(p.Rates.Lock, global.Lock)
	p.Rates.Grill = mergeTable(p.Rates.Grill, global.Grill)

	// Mesh keeps its legacy flat number when the product uses one, but
	// the merged global tier table is attached alongside so callers
	// needing structured access get it either way.
	switch {
	case p.Rates.Mesh == nil:
		p.Rates.Mesh = &MeshRate{Tiered: copyTable(global.Mesh)}
	case p.Rates.Mesh.Flat != nil:
		flat := *p.Rates.Mesh.Flat
		p.Rates.Mesh = &MeshRate{Flat: &flat, Tiered: copyTable(global.Mesh)}
	default:
		p.Rates.Mesh = &MeshRate{Tiered: mergeTable(p.Rates.Mesh.Tiered, global.Mesh)}
	}

	return p
}

func copyTable(t RateTable) RateTable {
	if t == nil {
		return nil
	}
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
