package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quote-service/pkg/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(&config.CatalogConfig{FetchTimeout: time.Second})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	return s
}

func TestLoad_EmbeddedFallback(t *testing.T) {
	s := testStore(t)

	if s.Source() != SourceEmbedded {
		t.Fatalf("source = %q, want %q", s.Source(), SourceEmbedded)
	}
	if len(s.Products()) == 0 {
		t.Fatal("embedded catalog has no products")
	}
	if s.Global().Glass["10mm"] != 50 {
		t.Fatalf("global 10mm glass = %v, want 50", s.Global().Glass["10mm"])
	}
}

func TestLoad_RemoteWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Catalog{
			GlobalRates: GlobalRates{Glass: RateTable{"6mm": 0, "8mm": 40}},
			Products: []Product{{
				ID: "remote-window", Name: "Remote Window", Archetype: "window", Active: true,
				Rates: Rates{UseGlobalRates: true, Base: 700, Hardware: 2000},
			}},
		})
	}))
	defer srv.Close()

	s := NewStore(&config.CatalogConfig{URL: srv.URL, FetchTimeout: time.Second})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load remote catalog: %v", err)
	}
	if s.Source() != SourceRemote {
		t.Fatalf("source = %q, want %q", s.Source(), SourceRemote)
	}
	if _, err := s.Product("remote-window"); err != nil {
		t.Fatalf("remote product missing: %v", err)
	}
}

func TestLoad_RemoteErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewStore(&config.CatalogConfig{URL: srv.URL, FetchTimeout: time.Second})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load with failing remote: %v", err)
	}
	if s.Source() != SourceEmbedded {
		t.Fatalf("source = %q, want %q", s.Source(), SourceEmbedded)
	}
}

func TestProduct_NotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.Product("no-such-product"); err == nil {
		t.Fatal("expected error for unknown product id")
	} else if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error %v is not ErrNotFound", err)
	}
}

func TestProduct_MergeFillsGlobalKeys(t *testing.T) {
	s := testStore(t)

	p, err := s.Product("sliding-window")
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}

	// Every key the global table knows must be resolved after merge.
	global := s.Global()
	for k, want := range global.Glass {
		got, ok := p.Rates.Glass[k]
		if !ok {
			t.Fatalf("glass key %q missing after merge", k)
		}
		if got != want {
			t.Fatalf("glass key %q = %v, want global %v", k, got, want)
		}
	}
	for k := range global.Lock {
		if _, ok := p.Rates.Lock[k]; !ok {
			t.Fatalf("lock key %q missing after merge", k)
		}
	}
}

func TestProduct_NonZeroOverrideWins(t *testing.T) {
	s := testStore(t)

	// The 3-track product carries its own glass table where 6mm costs
	// 15; the global 6mm of 0 must not clobber it, while global-only
	// keys are filled in.
	p, err := s.Product("3track-sliding-window")
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}
	if got := p.Rates.Glass["6mm"]; got != 15 {
		t.Fatalf("own 6mm rate = %v, want 15", got)
	}
	if got := p.Rates.Glass["laminated"]; got != 220 {
		t.Fatalf("filled laminated rate = %v, want 220", got)
	}
	// The product's zero-valued 5mm key defers to the global default,
	// but the global table has no 5mm, so the entered zero survives.
	if got, ok := p.Rates.Glass["5mm"]; !ok || got != 0 {
		t.Fatalf("5mm rate = %v (present=%v), want 0", got, ok)
	}
}

func TestProduct_MeshTableAttached(t *testing.T) {
	s := testStore(t)

	p, err := s.Product("sliding-window")
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}
	if p.Rates.Mesh == nil || p.Rates.Mesh.Tiered == nil {
		t.Fatal("merged product has no structured mesh table")
	}
	if got := p.Rates.Mesh.Tiered["openable"]; got != 350 {
		t.Fatalf("mesh openable = %v, want 350", got)
	}
}

func TestProduct_Memoized(t *testing.T) {
	s := testStore(t)

	first, err := s.Product("sliding-window")
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}
	second, err := s.Product("sliding-window")
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}
	if first != second {
		t.Fatal("second access did not return the memoized product")
	}
}

func TestMeshRate_UnmarshalBothForms(t *testing.T) {
	var flat MeshRate
	if err := json.Unmarshal([]byte(`120`), &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if flat.Flat == nil || *flat.Flat != 120 {
		t.Fatalf("flat mesh = %+v, want 120", flat)
	}

	var tiered MeshRate
	if err := json.Unmarshal([]byte(`{"standard":120,"openable":350}`), &tiered); err != nil {
		t.Fatalf("unmarshal tiered: %v", err)
	}
	if tiered.Flat != nil || tiered.Tiered["standard"] != 120 {
		t.Fatalf("tiered mesh = %+v", tiered)
	}
}

func TestMergeTable_FlatMeshKeepsNumber(t *testing.T) {
	flat := 100.0
	p := Product{
		ID: "legacy", Archetype: "window",
		Rates: Rates{
			UseGlobalRates: true,
			Mesh:           &MeshRate{Flat: &flat},
		},
	}
	global := GlobalRates{Mesh: RateTable{"standard": 120}}

	merged := resolveRates(p, global)
	if merged.Rates.Mesh.Flat == nil || *merged.Rates.Mesh.Flat != 100 {
		t.Fatalf("flat mesh lost in merge: %+v", merged.Rates.Mesh)
	}
	if merged.Rates.Mesh.Tiered["standard"] != 120 {
		t.Fatal("global mesh table not attached alongside flat rate")
	}
}
