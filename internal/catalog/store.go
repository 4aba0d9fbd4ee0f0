package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"quote-service/pkg/config"
	"quote-service/pkg/logger"
	"quote-service/prometheus"

	"go.uber.org/zap"
)

//go:embed fallback.json
var fallbackData []byte

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Catalog load sources reported by Source and the reload metrics.
const (
	SourceRemote   = "remote"
	SourceEmbedded = "embedded"
)

// Store holds the loaded catalog and memoizes per-product rate
// resolution. Safe for concurrent use.
type Store struct {
	url    string
	client *http.Client

	mu       sync.RWMutex
	global   GlobalRates
	products map[string]Product
	resolved map[string]*Product
	source   string
}

// NewStore builds a store from catalog configuration. Load must be
// called before the store serves products.
func NewStore(cfg *config.CatalogConfig) *Store {
	return &Store{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// Load fetches the remote catalog, falling back to the embedded data
// set when no URL is configured or the fetch fails. The embedded set
// covers a subset of products and is degraded-but-functional.
func (s *Store) Load(ctx context.Context) error {
	log := logger.GetLogger()

	if s.url != "" {
		cat, err := s.fetch(ctx)
		if err == nil {
			s.install(cat, SourceRemote)
			prometheus.RecordCatalogReload(SourceRemote)
			log.Info("Catalog loaded",
				zap.String("source", SourceRemote),
				zap.Int("products", len(cat.Products)))
			return nil
		}
		log.Warn("Catalog fetch failed, using embedded fallback", zap.Error(err))
	}

	var cat Catalog
	if err := json.Unmarshal(fallbackData, &cat); err != nil {
		return fmt.Errorf("parse embedded catalog: %w", err)
	}
	s.install(&cat, SourceEmbedded)
	prometheus.RecordCatalogReload(SourceEmbedded)
	prometheus.RecordCatalogFallback()
	log.Info("Catalog loaded",
		zap.String("source", SourceEmbedded),
		zap.Int("products", len(cat.Products)))
	return nil
}

// Reload re-runs Load, dropping all memoized products.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) fetch(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

func (s *Store) install(cat *Catalog, source string) {
	products := make(map[string]Product, len(cat.Products))
	for _, p := range cat.Products {
		products[p.ID] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = cat.GlobalRates
	s.products = products
	s.resolved = make(map[string]*Product, len(products))
	s.source = source
}

// Product returns the product with effective rates. The global-rate
// merge runs on first access of an id and is cached for the session;
// callers must not mutate the result.
func (s *Store) Product(id string) (*Product, error) {
	s.mu.RLock()
	if p, ok := s.resolved[id]; ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.resolved[id]; ok {
		return p, nil
	}
	raw, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	merged := resolveRates(raw, s.global)
	s.resolved[id] = &merged
	return &merged, nil
}

// Products lists active products sorted by id, for the catalog listing
// endpoint. Rates are the raw, unmerged tables.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Global returns the shared default rate tables.
func (s *Store) Global() GlobalRates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// Source reports where the current catalog came from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
