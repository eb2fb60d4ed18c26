package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Store is the immutable, process-lifetime product catalog. It is built once
// at startup and only ever read afterwards, so it needs no locking.
type Store struct {
	products []Product
	byID     map[string]Product
}

// Load reads a JSON product list from path. A missing or malformed catalog
// is not fatal: it logs a warning and substitutes the built-in defaults.
func Load(path string, log *slog.Logger) *Store {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("catalog file unavailable, using built-in defaults", "path", path, "err", err)
		return New(defaultCatalog())
	}

	products, err := parse(data)
	if err != nil {
		log.Warn("catalog file malformed, using built-in defaults", "path", path, "err", err)
		return New(defaultCatalog())
	}

	return New(products)
}

// New builds a Store from an explicit product list. Entries with an empty or
// duplicate id are dropped; the first occurrence of an id wins.
func New(products []Product) *Store {
	s := &Store{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]Product, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, exists := s.byID[p.ID]; exists {
			continue
		}
		s.byID[p.ID] = p
		s.products = append(s.products, p)
	}
	return s
}

func parse(data []byte) ([]Product, error) {
	// Accept either a bare list or a {"products": [...]} wrapper.
	var products []Product
	if err := json.Unmarshal(data, &products); err == nil {
		return products, validate(products)
	}

	var wrapped struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return wrapped.Products, validate(wrapped.Products)
}

func validate(products []Product) error {
	if len(products) == 0 {
		return fmt.Errorf("catalog holds no products")
	}
	for i, p := range products {
		if p.ID == "" {
			return fmt.Errorf("product at index %d has no id", i)
		}
		if p.Price < 0 {
			return fmt.Errorf("product %q has negative price", p.ID)
		}
	}
	return nil
}

// Products returns the catalog in load order. The slice is a copy; the
// catalog itself is never handed out for mutation.
func (s *Store) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get looks a product up by id.
func (s *Store) Get(id string) (Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Len reports the number of products in the catalog.
func (s *Store) Len() int {
	return len(s.products)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
