// Package memory provides in-memory implementations of the repository
// interfaces, used when no database is configured and in tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
)

// ProductStore keeps product snapshots and their alternatives in maps.
// It is safe for concurrent use.
type ProductStore struct {
	mu           sync.RWMutex
	products     map[string]entity.Product
	alternatives map[string][]entity.Alternative
}

var (
	_ repository.ProductReader     = (*ProductStore)(nil)
	_ repository.AlternativeLookup = (*ProductStore)(nil)
)

// NewProductStore creates an empty store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products:     make(map[string]entity.Product),
		alternatives: make(map[string][]entity.Alternative),
	}
}

// Put stores a product and its alternatives, replacing any previous entry.
//
// Parameters:
//   - p: the product (validated)
//   - alts: its alternatives (each validated)
//
// Returns:
//   - error: repository.ErrInvalidInput wrapping the first invalid value
func (s *ProductStore) Put(p entity.Product, alts ...entity.Alternative) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: product %q: %v", repository.ErrInvalidInput, p.ID, err)
	}
	for _, a := range alts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: alternative %q of %q: %v", repository.ErrInvalidInput, a.Value, p.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	s.alternatives[p.ID] = append([]entity.Alternative(nil), alts...)
	return nil
}

// Len returns the number of stored products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// FetchProduct returns a copy of the stored product.
func (s *ProductStore) FetchProduct(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

// Alternatives returns a copy of the product's alternatives.
func (s *ProductStore) Alternatives(ctx context.Context, product *entity.Product) ([]entity.Alternative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.Alternative{}, s.alternatives[product.ID]...), nil
}

// catalogueEntry is one product of a JSON catalogue.
type catalogueEntry struct {
	entity.Product
	Alternatives []entity.Alternative `json:"alternatives"`
}

type catalogue struct {
	Products []catalogueEntry `json:"products"`
}

// Load reads a JSON catalogue of the form
//
//	{"products": [{"id": "...", "cost": "12.50", ..., "alternatives": [...]}]}
//
// and stores every entry.
//
// Parameters:
//   - r: the catalogue
//
// Returns:
//   - int: number of products loaded
//   - error: a decode error or the first invalid entry
func (s *ProductStore) Load(r io.Reader) (int, error) {
	var c catalogue
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return 0, fmt.Errorf("decode catalogue: %w", err)
	}
	for i, e := range c.Products {
		p, err := entity.NewProduct(e.ID, e.Category, e.Cost, e.Classification)
		if err != nil {
			return i, fmt.Errorf("%w: product %q: %w", repository.ErrInvalidInput, e.ID, err)
		}
		snapshot := p.WithLogistics(e.ShippingCost, e.InsuranceCost).WithAnnualVolume(e.AnnualVolume)
		snapshot.SKU, snapshot.Name = e.SKU, e.Name

		if err := s.Put(snapshot, e.Alternatives...); err != nil {
			return i, err
		}
	}
	return len(c.Products), nil
}

// LoadFile is Load on the named file.
func (s *ProductStore) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalogue: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}
