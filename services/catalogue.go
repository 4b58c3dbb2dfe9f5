package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"drive-thru/models"
)

// DefaultStoreID is used when a store has no catalogue of its own.
const DefaultStoreID = "default"

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")
)

// Catalogue is a read-only snapshot of one store's products and menu rules.
// Nothing may write through its slices; availability changes produce a new
// snapshot.
type Catalogue struct {
	StoreID  string
	Products []models.Product
	Rules    []models.MenuRule
}

// Validate checks every product and rule, and that every rule points at a
// menu product of the same catalogue.
func (c Catalogue) Validate() error {
	seen := make(map[string]models.Category, len(c.Products))
	for _, p := range c.Products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id: %s", p.ID)
		}
		seen[p.ID] = p.Category
	}
	for _, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.MenuProductID] != models.CategoryMenu {
			return fmt.Errorf("menu rule %s: not a menu product of this catalogue", r.MenuProductID)
		}
	}
	return nil
}

// CatalogueProvider supplies per-store snapshots and owns availability.
type CatalogueProvider interface {
	Catalogue(ctx context.Context, storeID string) (Catalogue, error)
	SetAvailability(ctx context.Context, storeID, productID string, available bool) error
}

// StaticCatalogue keeps snapshots in memory. Stores without their own entry
// read the default store's snapshot.
type StaticCatalogue struct {
	mu     sync.RWMutex
	stores map[string]Catalogue
}

// NewStaticCatalogue validates and registers the given snapshots.
func NewStaticCatalogue(catalogues ...Catalogue) (*StaticCatalogue, error) {
	s := &StaticCatalogue{stores: make(map[string]Catalogue, len(catalogues))}
	for _, c := range catalogues {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("catalogue %s: %w", c.StoreID, err)
		}
		s.stores[c.StoreID] = c
	}
	return s, nil
}

func (s *StaticCatalogue) Catalogue(ctx context.Context, storeID string) (Catalogue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(storeID)
}

func (s *StaticCatalogue) lookup(storeID string) (Catalogue, error) {
	if c, ok := s.stores[storeID]; ok {
		return c, nil
	}
	if c, ok := s.stores[DefaultStoreID]; ok {
		c.StoreID = storeID
		return c, nil
	}
	return Catalogue{}, fmt.Errorf("%w: %s", ErrStoreNotFound, storeID)
}

// SetAvailability swaps in a new product slice for the store. A store that
// was reading the default snapshot gets its own copy from then on.
func (s *StaticCatalogue) SetAvailability(ctx context.Context, storeID, productID string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(storeID)
	if err != nil {
		return err
	}
	products, err := withAvailability(c.Products, productID, available)
	if err != nil {
		return err
	}
	c.Products = products
	s.stores[storeID] = c
	return nil
}

func withAvailability(products []models.Product, productID string, available bool) ([]models.Product, error) {
	out := make([]models.Product, len(products))
	copy(out, products)
	for i := range out {
		if out[i].ID == productID {
			out[i].Available = available
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
}
