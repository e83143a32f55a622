package catalog

import (
	"sync/atomic"

	"storefront-quiz-service/internal/domain"
)

// Catalog is the immutable product set loaded at startup.
type Catalog struct {
	products []domain.Product
	byID     map[int]int
}

// New copies products into a catalog indexed by id. Later duplicates of an id
// are kept in the listing but lookups resolve to the first.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Product looks up a product by id.
func (c *Catalog) Product(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Query runs the filter/sort/paginate pipeline over the catalog.
func (c *Catalog) Query(q Query) domain.Page {
	return FilterSortPaginate(c.products, q, PageSize)
}

// Store publishes the catalog once the asynchronous load completes. Readers
// see an empty catalog until then.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(New(nil))
	return s
}

// Set replaces the published catalog.
func (s *Store) Set(products []domain.Product) {
	s.current.Store(New(products))
}

// Catalog returns the published catalog.
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Product satisfies app.ProductLookup against the published catalog.
func (s *Store) Product(id int) (domain.Product, bool) {
	return s.Catalog().Product(id)
}
