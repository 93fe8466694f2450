package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/pagination"
	"github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/ridloal/retail-admin-console/internal/product/repository"
)

// CatalogStore is the in-memory product list of one console workspace. It is
// the only writer of that list and always replaces it wholesale; readers get
// copies.
type CatalogStore struct {
	repo repository.ProductRepository

	mu       sync.RWMutex
	products []domain.Product
	index    map[int64]int
	loadedAt time.Time
}

func NewCatalogStore(repo repository.ProductRepository) *CatalogStore {
	return &CatalogStore{
		repo:     repo,
		products: []domain.Product{},
		index:    map[int64]int{},
	}
}

// Load fetches the full product list. On failure the previous list is kept.
func (s *CatalogStore) Load(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		logger.Error("CatalogStore.Load: keeping previous product list", err)
		return fmt.Errorf("could not load products: %w", err)
	}

	index := make(map[int64]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	s.mu.Lock()
	s.products = products
	s.index = index
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Info("Catalog loaded with %d products", len(products))
	return nil
}

// Products returns a copy of the current list.
func (s *CatalogStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *CatalogStore) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Stock is the current stock ceiling of a product.
func (s *CatalogStore) Stock(id int64) (int, bool) {
	p, ok := s.Product(id)
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

func (s *CatalogStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Filter keeps products whose name contains term, ignoring case. The input is
// not modified.
func Filter(list []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// CatalogView is the search box plus page selector of a product list.
type CatalogView struct {
	PageSize int

	term   string
	cursor pagination.Cursor
}

func NewCatalogView(pageSize int) *CatalogView {
	return &CatalogView{PageSize: pageSize}
}

// SetFilter changes the search term. A different term goes back to page 1.
func (v *CatalogView) SetFilter(term string) {
	if term != v.term {
		v.cursor.Reset()
	}
	v.term = term
}

func (v *CatalogView) Filter() string { return v.term }

func (v *CatalogView) SetPage(page int) { v.cursor.Set(page) }

// Page filters list with the current term and returns the requested page.
func (v *CatalogView) Page(list []domain.Product) pagination.Page[domain.Product] {
	return pagination.Paginate(Filter(list, v.term), v.PageSize, v.cursor.Page())
}
