package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetByIDs возвращает разрешённый набор товаров по идентификаторам.
// Повторы во входе схлопываются, несуществующие идентификаторы пропускаются.
func (r *productRepositoryInMemory) GetByIDs(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}

	sortProducts(result)
	return result, nil
}

// List возвращает товары по фильтру в порядке (created_at, id).
func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if !matchProduct(product, filter) {
			continue
		}
		result = append(result, product)
	}

	sortProducts(result)
	return result, nil
}

func matchProduct(product domain.Product, filter domain.ProductFilter) bool {
	if filter.NameContains != "" && !containsFold(product.Name, filter.NameContains) {
		return false
	}
	if filter.PriceMin != nil && product.Price.LessThan(*filter.PriceMin) {
		return false
	}
	if filter.PriceMax != nil && product.Price.GreaterThan(*filter.PriceMax) {
		return false
	}
	if filter.StockMin != nil && product.Stock < *filter.StockMin {
		return false
	}
	if filter.StockMax != nil && product.Stock > *filter.StockMax {
		return false
	}
	return true
}

func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		return products[i].ID < products[j].ID
	})
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
