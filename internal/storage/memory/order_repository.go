package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// Фильтр по имени клиента разрешается через репозиторий клиентов,
// как SQL-реализация делает это через join.
type orderRepositoryInMemory struct {
	mu        sync.RWMutex
	items     map[string]domain.Order
	customers domain.CustomerRepository
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository(customers domain.CustomerRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:     make(map[string]domain.Order),
		customers: customers,
	}
}

// Create сохраняет заказ вместе с его товарами одним захватом мьютекса,
// что даёт ту же атомарность, что транзакция в SQL-реализации.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию набора товаров, чтобы избежать мутаций извне.
	products := make([]domain.Product, len(order.Products))
	copy(products, order.Products)
	order.Products = products

	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// List возвращает заказы по фильтру в порядке (created_at, id).
func (r *orderRepositoryInMemory) List(filter domain.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	orders := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		orders = append(orders, order)
	}
	r.mu.RUnlock()

	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		ok, err := r.matchOrder(order, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *orderRepositoryInMemory) matchOrder(order domain.Order, filter domain.OrderFilter) (bool, error) {
	if filter.TotalMin != nil && order.TotalAmount.LessThan(*filter.TotalMin) {
		return false, nil
	}
	if filter.TotalMax != nil && order.TotalAmount.GreaterThan(*filter.TotalMax) {
		return false, nil
	}
	if !filter.OrderedFrom.IsZero() && order.OrderDate.Before(filter.OrderedFrom) {
		return false, nil
	}
	if !filter.OrderedTo.IsZero() && order.OrderDate.After(filter.OrderedTo) {
		return false, nil
	}

	if filter.ProductNameContains != "" {
		found := false
		for _, product := range order.Products {
			if containsFold(product.Name, filter.ProductNameContains) {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}

	if filter.CustomerNameContains != "" {
		customer, err := r.customers.Get(order.CustomerID)
		if err != nil {
			return false, err
		}
		if !containsFold(customer.Name, filter.CustomerNameContains) {
			return false, nil
		}
	}

	return true, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
