package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
	// emails дублирует индекс уникальности email хранилища.
	emails map[string]string
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items:  make(map[string]domain.Customer),
		emails: make(map[string]string),
	}
}

// Create сохраняет нового клиента, если его email ещё не занят.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[strings.ToLower(customer.Email)]; taken {
		return domain.ErrEmailExists
	}
	r.items[customer.ID] = customer
	r.emails[strings.ToLower(customer.Email)] = customer.ID
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// EmailExists сообщает, занят ли email.
func (r *customerRepositoryInMemory) EmailExists(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, taken := r.emails[strings.ToLower(email)]
	return taken, nil
}

// List возвращает клиентов по фильтру в порядке (created_at, id).
func (r *customerRepositoryInMemory) List(filter domain.CustomerFilter) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		if !matchCustomer(customer, filter) {
			continue
		}
		result = append(result, customer)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func matchCustomer(customer domain.Customer, filter domain.CustomerFilter) bool {
	if filter.NameContains != "" && !containsFold(customer.Name, filter.NameContains) {
		return false
	}
	if filter.EmailContains != "" && !containsFold(customer.Email, filter.EmailContains) {
		return false
	}
	if filter.PhonePrefix != "" && !strings.HasPrefix(customer.Phone, filter.PhonePrefix) {
		return false
	}
	if !filter.CreatedFrom.IsZero() && customer.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && customer.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
