package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository создаёт SQLite-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	model := customerToModel(customer)
	if err := r.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	var model customerModel
	if err := r.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return model.toDomain(), nil
}

func (r *customerRepository) EmailExists(email string) (bool, error) {
	var count int64
	// Колонка объявлена с COLLATE NOCASE, сравнение без учёта регистра.
	if err := r.db.Model(&customerModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return count > 0, nil
}

func (r *customerRepository) List(filter domain.CustomerFilter) ([]domain.Customer, error) {
	query := r.db.Model(&customerModel{})

	if filter.NameContains != "" {
		query = query.Where("name LIKE ?", "%"+filter.NameContains+"%")
	}
	if filter.EmailContains != "" {
		query = query.Where("email LIKE ?", "%"+filter.EmailContains+"%")
	}
	if filter.PhonePrefix != "" {
		query = query.Where("phone LIKE ?", filter.PhonePrefix+"%")
	}
	if !filter.CreatedFrom.IsZero() {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var models []customerModel
	if err := query.Order("created_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(models))
	for _, model := range models {
		customers = append(customers, model.toDomain())
	}
	return customers, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
