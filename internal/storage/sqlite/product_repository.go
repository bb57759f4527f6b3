package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создаёт SQLite-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	model := productToModel(product)
	if err := r.db.Create(&model).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	var model productModel
	if err := r.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return model.toDomain(), nil
}

func (r *productRepository) GetByIDs(ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	var models []productModel
	if err := r.db.Where("id IN ?", ids).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select products by ids: %w", err)
	}

	return productsToDomain(models), nil
}

func (r *productRepository) List(filter domain.ProductFilter) ([]domain.Product, error) {
	query := r.db.Model(&productModel{})

	if filter.NameContains != "" {
		query = query.Where("name LIKE ?", "%"+filter.NameContains+"%")
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.StockMin != nil {
		query = query.Where("stock >= ?", *filter.StockMin)
	}
	if filter.StockMax != nil {
		query = query.Where("stock <= ?", *filter.StockMax)
	}

	var models []productModel
	if err := query.Order("created_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return productsToDomain(models), nil
}

func productsToDomain(models []productModel) []domain.Product {
	products := make([]domain.Product, 0, len(models))
	for _, model := range models {
		products = append(products, model.toDomain())
	}
	return products
}

var _ domain.ProductRepository = (*productRepository)(nil)
