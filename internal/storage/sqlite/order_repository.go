package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создаёт SQLite-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заголовок заказа и строки ассоциаций в одной транзакции.
// Товары должны существовать заранее, поэтому ассоциации пишутся явными
// INSERT'ами, а не каскадным сохранением gorm.
func (r *orderRepository) Create(order domain.Order) error {
	model := orderModel{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		OrderDate:   order.OrderDate,
		CreatedAt:   order.CreatedAt,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Create(&model).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, product := range order.Products {
			if err := tx.Exec(
				"INSERT INTO order_products (order_model_id, product_model_id) VALUES (?, ?)",
				order.ID, product.ID,
			).Error; err != nil {
				return fmt.Errorf("insert order product association: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	var model orderModel
	err := r.db.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("products.created_at, products.id")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return model.toDomain(), nil
}

func (r *orderRepository) List(filter domain.OrderFilter) ([]domain.Order, error) {
	query := r.db.Model(&orderModel{})

	if filter.CustomerNameContains != "" {
		query = query.
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.name LIKE ?", "%"+filter.CustomerNameContains+"%")
	}
	if filter.ProductNameContains != "" {
		query = query.Where(`EXISTS (
			SELECT 1
			FROM order_products
			JOIN products ON products.id = order_products.product_model_id
			WHERE order_products.order_model_id = orders.id
			  AND products.name LIKE ?
		)`, "%"+filter.ProductNameContains+"%")
	}
	if filter.TotalMin != nil {
		query = query.Where("total_amount >= ?", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		query = query.Where("total_amount <= ?", *filter.TotalMax)
	}
	if !filter.OrderedFrom.IsZero() {
		query = query.Where("order_date >= ?", filter.OrderedFrom)
	}
	if !filter.OrderedTo.IsZero() {
		query = query.Where("order_date <= ?", filter.OrderedTo)
	}

	var models []orderModel
	err := query.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("products.created_at, products.id")
		}).
		Order("orders.created_at, orders.id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(models))
	for _, model := range models {
		orders = append(orders, model.toDomain())
	}
	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
