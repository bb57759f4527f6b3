package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type customerModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:200;not null"`
	Email     string    `gorm:"type:TEXT COLLATE NOCASE;uniqueIndex"`
	Phone     string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"index"`
}

func (customerModel) TableName() string { return "customers" }

type productModel struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Name      string          `gorm:"size:200;not null"`
	Price     decimal.Decimal `gorm:"type:NUMERIC;not null"`
	Stock     int32           `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"index"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	ID          string          `gorm:"primaryKey;size:36"`
	CustomerID  string          `gorm:"size:36;index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:NUMERIC;not null"`
	OrderDate   time.Time       `gorm:"index"`
	CreatedAt   time.Time
	Products    []productModel `gorm:"many2many:order_products"`
}

func (orderModel) TableName() string { return "orders" }

func (m customerModel) toDomain() domain.Customer {
	return domain.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
	}
}

func customerToModel(c domain.Customer) customerModel {
	return customerModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func (m productModel) toDomain() domain.Product {
	return domain.Product{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
	}
}

func productToModel(p domain.Product) productModel {
	return productModel{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func (m orderModel) toDomain() domain.Order {
	products := make([]domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p.toDomain())
	}
	return domain.Order{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Products:    products,
		TotalAmount: m.TotalAmount,
		OrderDate:   m.OrderDate,
		CreatedAt:   m.CreatedAt,
	}
}
