package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerFilter описывает предикаты выборки клиентов.
// Пустая строка и нулевое время означают "не фильтровать".
type CustomerFilter struct {
	// NameContains — подстрока имени без учёта регистра.
	NameContains string
	// EmailContains — подстрока email без учёта регистра.
	EmailContains string
	// PhonePrefix — префикс телефона.
	PhonePrefix string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// ProductFilter описывает предикаты выборки товаров.
// nil-указатель означает "не фильтровать".
type ProductFilter struct {
	NameContains string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	StockMin     *int32
	StockMax     *int32
}

// OrderFilter описывает предикаты выборки заказов, включая
// подстрочный поиск по имени клиента и по именам связанных товаров.
type OrderFilter struct {
	TotalMin    *decimal.Decimal
	TotalMax    *decimal.Decimal
	OrderedFrom time.Time
	OrderedTo   time.Time
	// CustomerNameContains — подстрока имени клиента заказа.
	CustomerNameContains string
	// ProductNameContains — подстрока имени любого из товаров заказа.
	ProductNameContains string
}
