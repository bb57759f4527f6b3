package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order связывает клиента с набором товаров и фиксирует сумму на момент создания.
type Order struct {
	ID         string
	CustomerID string
	// Products — разрешённый набор товаров заказа (many-to-many).
	// Заказ владеет строками ассоциации, но не самими товарами.
	Products []Product
	// TotalAmount — снимок суммы цен товаров на момент создания.
	// Последующие изменения цен прошлые заказы не затрагивают.
	TotalAmount decimal.Decimal
	// OrderDate всегда равен моменту создания; значение из запроса игнорируется.
	OrderDate time.Time
	CreatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Products) == 0 {
		errs = append(errs, ErrNoValidProducts)
	}

	// Сверяем сумму заказа с суммой цен товаров.
	calc := decimal.Zero
	for _, product := range o.Products {
		calc = calc.Add(product.Price)
	}
	if !calc.Equal(o.TotalAmount) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
