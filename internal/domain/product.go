package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога.
type Product struct {
	ID   string
	Name string
	// Price хранится как decimal, чтобы суммы заказов не теряли точность.
	Price decimal.Decimal
	// Stock — остаток на складе; ноль допустим.
	Stock     int32
	CreatedAt time.Time
}

// ValidateInvariants проверяет поля товара в порядке: цена, затем остаток.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if !p.Price.IsPositive() {
		errs = append(errs, ErrPriceNotPositive)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
