package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func makeProduct() domain.Product {
	return domain.Product{
		ID:    "product-1",
		Name:  "Laptop",
		Price: decimal.RequireFromString("999.99"),
		Stock: 10,
	}
}

func TestProductValidateInvariants_Ok(t *testing.T) {
	product := makeProduct()
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestProductValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(p *domain.Product)
		want error
	}{
		{
			name: "zero price",
			mut: func(p *domain.Product) {
				p.Price = decimal.Zero
			},
			want: domain.ErrPriceNotPositive,
		},
		{
			name: "negative price",
			mut: func(p *domain.Product) {
				p.Price = decimal.RequireFromString("-0.01")
			},
			want: domain.ErrPriceNotPositive,
		},
		{
			name: "negative stock",
			mut: func(p *domain.Product) {
				p.Stock = -1
			},
			want: domain.ErrStockNegative,
		},
		{
			name: "empty name",
			mut: func(p *domain.Product) {
				p.Name = ""
			},
			want: domain.ErrNameRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := makeProduct()
			tc.mut(&product)

			errs := product.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among %v", tc.want, errs)
			}
		})
	}
}
