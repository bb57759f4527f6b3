package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/sqlite"
)

func openStoreForTest(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "crm-test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func seedCustomer(t *testing.T, repo domain.CustomerRepository, name, email, phone string, createdAt time.Time) domain.Customer {
	t.Helper()

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt,
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("seed customer %s: %v", email, err)
	}
	return customer
}

func seedProduct(t *testing.T, repo domain.ProductRepository, name, price string, stock int32, createdAt time.Time) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: createdAt,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}
