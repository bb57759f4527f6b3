package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func insertTestProduct(t *testing.T, repo domain.ProductRepository, name, price string, stock int32, createdAt time.Time) domain.Product {
	t.Helper()

	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: createdAt,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("insert test product %s: %v", name, err)
	}
	return product
}

func TestProductRepository_PostgresFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	created := insertTestProduct(t, repo, "Laptop", "999.99", 10, now)

	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("999.99")) {
		t.Fatalf("expected price 999.99, got %s", got.Price)
	}
	if got.Stock != 10 {
		t.Fatalf("expected stock 10, got %d", got.Stock)
	}

	if _, err := repo.Get(uuid.NewString()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_PostgresGetByIDs(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	laptop := insertTestProduct(t, repo, "Laptop", "999.99", 10, base)
	mouse := insertTestProduct(t, repo, "Mouse", "50.00", 100, base.Add(time.Hour))

	got, err := repo.GetByIDs([]string{mouse.ID, laptop.ID, uuid.NewString()})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].ID != laptop.ID || got[1].ID != mouse.ID {
		t.Fatalf("expected products ordered by created_at, got %+v", got)
	}

	empty, err := repo.GetByIDs(nil)
	if err != nil {
		t.Fatalf("get by empty ids: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %d", len(empty))
	}
}

func TestProductRepository_PostgresListFilters(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	insertTestProduct(t, repo, "Laptop Pro", "1500.00", 5, base)
	airID := insertTestProduct(t, repo, "Laptop Air", "999.99", 1, base.Add(time.Hour)).ID
	insertTestProduct(t, repo, "Mouse", "50.00", 200, base.Add(2*time.Hour))

	byName, err := repo.List(domain.ProductFilter{NameContains: "laptop"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 laptops, got %d", len(byName))
	}

	min := decimal.RequireFromString("100.00")
	max := decimal.RequireFromString("1000.00")
	byPrice, err := repo.List(domain.ProductFilter{PriceMin: &min, PriceMax: &max})
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if len(byPrice) != 1 || byPrice[0].ID != airID {
		t.Fatalf("expected only Laptop Air in price range, got %+v", byPrice)
	}

	stockMin := int32(100)
	byStock, err := repo.List(domain.ProductFilter{StockMin: &stockMin})
	if err != nil {
		t.Fatalf("list by stock: %v", err)
	}
	if len(byStock) != 1 || byStock[0].Name != "Mouse" {
		t.Fatalf("expected only Mouse with stock >= 100, got %+v", byStock)
	}
}
