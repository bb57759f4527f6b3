package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func TestOrderRepository_PostgresFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customers := NewCustomerRepository(store)
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	customer := insertTestCustomer(t, customers, "Alice", "alice@example.com", "+1234567890", now)
	laptop := insertTestProduct(t, products, "Laptop", "999.99", 10, now)
	mouse := insertTestProduct(t, products, "Mouse", "50.00", 100, now.Add(time.Second))

	order := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Products:    []domain.Product{laptop, mouse},
		TotalAmount: decimal.RequireFromString("1049.99"),
		OrderDate:   now,
		CreatedAt:   now,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("1049.99")) {
		t.Fatalf("expected total 1049.99, got %s", got.TotalAmount)
	}
	if len(got.Products) != 2 {
		t.Fatalf("expected 2 products on order, got %d", len(got.Products))
	}
	if got.Products[0].ID != laptop.ID {
		t.Fatalf("expected products ordered by created_at, got %+v", got.Products)
	}

	if _, err := orders.Get(uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_PostgresCreateAtomicity(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customers := NewCustomerRepository(store)
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	now := time.Now().UTC()
	customer := insertTestCustomer(t, customers, "Alice", "alice@example.com", "+1234567890", now)
	laptop := insertTestProduct(t, products, "Laptop", "999.99", 10, now)

	// Ассоциация на несуществующий товар нарушает внешний ключ:
	// заголовок заказа не должен пережить откат транзакции.
	broken := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		Products: []domain.Product{
			laptop,
			{ID: uuid.NewString(), Name: "Ghost", Price: decimal.RequireFromString("1.00")},
		},
		TotalAmount: decimal.RequireFromString("1000.99"),
		OrderDate:   now,
		CreatedAt:   now,
	}
	if err := orders.Create(broken); err == nil {
		t.Fatal("expected create to fail on unknown product association")
	}

	if _, err := orders.Get(broken.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected no order header after rollback, got %v", err)
	}
}

func TestOrderRepository_PostgresListFilters(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customers := NewCustomerRepository(store)
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	alice := insertTestCustomer(t, customers, "Alice Johnson", "alice@example.com", "+1234567890", base)
	bob := insertTestCustomer(t, customers, "Bob Smith", "bob@example.com", "+1987654321", base)
	laptop := insertTestProduct(t, products, "Laptop", "999.99", 10, base)
	mouse := insertTestProduct(t, products, "Mouse", "50.00", 100, base.Add(time.Second))

	bigOrderID := uuid.NewString()
	if err := orders.Create(domain.Order{
		ID:          bigOrderID,
		CustomerID:  alice.ID,
		Products:    []domain.Product{laptop, mouse},
		TotalAmount: decimal.RequireFromString("1049.99"),
		OrderDate:   base,
		CreatedAt:   base,
	}); err != nil {
		t.Fatalf("create first order: %v", err)
	}

	if err := orders.Create(domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  bob.ID,
		Products:    []domain.Product{mouse},
		TotalAmount: decimal.RequireFromString("50.00"),
		OrderDate:   base.Add(48 * time.Hour),
		CreatedAt:   base.Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("create second order: %v", err)
	}

	min := decimal.RequireFromString("100.00")
	byTotal, err := orders.List(domain.OrderFilter{TotalMin: &min})
	if err != nil {
		t.Fatalf("list by total: %v", err)
	}
	if len(byTotal) != 1 || byTotal[0].ID != bigOrderID {
		t.Fatalf("expected only the big order, got %+v", byTotal)
	}

	byCustomer, err := orders.List(domain.OrderFilter{CustomerNameContains: "smith"})
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(byCustomer) != 1 || byCustomer[0].CustomerID != bob.ID {
		t.Fatalf("expected only Bob's order, got %+v", byCustomer)
	}

	byProduct, err := orders.List(domain.OrderFilter{ProductNameContains: "laptop"})
	if err != nil {
		t.Fatalf("list by product: %v", err)
	}
	if len(byProduct) != 1 || byProduct[0].ID != bigOrderID {
		t.Fatalf("expected only the laptop order, got %+v", byProduct)
	}

	byDate, err := orders.List(domain.OrderFilter{OrderedFrom: base.Add(24 * time.Hour)})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].CustomerID != bob.ID {
		t.Fatalf("expected only the later order, got %+v", byDate)
	}
}
