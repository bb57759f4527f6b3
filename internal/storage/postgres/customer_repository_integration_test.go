package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func insertTestCustomer(t *testing.T, repo domain.CustomerRepository, name, email, phone string, createdAt time.Time) domain.Customer {
	t.Helper()

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt,
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("insert test customer %s: %v", email, err)
	}
	return customer
}

func TestCustomerRepository_PostgresFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	created := insertTestCustomer(t, repo, "Alice Johnson", "alice@example.com", "+1234567890", now)

	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("expected email alice@example.com, got %s", got.Email)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %s, got %s", now, got.CreatedAt)
	}

	if _, err := repo.Get(uuid.NewString()); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerRepository_PostgresDuplicateEmail(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	now := time.Now().UTC()
	insertTestCustomer(t, repo, "Alice", "alice@example.com", "+1234567890", now)

	err := repo.Create(domain.Customer{
		ID:        uuid.NewString(),
		Name:      "Shadow Alice",
		Email:     "ALICE@example.com",
		Phone:     "+1987654321",
		CreatedAt: now,
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for case-insensitive duplicate, got %v", err)
	}

	exists, err := repo.EmailExists("Alice@Example.COM")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist regardless of case")
	}
}

func TestCustomerRepository_PostgresListFilters(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	insertTestCustomer(t, repo, "Alice Johnson", "alice@example.com", "+1234567890", base)
	insertTestCustomer(t, repo, "Bob Smith", "bob@corp.io", "123-456-7890", base.Add(24*time.Hour))
	insertTestCustomer(t, repo, "Carol Jones", "carol@example.com", "+79991234567", base.Add(48*time.Hour))

	byName, err := repo.List(domain.CustomerFilter{NameContains: "JO"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 customers matching name, got %d", len(byName))
	}

	byPhone, err := repo.List(domain.CustomerFilter{PhonePrefix: "+7"})
	if err != nil {
		t.Fatalf("list by phone: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Carol Jones" {
		t.Fatalf("expected only Carol by phone prefix, got %+v", byPhone)
	}

	byDate, err := repo.List(domain.CustomerFilter{
		CreatedFrom: base.Add(12 * time.Hour),
		CreatedTo:   base.Add(36 * time.Hour),
	})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].Name != "Bob Smith" {
		t.Fatalf("expected only Bob in date range, got %+v", byDate)
	}

	all, err := repo.List(domain.CustomerFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Fatalf("expected customers ordered by created_at, got %+v", all)
		}
	}
}
