package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
	"github.com/vladislavdragonenkov/crm/internal/storage/postgres"
	"github.com/vladislavdragonenkov/crm/internal/storage/sqlite"
)

// Dependencies содержит репозитории приложения и процедуру их закрытия.
type Dependencies struct {
	Customers   domain.CustomerRepository
	Products    domain.ProductRepository
	Orders      domain.OrderRepository
	Outbox      domain.OutboxRepository
	Idempotency domain.IdempotencyRepository

	// Ping проверяет доступность хранилища; nil для in-memory драйвера.
	Ping func(ctx context.Context) error

	Logger  *log.Entry
	closers []func() error
}

// Close освобождает ресурсы хранилища в обратном порядке открытия.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.WithError(err).Warn("failed to close storage")
		}
	}
}

// NewDependencies создаёт репозитории согласно выбранному драйверу хранилища.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.New().WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case StorageDriverMemory:
		deps.Customers = memory.NewCustomerRepository()
		deps.Products = memory.NewProductRepository()
		deps.Orders = memory.NewOrderRepository(deps.Customers)
		deps.Outbox = memory.NewOutboxRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()

	case StorageDriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)
		deps.Customers = sqlite.NewCustomerRepository(store)
		deps.Products = sqlite.NewProductRepository(store)
		deps.Orders = sqlite.NewOrderRepository(store)
		// Очередь outbox и кэш идемпотентности у dev-драйвера живут в памяти.
		deps.Outbox = memory.NewOutboxRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()
		logger.WithField("path", cfg.SQLitePath).Info("sqlite storage initialized")

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				deps.Close()
				return nil, fmt.Errorf("ensure postgres schema: %w", err)
			}
		}
		deps.Customers = postgres.NewCustomerRepository(store)
		deps.Products = postgres.NewProductRepository(store)
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Idempotency = postgres.NewIdempotencyRepository(store)
		deps.Ping = store.Ping
		logger.Info("postgres storage initialized")

	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
	}

	return deps, nil
}
