package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заказ и его ассоциации с товарами в одной транзакции.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, order_date, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		order.ID, order.CustomerID, order.TotalAmount, order.OrderDate, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, product := range order.Products {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, product_id)
			VALUES ($1,$2)
		`, order.ID, product.ID); err != nil {
			return fmt.Errorf("insert order product association: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_amount, order_date, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.TotalAmount, &order.OrderDate, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	products, err := r.loadProducts(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Products = products

	return order, nil
}

func (r *orderRepository) List(filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT o.id, o.customer_id, o.total_amount, o.order_date, o.created_at
		FROM orders o
	`
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	// Фильтр по имени клиента выражается join'ом с customers, фильтр по
	// имени товара — полусоединением через таблицу ассоциаций.
	if filter.CustomerNameContains != "" {
		query += " JOIN customers c ON c.id = o.customer_id"
		args = append(args, "%"+filter.CustomerNameContains+"%")
		conditions = append(conditions, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if filter.ProductNameContains != "" {
		args = append(args, "%"+filter.ProductNameContains+"%")
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1
			FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND p.name ILIKE $%d
		)`, len(args)))
	}
	if filter.TotalMin != nil {
		args = append(args, *filter.TotalMin)
		conditions = append(conditions, fmt.Sprintf("o.total_amount >= $%d", len(args)))
	}
	if filter.TotalMax != nil {
		args = append(args, *filter.TotalMax)
		conditions = append(conditions, fmt.Sprintf("o.total_amount <= $%d", len(args)))
	}
	if !filter.OrderedFrom.IsZero() {
		args = append(args, filter.OrderedFrom)
		conditions = append(conditions, fmt.Sprintf("o.order_date >= $%d", len(args)))
	}
	if !filter.OrderedTo.IsZero() {
		args = append(args, filter.OrderedTo)
		conditions = append(conditions, fmt.Sprintf("o.order_date <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.created_at ASC, o.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.TotalAmount, &order.OrderDate, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		products, err := r.loadProducts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Products = products
	}

	return orders, nil
}

func (r *orderRepository) loadProducts(ctx context.Context, orderID string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.stock, p.created_at
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
