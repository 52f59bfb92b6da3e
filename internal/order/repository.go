package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "ordergate/pkg/errors"
)

// Repository is the durable order store. Implementations must be safe for
// concurrent independent use; each request owns its own unit of work.
type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	FindByUserID(ctx context.Context, userID string) ([]Order, error)
}

// NewRepository selects the configured store backend.
func NewRepository(store string, db *sql.DB, mongoDB *mongo.Database) (Repository, error) {
	switch store {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres store selected but no connection configured")
		}
		return NewPostgresRepository(db), nil
	case "mongodb":
		if mongoDB == nil {
			return nil, fmt.Errorf("mongodb store selected but no connection configured")
		}
		return NewMongoRepository(mongoDB), nil
	default:
		return nil, fmt.Errorf("unknown order store: %s", store)
	}
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()

	query := `
		INSERT INTO orders (id, user_id, product_id, qty, unit_price, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.UserID, order.ProductID,
		order.Qty, order.UnitPrice, order.TotalPrice,
		order.Status, order.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return pkgerrors.ErrConflict.WithCause(err).WithDetail("message", fmt.Sprintf("order %s already exists", order.ID))
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) ([]Order, error) {
	query := `
		SELECT id, user_id, product_id, qty, unit_price, total_price, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ProductID,
			&o.Qty, &o.UnitPrice, &o.TotalPrice,
			&o.Status, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}
