// flashsale-service/internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"flashsale-system/services/flashsale-service/internal/domain"
)

const uniqueViolation = "23505"

type PostgresOrderRepo struct {
	db *sql.DB
}

func NewPostgresOrderRepo(connStr string) (*PostgresOrderRepo, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresOrderRepo{db: db}, nil
}

// Create inserts the order. The unique index on (user_id, item_id) is the
// final authority against duplicate fulfillment; its violation is reported as
// domain.ErrDuplicateOrder for the worker to swallow.
func (r *PostgresOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (id, user_id, item_id, quantity, total_price, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		order.UserID,
		order.ItemID,
		order.Quantity,
		order.TotalPrice,
		order.Status,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errors.Mark(err, domain.ErrDuplicateOrder)
		}
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (r *PostgresOrderRepo) FindCompletedByUser(ctx context.Context, userID string) (*domain.Order, error) {
	query := `SELECT id, user_id, item_id, quantity, total_price, status, created_at, updated_at
	          FROM orders
	          WHERE user_id = $1 AND status = $2
	          LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, userID, domain.StatusCompleted)
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ItemID,
		&order.Quantity,
		&order.TotalPrice,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return order, nil
}

func (r *PostgresOrderRepo) Close() error {
	return r.db.Close()
}
