package repositories

import (
	"errors"
	"fmt"
	"time"

	"pos_comanda_backend/internal/models"

	"github.com/lib/pq"
)

// StockMovementRepository defines the stock movement ledger operations.
type StockMovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovements(executor SQLExecutor, productID *int64) ([]models.StockMovement, error)
}

type postgresStockMovementRepository struct{}

// NewPostgresStockMovementRepository creates a StockMovementRepository backed by Postgres.
func NewPostgresStockMovementRepository() StockMovementRepository {
	return &postgresStockMovementRepository{}
}

func (r *postgresStockMovementRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements (product_id, movement_type, quantity_changed, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		movement.ProductID, movement.MovementType, movement.QuantityChanged,
		movement.Reason, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: product %d for stock movement", ErrNotFound, movement.ProductID)
		}
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *postgresStockMovementRepository) GetMovements(executor SQLExecutor, productID *int64) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	query := `SELECT id, product_id, movement_type, quantity_changed, reason, created_at
	          FROM stock_movements`
	args := []interface{}{}
	if productID != nil {
		query += ` WHERE product_id = $1`
		args = append(args, *productID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := executor.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var movement models.StockMovement
		err := rows.Scan(
			&movement.ID, &movement.ProductID, &movement.MovementType,
			&movement.QuantityChanged, &movement.Reason, &movement.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		movements = append(movements, movement)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock movements: %v", ErrDatabaseError, err)
	}
	return movements, nil
}
