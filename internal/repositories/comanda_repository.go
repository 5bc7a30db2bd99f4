package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos_comanda_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ComandaRepository defines persistence operations for comandas and their lines.
type ComandaRepository interface {
	// Comanda methods
	CreateComanda(executor SQLExecutor, comanda *models.Comanda) (int64, error)
	GetComandaByID(executor SQLExecutor, id int64) (*models.Comanda, error)
	GetOpenComandaByTableID(executor SQLExecutor, tableID int64) (*models.Comanda, error)
	CloseComanda(executor SQLExecutor, id int64, total decimal.Decimal, closedAt time.Time) error
	CountOpenComandas(executor SQLExecutor) (int, error)

	// Line methods
	CreateLine(executor SQLExecutor, line *models.ComandaLine) (int64, error)
	GetLineByID(executor SQLExecutor, id int64) (*models.ComandaLine, error)
	GetLinesByComandaID(executor SQLExecutor, comandaID int64) ([]models.ComandaLine, error) // joins each line's product
	UpdateLineQuantity(executor SQLExecutor, id int64, quantity, subtotal decimal.Decimal) error
	DeleteLine(executor SQLExecutor, id int64) (int64, error) // returns rows affected; 0 is not an error
}

type postgresComandaRepository struct{}

// NewPostgresComandaRepository creates a ComandaRepository backed by Postgres.
func NewPostgresComandaRepository() ComandaRepository {
	return &postgresComandaRepository{}
}

// --- Comanda Methods ---

func (r *postgresComandaRepository) CreateComanda(executor SQLExecutor, comanda *models.Comanda) (int64, error) {
	query := `INSERT INTO comandas (table_id, customer_name, status, total, created_at, closed_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if comanda.CreatedAt.IsZero() {
		comanda.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		comanda.TableID, comanda.CustomerName, comanda.Status,
		nullDecimal(comanda.Total), comanda.CreatedAt, comanda.ClosedAt,
	).Scan(&comanda.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: table for new comanda", ErrNotFound)
		}
		return 0, fmt.Errorf("%w: creating comanda: %v", ErrDatabaseError, err)
	}
	return comanda.ID, nil
}

func (r *postgresComandaRepository) GetComandaByID(executor SQLExecutor, id int64) (*models.Comanda, error) {
	query := `SELECT id, table_id, customer_name, status, total, created_at, closed_at
	          FROM comandas WHERE id = $1`
	return scanComanda(executor.QueryRow(query, id), id)
}

func (r *postgresComandaRepository) GetOpenComandaByTableID(executor SQLExecutor, tableID int64) (*models.Comanda, error) {
	query := `SELECT id, table_id, customer_name, status, total, created_at, closed_at
	          FROM comandas
	          WHERE table_id = $1 AND status = $2
	          ORDER BY id
	          LIMIT 1`
	return scanComanda(executor.QueryRow(query, tableID, models.ComandaOpen), tableID)
}

func (r *postgresComandaRepository) CloseComanda(executor SQLExecutor, id int64, total decimal.Decimal, closedAt time.Time) error {
	query := `UPDATE comandas SET status = $1, total = $2, closed_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, models.ComandaClosed, total, closedAt, id)
	if err != nil {
		return fmt.Errorf("%w: closing comanda ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresComandaRepository) CountOpenComandas(executor SQLExecutor) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM comandas WHERE status = $1`
	if err := executor.QueryRow(query, models.ComandaOpen).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting open comandas: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// --- Line Methods ---

func (r *postgresComandaRepository) CreateLine(executor SQLExecutor, line *models.ComandaLine) (int64, error) {
	query := `INSERT INTO comanda_lines (comanda_id, product_id, quantity, unit_price_at_sale, subtotal)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		line.ComandaID, line.ProductID, line.Quantity, line.UnitPriceAtSale, line.Subtotal,
	).Scan(&line.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating comanda line (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating comanda line: %v", ErrDatabaseError, err)
	}
	return line.ID, nil
}

func (r *postgresComandaRepository) GetLineByID(executor SQLExecutor, id int64) (*models.ComandaLine, error) {
	line := &models.ComandaLine{}
	query := `SELECT id, comanda_id, product_id, quantity, unit_price_at_sale, subtotal
	          FROM comanda_lines WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(
		&line.ID, &line.ComandaID, &line.ProductID,
		&line.Quantity, &line.UnitPriceAtSale, &line.Subtotal,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting comanda line by ID %d: %v", ErrDatabaseError, id, err)
	}
	return line, nil
}

func (r *postgresComandaRepository) GetLinesByComandaID(executor SQLExecutor, comandaID int64) ([]models.ComandaLine, error) {
	lines := []models.ComandaLine{}
	query := `SELECT l.id, l.comanda_id, l.product_id, l.quantity, l.unit_price_at_sale, l.subtotal,
	                 p.id, p.name, p.unit_price, p.unit_of_measure, p.category_id, p.tracks_stock, p.current_stock
	          FROM comanda_lines l
	          LEFT JOIN products p ON l.product_id = p.id
	          WHERE l.comanda_id = $1
	          ORDER BY l.id`
	rows, err := executor.Query(query, comandaID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying lines for comanda ID %d: %v", ErrDatabaseError, comandaID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.ComandaLine
		var productID sql.NullInt64
		var productName, unitOfMeasure sql.NullString
		var unitPrice, currentStock decimal.NullDecimal
		var categoryID sql.NullInt64
		var tracksStock sql.NullBool
		err := rows.Scan(
			&line.ID, &line.ComandaID, &line.ProductID,
			&line.Quantity, &line.UnitPriceAtSale, &line.Subtotal,
			&productID, &productName, &unitPrice, &unitOfMeasure, &categoryID, &tracksStock, &currentStock,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning line for comanda ID %d: %v", ErrDatabaseError, comandaID, err)
		}
		// The product may have been deleted after it was sold; the line keeps
		// the snapshot and the embed stays nil.
		if productID.Valid {
			product := &models.Product{
				ID:            productID.Int64,
				Name:          productName.String,
				UnitPrice:     unitPrice.Decimal,
				UnitOfMeasure: unitOfMeasure.String,
				CategoryID:    categoryID.Int64,
				TracksStock:   tracksStock.Bool,
			}
			if currentStock.Valid {
				stock := currentStock.Decimal
				product.CurrentStock = &stock
			}
			line.Product = product
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating lines for comanda ID %d: %v", ErrDatabaseError, comandaID, err)
	}
	return lines, nil
}

func (r *postgresComandaRepository) UpdateLineQuantity(executor SQLExecutor, id int64, quantity, subtotal decimal.Decimal) error {
	query := `UPDATE comanda_lines SET quantity = $1, subtotal = $2 WHERE id = $3`
	result, err := executor.Exec(query, quantity, subtotal, id)
	if err != nil {
		return fmt.Errorf("%w: updating quantity for line ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresComandaRepository) DeleteLine(executor SQLExecutor, id int64) (int64, error) {
	query := `DELETE FROM comanda_lines WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting line ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting line ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}

// scanComanda reads one comanda row, mapping sql.ErrNoRows to ErrNotFound.
func scanComanda(row *sql.Row, id int64) (*models.Comanda, error) {
	comanda := &models.Comanda{}
	var total decimal.NullDecimal
	var closedAt sql.NullTime
	err := row.Scan(
		&comanda.ID, &comanda.TableID, &comanda.CustomerName, &comanda.Status,
		&total, &comanda.CreatedAt, &closedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning comanda (ID or table ID %d): %v", ErrDatabaseError, id, err)
	}
	if total.Valid {
		comanda.Total = &total.Decimal
	}
	if closedAt.Valid {
		comanda.ClosedAt = &closedAt.Time
	}
	return comanda, nil
}
