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

// SaleRepository defines sale persistence operations. Sales are immutable
// after creation; there are no update or delete methods.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	GetSaleByID(executor SQLExecutor, id int64) (*models.Sale, error)
	// GetSalesBetween returns sales whose creation date (date-only, local time)
	// falls inside the inclusive [start, end] range.
	GetSalesBetween(executor SQLExecutor, start, end time.Time) ([]models.Sale, error)
}

type postgresSaleRepository struct{}

// NewPostgresSaleRepository creates a SaleRepository backed by Postgres.
func NewPostgresSaleRepository() SaleRepository {
	return &postgresSaleRepository{}
}

func (r *postgresSaleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales (comanda_id, payment_method, total_amount, amount_received, change, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		sale.ComandaID, sale.PaymentMethod, sale.TotalAmount,
		nullDecimal(sale.AmountReceived), nullDecimal(sale.Change), sale.CreatedAt,
	).Scan(&sale.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: comanda %d for new sale", ErrNotFound, sale.ComandaID)
		}
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *postgresSaleRepository) GetSaleByID(executor SQLExecutor, id int64) (*models.Sale, error) {
	query := `SELECT id, comanda_id, payment_method, total_amount, amount_received, change, created_at
	          FROM sales WHERE id = $1`
	sale, err := scanSale(executor.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %d: %v", ErrDatabaseError, id, err)
	}
	return sale, nil
}

func (r *postgresSaleRepository) GetSalesBetween(executor SQLExecutor, start, end time.Time) ([]models.Sale, error) {
	sales := []models.Sale{}
	query := `SELECT id, comanda_id, payment_method, total_amount, amount_received, change, created_at
	          FROM sales
	          WHERE created_at::date BETWEEN $1::date AND $2::date
	          ORDER BY created_at`
	rows, err := executor.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales between %s and %s: %v",
			ErrDatabaseError, start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale models.Sale
		var amountReceived, change decimal.NullDecimal
		err := rows.Scan(
			&sale.ID, &sale.ComandaID, &sale.PaymentMethod, &sale.TotalAmount,
			&amountReceived, &change, &sale.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		if amountReceived.Valid {
			received := amountReceived.Decimal
			sale.AmountReceived = &received
		}
		if change.Valid {
			c := change.Decimal
			sale.Change = &c
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales: %v", ErrDatabaseError, err)
	}
	return sales, nil
}

func scanSale(row *sql.Row) (*models.Sale, error) {
	sale := &models.Sale{}
	var amountReceived, change decimal.NullDecimal
	err := row.Scan(
		&sale.ID, &sale.ComandaID, &sale.PaymentMethod, &sale.TotalAmount,
		&amountReceived, &change, &sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amountReceived.Valid {
		sale.AmountReceived = &amountReceived.Decimal
	}
	if change.Valid {
		sale.Change = &change.Decimal
	}
	return sale, nil
}
