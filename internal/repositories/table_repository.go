package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_comanda_backend/internal/models"
)

// TableRepository defines table persistence operations.
type TableRepository interface {
	GetTables(executor SQLExecutor) ([]models.Table, error)
	GetTableByID(executor SQLExecutor, id int64) (*models.Table, error)
	UpdateTableStatus(executor SQLExecutor, id int64, status string) error
}

type postgresTableRepository struct{}

// NewPostgresTableRepository creates a TableRepository backed by Postgres.
func NewPostgresTableRepository() TableRepository {
	return &postgresTableRepository{}
}

func (r *postgresTableRepository) GetTables(executor SQLExecutor) ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, number, status FROM tables ORDER BY number`
	rows, err := executor.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var table models.Table
		if err := rows.Scan(&table.ID, &table.Number, &table.Status); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *postgresTableRepository) GetTableByID(executor SQLExecutor, id int64) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT id, number, status FROM tables WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(&table.ID, &table.Number, &table.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by ID %d: %v", ErrDatabaseError, id, err)
	}
	return table, nil
}

func (r *postgresTableRepository) UpdateTableStatus(executor SQLExecutor, id int64, status string) error {
	query := `UPDATE tables SET status = $1 WHERE id = $2`
	result, err := executor.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("%w: updating status for table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table status update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
