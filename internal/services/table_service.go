package services

import (
	"errors"
	"fmt"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
)

var ErrTableNotFound = errors.New("table not found")

// SetTableStatusRequest changes a table's lifecycle status directly, outside
// the comanda flow (e.g. marking a table reserved).
type SetTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TableService interface {
	ListTables() ([]models.Table, error)
	GetTableByID(id int64) (*models.Table, error)
	SetTableStatus(id int64, req SetTableStatusRequest) (*models.Table, error)
}

type tableService struct {
	txm       repositories.TxManager
	tableRepo repositories.TableRepository
}

// NewTableService creates a new instance of TableService.
func NewTableService(txm repositories.TxManager, tr repositories.TableRepository) TableService {
	return &tableService{txm: txm, tableRepo: tr}
}

func (s *tableService) ListTables() ([]models.Table, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tables, err := s.tableRepo.GetTables(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByID(id int64) (*models.Table, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByID(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrTableNotFound, id)
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *tableService) SetTableStatus(id int64, req SetTableStatusRequest) (*models.Table, error) {
	if !models.IsValidTableStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, req.Status)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.tableRepo.UpdateTableStatus(tx, id, req.Status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrTableNotFound, id)
		}
		return nil, fmt.Errorf("failed to update table status: %w", err)
	}
	table, err := s.tableRepo.GetTableByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table status update: %w", err)
	}
	return table, nil
}
