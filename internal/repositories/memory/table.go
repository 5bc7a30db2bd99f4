package memory

import (
	"sort"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
)

type tableRepository struct {
	store *Store
}

// NewTableRepository creates a TableRepository over the store.
func NewTableRepository(store *Store) repositories.TableRepository {
	return &tableRepository{store: store}
}

func (r *tableRepository) GetTables(_ repositories.SQLExecutor) ([]models.Table, error) {
	tables := make([]models.Table, 0, len(r.store.tables))
	for _, table := range r.store.tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (r *tableRepository) GetTableByID(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
	table, ok := r.store.tables[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &table, nil
}

func (r *tableRepository) UpdateTableStatus(_ repositories.SQLExecutor, id int64, status string) error {
	table, ok := r.store.tables[id]
	if !ok {
		return repositories.ErrNotFound
	}
	table.Status = status
	r.store.tables[id] = table
	return nil
}
