package memory

import (
	"sort"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type comandaRepository struct {
	store *Store
}

// NewComandaRepository creates a ComandaRepository over the store.
func NewComandaRepository(store *Store) repositories.ComandaRepository {
	return &comandaRepository{store: store}
}

func (r *comandaRepository) CreateComanda(_ repositories.SQLExecutor, comanda *models.Comanda) (int64, error) {
	comanda.ID = r.store.nextID()
	if comanda.CreatedAt.IsZero() {
		comanda.CreatedAt = time.Now()
	}
	r.store.comandas[comanda.ID] = *comanda
	return comanda.ID, nil
}

func (r *comandaRepository) GetComandaByID(_ repositories.SQLExecutor, id int64) (*models.Comanda, error) {
	comanda, ok := r.store.comandas[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := cloneComanda(comanda)
	return &c, nil
}

func (r *comandaRepository) GetOpenComandaByTableID(_ repositories.SQLExecutor, tableID int64) (*models.Comanda, error) {
	var found *models.Comanda
	for _, comanda := range r.store.comandas {
		if comanda.TableID == nil || *comanda.TableID != tableID || comanda.Status != models.ComandaOpen {
			continue
		}
		if found == nil || comanda.ID < found.ID {
			c := cloneComanda(comanda)
			found = &c
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (r *comandaRepository) CloseComanda(_ repositories.SQLExecutor, id int64, total decimal.Decimal, closedAt time.Time) error {
	comanda, ok := r.store.comandas[id]
	if !ok {
		return repositories.ErrNotFound
	}
	comanda.Status = models.ComandaClosed
	comanda.Total = &total
	comanda.ClosedAt = &closedAt
	r.store.comandas[id] = comanda
	return nil
}

func (r *comandaRepository) CountOpenComandas(_ repositories.SQLExecutor) (int, error) {
	count := 0
	for _, comanda := range r.store.comandas {
		if comanda.Status == models.ComandaOpen {
			count++
		}
	}
	return count, nil
}

func (r *comandaRepository) CreateLine(_ repositories.SQLExecutor, line *models.ComandaLine) (int64, error) {
	line.ID = r.store.nextID()
	stored := *line
	stored.Product = nil
	r.store.lines[line.ID] = stored
	return line.ID, nil
}

func (r *comandaRepository) GetLineByID(_ repositories.SQLExecutor, id int64) (*models.ComandaLine, error) {
	line, ok := r.store.lines[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &line, nil
}

func (r *comandaRepository) GetLinesByComandaID(_ repositories.SQLExecutor, comandaID int64) ([]models.ComandaLine, error) {
	lines := []models.ComandaLine{}
	for _, line := range r.store.lines {
		if line.ComandaID != comandaID {
			continue
		}
		if product, ok := r.store.products[line.ProductID]; ok {
			p := cloneProduct(product)
			line.Product = &p
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (r *comandaRepository) UpdateLineQuantity(_ repositories.SQLExecutor, id int64, quantity, subtotal decimal.Decimal) error {
	line, ok := r.store.lines[id]
	if !ok {
		return repositories.ErrNotFound
	}
	line.Quantity = quantity
	line.Subtotal = subtotal
	r.store.lines[id] = line
	return nil
}

func (r *comandaRepository) DeleteLine(_ repositories.SQLExecutor, id int64) (int64, error) {
	if _, ok := r.store.lines[id]; !ok {
		return 0, nil
	}
	delete(r.store.lines, id)
	return 1, nil
}

// cloneComanda copies a comanda so callers cannot alias stored state through
// the Total and ClosedAt pointers.
func cloneComanda(c models.Comanda) models.Comanda {
	if c.Total != nil {
		total := *c.Total
		c.Total = &total
	}
	if c.ClosedAt != nil {
		closedAt := *c.ClosedAt
		c.ClosedAt = &closedAt
	}
	return c
}
