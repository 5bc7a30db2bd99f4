package memory

import (
	"sort"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
)

type stockMovementRepository struct {
	store *Store
}

// NewStockMovementRepository creates a StockMovementRepository over the store.
func NewStockMovementRepository(store *Store) repositories.StockMovementRepository {
	return &stockMovementRepository{store: store}
}

func (r *stockMovementRepository) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	movement.ID = r.store.nextID()
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	r.store.movements[movement.ID] = *movement
	return movement.ID, nil
}

func (r *stockMovementRepository) GetMovements(_ repositories.SQLExecutor, productID *int64) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	for _, movement := range r.store.movements {
		if productID != nil && movement.ProductID != *productID {
			continue
		}
		movements = append(movements, movement)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].ID > movements[j].ID })
	return movements, nil
}
