package memory

import (
	"sort"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
)

type saleRepository struct {
	store *Store
}

// NewSaleRepository creates a SaleRepository over the store.
func NewSaleRepository(store *Store) repositories.SaleRepository {
	return &saleRepository{store: store}
}

func (r *saleRepository) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	sale.ID = r.store.nextID()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	r.store.sales[sale.ID] = cloneSale(*sale)
	return sale.ID, nil
}

func (r *saleRepository) GetSaleByID(_ repositories.SQLExecutor, id int64) (*models.Sale, error) {
	sale, ok := r.store.sales[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	s := cloneSale(sale)
	return &s, nil
}

func (r *saleRepository) GetSalesBetween(_ repositories.SQLExecutor, start, end time.Time) ([]models.Sale, error) {
	startDate := dateOnly(start)
	endDate := dateOnly(end)
	sales := []models.Sale{}
	for _, sale := range r.store.sales {
		saleDate := dateOnly(sale.CreatedAt)
		if saleDate.Before(startDate) || saleDate.After(endDate) {
			continue
		}
		sales = append(sales, cloneSale(sale))
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].ID < sales[j].ID
		}
		return sales[i].CreatedAt.Before(sales[j].CreatedAt)
	})
	return sales, nil
}

func cloneSale(s models.Sale) models.Sale {
	if s.AmountReceived != nil {
		received := *s.AmountReceived
		s.AmountReceived = &received
	}
	if s.Change != nil {
		change := *s.Change
		s.Change = &change
	}
	return s
}

// dateOnly truncates a timestamp to its calendar date in local time.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
