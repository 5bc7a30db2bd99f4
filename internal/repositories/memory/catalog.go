package memory

import (
	"sort"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type categoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a CategoryRepository over the store.
func NewCategoryRepository(store *Store) repositories.CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) CreateCategory(_ repositories.SQLExecutor, category *models.Category) (int64, error) {
	category.ID = r.store.nextID()
	r.store.categories[category.ID] = *category
	return category.ID, nil
}

func (r *categoryRepository) GetCategoryByID(_ repositories.SQLExecutor, id int64) (*models.Category, error) {
	category, ok := r.store.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &category, nil
}

func (r *categoryRepository) GetCategories(_ repositories.SQLExecutor) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

type productRepository struct {
	store *Store
}

// NewProductRepository creates a ProductRepository over the store.
func NewProductRepository(store *Store) repositories.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	product.ID = r.store.nextID()
	r.store.products[product.ID] = cloneProduct(*product)
	return product.ID, nil
}

func (r *productRepository) GetProductByID(_ repositories.SQLExecutor, id int64) (*models.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p := cloneProduct(product)
	return &p, nil
}

func (r *productRepository) GetProducts(_ repositories.SQLExecutor) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		p := cloneProduct(product)
		if category, ok := r.store.categories[p.CategoryID]; ok {
			c := category
			p.Category = &c
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *productRepository) UpdateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := cloneProduct(*product)
	stored.Category = nil
	r.store.products[product.ID] = stored
	return nil
}

func (r *productRepository) DeleteProduct(_ repositories.SQLExecutor, id int64) (int64, error) {
	if _, ok := r.store.products[id]; !ok {
		return 0, nil
	}
	delete(r.store.products, id)
	return 1, nil
}

func (r *productRepository) UpdateStock(_ repositories.SQLExecutor, productID int64, newStock decimal.Decimal) error {
	product, ok := r.store.products[productID]
	if !ok {
		return repositories.ErrNotFound
	}
	product.CurrentStock = &newStock
	r.store.products[productID] = product
	return nil
}

// cloneProduct copies a product so callers cannot alias stored state through
// the CurrentStock pointer.
func cloneProduct(p models.Product) models.Product {
	if p.CurrentStock != nil {
		stock := *p.CurrentStock
		p.CurrentStock = &stock
	}
	return p
}
