package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_comanda_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	CreateCategory(executor SQLExecutor, category *models.Category) (int64, error)
	GetCategoryByID(executor SQLExecutor, id int64) (*models.Category, error)
	GetCategories(executor SQLExecutor) ([]models.Category, error)
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(executor SQLExecutor, id int64) (*models.Product, error)
	GetProducts(executor SQLExecutor) ([]models.Product, error) // joins each product's category
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, id int64) (int64, error) // returns rows affected; 0 is not an error
	UpdateStock(executor SQLExecutor, productID int64, newStock decimal.Decimal) error
}

type postgresCategoryRepository struct{}

// NewPostgresCategoryRepository creates a CategoryRepository backed by Postgres.
func NewPostgresCategoryRepository() CategoryRepository {
	return &postgresCategoryRepository{}
}

func (r *postgresCategoryRepository) CreateCategory(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	err := executor.QueryRow(query, category.Name).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category name '%s' already exists", ErrDuplicateKey, category.Name)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(executor SQLExecutor, id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name FROM categories WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) GetCategories(executor SQLExecutor) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name FROM categories ORDER BY id`
	rows, err := executor.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

type postgresProductRepository struct{}

// NewPostgresProductRepository creates a ProductRepository backed by Postgres.
func NewPostgresProductRepository() ProductRepository {
	return &postgresProductRepository{}
}

func (r *postgresProductRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, unit_price, unit_of_measure, category_id, tracks_stock, current_stock)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := executor.QueryRow(query,
		product.Name, product.UnitPrice, product.UnitOfMeasure, product.CategoryID,
		product.TracksStock, nullDecimal(product.CurrentStock),
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: category %d for product '%s'", ErrNotFound, product.CategoryID, product.Name)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *postgresProductRepository) GetProductByID(executor SQLExecutor, id int64) (*models.Product, error) {
	product := &models.Product{}
	var currentStock decimal.NullDecimal
	query := `SELECT id, name, unit_price, unit_of_measure, category_id, tracks_stock, current_stock
	          FROM products WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.UnitPrice, &product.UnitOfMeasure,
		&product.CategoryID, &product.TracksStock, &currentStock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	if currentStock.Valid {
		product.CurrentStock = &currentStock.Decimal
	}
	return product, nil
}

func (r *postgresProductRepository) GetProducts(executor SQLExecutor) ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT p.id, p.name, p.unit_price, p.unit_of_measure, p.category_id, p.tracks_stock, p.current_stock,
	                 c.id, c.name
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          ORDER BY p.id`
	rows, err := executor.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		var currentStock decimal.NullDecimal
		var categoryID sql.NullInt64
		var categoryName sql.NullString
		err := rows.Scan(
			&product.ID, &product.Name, &product.UnitPrice, &product.UnitOfMeasure,
			&product.CategoryID, &product.TracksStock, &currentStock,
			&categoryID, &categoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		if currentStock.Valid {
			stock := currentStock.Decimal
			product.CurrentStock = &stock
		}
		if categoryID.Valid {
			product.Category = &models.Category{ID: categoryID.Int64, Name: categoryName.String}
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *postgresProductRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, unit_price = $2, unit_of_measure = $3, category_id = $4,
	              tracks_stock = $5, current_stock = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		product.Name, product.UnitPrice, product.UnitOfMeasure, product.CategoryID,
		product.TracksStock, nullDecimal(product.CurrentStock), product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: category %d for product ID %d", ErrNotFound, product.CategoryID, product.ID)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresProductRepository) DeleteProduct(executor SQLExecutor, id int64) (int64, error) {
	query := `DELETE FROM products WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}

func (r *postgresProductRepository) UpdateStock(executor SQLExecutor, productID int64, newStock decimal.Decimal) error {
	query := `UPDATE products SET current_stock = $1 WHERE id = $2`
	result, err := executor.Exec(query, newStock, productID)
	if err != nil {
		return fmt.Errorf("%w: updating stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// nullDecimal adapts an optional decimal to the driver's nullable form.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
