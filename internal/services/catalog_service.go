package services

import (
	"errors"
	"fmt"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
	"pos_comanda_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation       = errors.New("validation error") // Generic validation error
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// --- DTOs ---

// CreateCategoryRequest is used for creating a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProductRequest is used for creating a new product. Monetary values
// and quantities travel as decimal strings, per the JSON boundary contract.
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	UnitPrice     string  `json:"unitPrice" binding:"required"`
	UnitOfMeasure string  `json:"unitOfMeasure" binding:"required"`
	CategoryID    int64   `json:"categoryId" binding:"required"`
	TracksStock   *bool   `json:"tracksStock"`
	CurrentStock  *string `json:"currentStock"`
}

// UpdateProductRequest is a partial update: absent fields keep their value.
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	UnitPrice     *string `json:"unitPrice"`
	UnitOfMeasure *string `json:"unitOfMeasure"`
	CategoryID    *int64  `json:"categoryId"`
	TracksStock   *bool   `json:"tracksStock"`
	CurrentStock  *string `json:"currentStock"`
}

// ProductResponse is the wire shape of a product: money with two decimal
// places, stock with three.
type ProductResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	UnitPrice     string           `json:"unitPrice"`
	UnitOfMeasure string           `json:"unitOfMeasure"`
	CategoryID    int64            `json:"categoryId"`
	TracksStock   bool             `json:"tracksStock"`
	CurrentStock  *string          `json:"currentStock"`
	Category      *models.Category `json:"category,omitempty"`
}

// StockMovementResponse is the wire shape of one stock ledger entry.
type StockMovementResponse struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	MovementType    string  `json:"movementType"`
	QuantityChanged string  `json:"quantityChanged"`
	Reason          *string `json:"reason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// --- CatalogService Interface ---

type CatalogService interface {
	ListCategories() ([]models.Category, error)
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)

	ListProducts() ([]ProductResponse, error)
	GetProductByID(id int64) (*ProductResponse, error)
	CreateProduct(req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(id int64, req UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(id int64) error

	ListStockMovements(productID *int64) ([]StockMovementResponse, error)
}

type catalogService struct {
	txm          repositories.TxManager
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	txm repositories.TxManager,
	cr repositories.CategoryRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
) CatalogService {
	return &catalogService{
		txm:          txm,
		categoryRepo: cr,
		productRepo:  pr,
		movementRepo: mr,
	}
}

// --- Method Implementations ---

func (s *catalogService) ListCategories() ([]models.Category, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	categories, err := s.categoryRepo.GetCategories(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	category := models.Category{Name: req.Name}
	if _, err := s.categoryRepo.CreateCategory(tx, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category creation: %w", err)
	}
	return &category, nil
}

func (s *catalogService) ListProducts() ([]ProductResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	products, err := s.productRepo.GetProducts(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, newProductResponse(product))
	}
	return responses, nil
}

func (s *catalogService) GetProductByID(id int64) (*ProductResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	product, err := s.productRepo.GetProductByID(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	resp := newProductResponse(*product)
	return &resp, nil
}

func (s *catalogService) CreateProduct(req CreateProductRequest) (*ProductResponse, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if !models.IsValidMeasure(req.UnitOfMeasure) {
		return nil, fmt.Errorf("%w: unknown unit of measure %q", ErrValidation, req.UnitOfMeasure)
	}
	unitPrice, err := parseMoney("unitPrice", req.UnitPrice)
	if err != nil {
		return nil, err
	}
	currentStock, err := parseOptionalQuantity("currentStock", req.CurrentStock)
	if err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.categoryRepo.GetCategoryByID(tx, req.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrCategoryNotFound, req.CategoryID)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	product := models.Product{
		Name:          req.Name,
		UnitPrice:     unitPrice,
		UnitOfMeasure: req.UnitOfMeasure,
		CategoryID:    req.CategoryID,
		CurrentStock:  currentStock,
	}
	if req.TracksStock != nil {
		product.TracksStock = *req.TracksStock
	}
	if _, err := s.productRepo.CreateProduct(tx, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}
	resp := newProductResponse(product)
	return &resp, nil
}

func (s *catalogService) UpdateProduct(id int64, req UpdateProductRequest) (*ProductResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	product, err := s.productRepo.GetProductByID(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product for update: %w", err)
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: product name cannot be empty if provided", ErrValidation)
		}
		product.Name = *req.Name
	}
	if req.UnitPrice != nil {
		unitPrice, err := parseMoney("unitPrice", *req.UnitPrice)
		if err != nil {
			return nil, err
		}
		product.UnitPrice = unitPrice
	}
	if req.UnitOfMeasure != nil {
		if !models.IsValidMeasure(*req.UnitOfMeasure) {
			return nil, fmt.Errorf("%w: unknown unit of measure %q", ErrValidation, *req.UnitOfMeasure)
		}
		product.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetCategoryByID(tx, *req.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrCategoryNotFound, *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.TracksStock != nil {
		product.TracksStock = *req.TracksStock
	}
	if req.CurrentStock != nil {
		currentStock, err := parseOptionalQuantity("currentStock", req.CurrentStock)
		if err != nil {
			return nil, err
		}
		product.CurrentStock = currentStock
	}

	if err := s.productRepo.UpdateProduct(tx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	resp := newProductResponse(*product)
	return &resp, nil
}

// DeleteProduct is idempotent: deleting an unknown id is a no-op. Historical
// comanda lines keep their price snapshot and simply lose the product embed.
func (s *catalogService) DeleteProduct(id int64) error {
	tx, err := s.txm.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.productRepo.DeleteProduct(tx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return tx.Commit()
}

func (s *catalogService) ListStockMovements(productID *int64) ([]StockMovementResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	movements, err := s.movementRepo.GetMovements(tx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	responses := make([]StockMovementResponse, 0, len(movements))
	for _, movement := range movements {
		responses = append(responses, StockMovementResponse{
			ID:              movement.ID,
			ProductID:       movement.ProductID,
			MovementType:    movement.MovementType,
			QuantityChanged: movement.QuantityChanged.StringFixed(3),
			Reason:          movement.Reason,
			CreatedAt:       movement.CreatedAt.Format(timeLayout),
		})
	}
	return responses, nil
}

// --- Helpers ---

const timeLayout = "2006-01-02T15:04:05Z07:00" // RFC 3339

func newProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice.StringFixed(2),
		UnitOfMeasure: p.UnitOfMeasure,
		CategoryID:    p.CategoryID,
		TracksStock:   p.TracksStock,
		Category:      p.Category,
	}
	if p.CurrentStock != nil {
		stock := p.CurrentStock.StringFixed(3)
		resp.CurrentStock = &stock
	}
	return resp
}

// parseMoney parses a 2-decimal monetary field.
func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a decimal string", ErrValidation, field)
	}
	return d.Round(2), nil
}

// parseQuantity parses a 3-decimal quantity field.
func parseQuantity(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a decimal string", ErrValidation, field)
	}
	return d.Round(3), nil
}

func parseOptionalQuantity(field string, value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := parseQuantity(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
