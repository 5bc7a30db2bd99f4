package services

import (
	"errors"
	"fmt"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
	"pos_comanda_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrComandaNotFound     = errors.New("comanda not found")
	ErrLineNotFound        = errors.New("comanda line not found")
	ErrComandaClosed       = errors.New("comanda is already closed")
	ErrTableHasOpenComanda = errors.New("table already has an open comanda")
	ErrInsufficientStock   = errors.New("insufficient stock for product")
)

// --- DTOs ---

// CreateComandaRequest opens a new comanda. TableID is nil for walk-up
// customers without a table.
type CreateComandaRequest struct {
	TableID      *int64  `json:"tableId"`
	CustomerName *string `json:"customerName"`
}

// AddLineRequest appends a product to an open comanda. Quantity is a decimal
// string with up to three decimal places (fractional for weight items).
type AddLineRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
}

// SetLineQuantityRequest replaces a line's quantity. Zero or negative
// quantities are rejected; removal is an explicit separate operation.
type SetLineQuantityRequest struct {
	Quantity string `json:"quantity" binding:"required"`
}

// ComandaResponse is the wire shape of a comanda without its lines.
type ComandaResponse struct {
	ID           int64      `json:"id"`
	TableID      *int64     `json:"tableId"`
	CustomerName *string    `json:"customerName"`
	Status       string     `json:"status"`
	Total        *string    `json:"total"`
	CreatedAt    time.Time  `json:"createdAt"`
	ClosedAt     *time.Time `json:"closedAt"`
}

// ComandaLineResponse is the wire shape of one comanda line. The unit price
// is the snapshot taken when the line was added, not the current catalog
// price.
type ComandaLineResponse struct {
	ID                    int64            `json:"id"`
	ComandaID             int64            `json:"comandaId"`
	ProductID             int64            `json:"productId"`
	Quantity              string           `json:"quantity"`
	UnitPriceAtTimeOfSale string           `json:"unitPriceAtTimeOfSale"`
	Subtotal              string           `json:"subtotal"`
	Product               *ProductResponse `json:"product,omitempty"`
}

// ComandaCompleteResponse is a comanda with its table and lines embedded.
type ComandaCompleteResponse struct {
	ComandaResponse
	Table *models.Table         `json:"table,omitempty"`
	Lines []ComandaLineResponse `json:"lines"`
}

// --- ComandaService Interface ---

type ComandaService interface {
	CreateComanda(req CreateComandaRequest) (*ComandaResponse, error)
	GetComandaByID(id int64) (*ComandaCompleteResponse, error)
	GetOpenComandaForTable(tableID int64) (*ComandaCompleteResponse, error)
	CloseComanda(id int64) (*ComandaResponse, error)

	AddLine(comandaID int64, req AddLineRequest) (*ComandaLineResponse, error)
	SetLineQuantity(lineID int64, req SetLineQuantityRequest) (*ComandaLineResponse, error)
	RemoveLine(lineID int64) error
}

type comandaService struct {
	txm          repositories.TxManager
	comandaRepo  repositories.ComandaRepository
	tableRepo    repositories.TableRepository
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
}

// NewComandaService creates a new instance of ComandaService.
func NewComandaService(
	txm repositories.TxManager,
	cr repositories.ComandaRepository,
	tr repositories.TableRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
) ComandaService {
	return &comandaService{
		txm:          txm,
		comandaRepo:  cr,
		tableRepo:    tr,
		productRepo:  pr,
		movementRepo: mr,
	}
}

// --- Comanda Methods ---

func (s *comandaService) CreateComanda(req CreateComandaRequest) (*ComandaResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if req.TableID != nil {
		if _, err := s.tableRepo.GetTableByID(tx, *req.TableID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrTableNotFound, *req.TableID)
			}
			return nil, fmt.Errorf("failed to check table: %w", err)
		}
		_, err := s.comandaRepo.GetOpenComandaByTableID(tx, *req.TableID)
		if err == nil {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableHasOpenComanda, *req.TableID)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check open comanda for table: %w", err)
		}
	}

	comanda := models.Comanda{
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		Status:       models.ComandaOpen,
		CreatedAt:    time.Now(),
	}
	if _, err := s.comandaRepo.CreateComanda(tx, &comanda); err != nil {
		return nil, fmt.Errorf("failed to create comanda: %w", err)
	}
	if req.TableID != nil {
		if err := s.tableRepo.UpdateTableStatus(tx, *req.TableID, models.TableOccupied); err != nil {
			return nil, fmt.Errorf("failed to occupy table: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit comanda creation: %w", err)
	}
	resp := newComandaResponse(comanda)
	return &resp, nil
}

func (s *comandaService) GetComandaByID(id int64) (*ComandaCompleteResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return s.loadComandaComplete(tx, id)
}

func (s *comandaService) GetOpenComandaForTable(tableID int64) (*ComandaCompleteResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.tableRepo.GetTableByID(tx, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to check table: %w", err)
	}
	comanda, err := s.comandaRepo.GetOpenComandaByTableID(tx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open comanda for table ID %d", ErrComandaNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to get open comanda for table: %w", err)
	}
	return s.loadComandaComplete(tx, comanda.ID)
}

// CloseComanda computes the total from the lines, marks the comanda closed
// and frees its table. Closing an already closed comanda is a conflict.
func (s *comandaService) CloseComanda(id int64) (*ComandaResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	comanda, err := s.getOpenComanda(tx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.comandaRepo.GetLinesByComandaID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for comanda ID %d: %w", id, err)
	}

	total := sumSubtotals(lines)
	closedAt := time.Now()
	if err := s.comandaRepo.CloseComanda(tx, id, total, closedAt); err != nil {
		return nil, fmt.Errorf("failed to close comanda ID %d: %w", id, err)
	}
	if comanda.TableID != nil {
		if err := s.tableRepo.UpdateTableStatus(tx, *comanda.TableID, models.TableFree); err != nil {
			return nil, fmt.Errorf("failed to free table for comanda ID %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit comanda close: %w", err)
	}

	comanda.Status = models.ComandaClosed
	comanda.Total = &total
	comanda.ClosedAt = &closedAt
	resp := newComandaResponse(*comanda)
	return &resp, nil
}

// --- Line Methods ---

func (s *comandaService) AddLine(comandaID int64, req AddLineRequest) (*ComandaLineResponse, error) {
	quantity, err := parseQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.getOpenComanda(tx, comandaID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetProductByID(tx, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrProductNotFound, req.ProductID)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	tracked := product.TracksStock && product.CurrentStock != nil
	if tracked && product.CurrentStock.LessThan(quantity) {
		return nil, fmt.Errorf("%w: product ID %d has %s, requested %s",
			ErrInsufficientStock, product.ID, product.CurrentStock.StringFixed(3), quantity.StringFixed(3))
	}

	line := models.ComandaLine{
		ComandaID:       comandaID,
		ProductID:       product.ID,
		Quantity:        quantity,
		UnitPriceAtSale: product.UnitPrice,
		Subtotal:        quantity.Mul(product.UnitPrice).Round(2),
	}
	if _, err := s.comandaRepo.CreateLine(tx, &line); err != nil {
		return nil, fmt.Errorf("failed to create comanda line: %w", err)
	}
	if tracked {
		if err := s.applyStockChange(tx, product, quantity.Neg(), models.MovementSale,
			fmt.Sprintf("comanda %d: line added", comandaID)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit line creation: %w", err)
	}
	resp := newComandaLineResponse(line)
	return &resp, nil
}

func (s *comandaService) SetLineQuantity(lineID int64, req SetLineQuantityRequest) (*ComandaLineResponse, error) {
	quantity, err := parseQuantity("quantity", req.Quantity)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive; remove the line instead", ErrValidation)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	line, err := s.comandaRepo.GetLineByID(tx, lineID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrLineNotFound, lineID)
		}
		return nil, fmt.Errorf("failed to get comanda line: %w", err)
	}
	if _, err := s.getOpenComanda(tx, line.ComandaID); err != nil {
		return nil, err
	}

	// delta > 0 means additional stock is being consumed.
	delta := quantity.Sub(line.Quantity)
	product, err := s.productRepo.GetProductByID(tx, line.ProductID)
	tracked := err == nil && product.TracksStock && product.CurrentStock != nil
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get product for line: %w", err)
	}
	if tracked && delta.IsPositive() && product.CurrentStock.LessThan(delta) {
		return nil, fmt.Errorf("%w: product ID %d has %s, requested %s more",
			ErrInsufficientStock, product.ID, product.CurrentStock.StringFixed(3), delta.StringFixed(3))
	}

	subtotal := quantity.Mul(line.UnitPriceAtSale).Round(2)
	if err := s.comandaRepo.UpdateLineQuantity(tx, lineID, quantity, subtotal); err != nil {
		return nil, fmt.Errorf("failed to update line quantity: %w", err)
	}
	if tracked && !delta.IsZero() {
		if err := s.applyStockChange(tx, product, delta.Neg(), models.MovementAdjustment,
			fmt.Sprintf("comanda %d: line %d quantity changed", line.ComandaID, lineID)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit line update: %w", err)
	}

	line.Quantity = quantity
	line.Subtotal = subtotal
	resp := newComandaLineResponse(*line)
	return &resp, nil
}

// RemoveLine deletes a line from an open comanda and restores the product's
// stock. Removing an unknown line is a no-op.
func (s *comandaService) RemoveLine(lineID int64) error {
	tx, err := s.txm.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	line, err := s.comandaRepo.GetLineByID(tx, lineID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get comanda line: %w", err)
	}
	if _, err := s.getOpenComanda(tx, line.ComandaID); err != nil {
		return err
	}

	product, err := s.productRepo.GetProductByID(tx, line.ProductID)
	tracked := err == nil && product.TracksStock && product.CurrentStock != nil
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to get product for line: %w", err)
	}

	if _, err := s.comandaRepo.DeleteLine(tx, lineID); err != nil {
		return fmt.Errorf("failed to delete comanda line: %w", err)
	}
	if tracked {
		if err := s.applyStockChange(tx, product, line.Quantity, models.MovementReturn,
			fmt.Sprintf("comanda %d: line %d removed", line.ComandaID, lineID)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Helpers ---

// getOpenComanda fetches a comanda and rejects closed ones.
func (s *comandaService) getOpenComanda(executor repositories.SQLExecutor, id int64) (*models.Comanda, error) {
	comanda, err := s.comandaRepo.GetComandaByID(executor, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComandaNotFound, id)
		}
		return nil, fmt.Errorf("failed to get comanda: %w", err)
	}
	if comanda.Status == models.ComandaClosed {
		return nil, fmt.Errorf("%w: ID %d", ErrComandaClosed, id)
	}
	return comanda, nil
}

// applyStockChange moves a product's stock by change (negative consumes) and
// records the movement in the ledger.
func (s *comandaService) applyStockChange(executor repositories.SQLExecutor, product *models.Product, change decimal.Decimal, movementType, reason string) error {
	newStock := product.CurrentStock.Add(change)
	if err := s.productRepo.UpdateStock(executor, product.ID, newStock); err != nil {
		return fmt.Errorf("failed to update stock for product ID %d: %w", product.ID, err)
	}
	movement := models.StockMovement{
		ProductID:       product.ID,
		MovementType:    movementType,
		QuantityChanged: change,
		Reason:          utils.NewNullString(reason),
		CreatedAt:       time.Now(),
	}
	if _, err := s.movementRepo.CreateMovement(executor, &movement); err != nil {
		return fmt.Errorf("failed to record stock movement for product ID %d: %w", product.ID, err)
	}
	return nil
}

func (s *comandaService) loadComandaComplete(executor repositories.SQLExecutor, id int64) (*ComandaCompleteResponse, error) {
	comanda, err := s.comandaRepo.GetComandaByID(executor, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComandaNotFound, id)
		}
		return nil, fmt.Errorf("failed to get comanda: %w", err)
	}
	lines, err := s.comandaRepo.GetLinesByComandaID(executor, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for comanda ID %d: %w", id, err)
	}

	resp := &ComandaCompleteResponse{
		ComandaResponse: newComandaResponse(*comanda),
		Lines:           make([]ComandaLineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, newComandaLineResponse(line))
	}
	if comanda.TableID != nil {
		table, err := s.tableRepo.GetTableByID(executor, *comanda.TableID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load table for comanda ID %d: %w", id, err)
		}
		resp.Table = table
	}
	return resp, nil
}

func newComandaResponse(c models.Comanda) ComandaResponse {
	resp := ComandaResponse{
		ID:           c.ID,
		TableID:      c.TableID,
		CustomerName: c.CustomerName,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		ClosedAt:     c.ClosedAt,
	}
	if c.Total != nil {
		total := c.Total.StringFixed(2)
		resp.Total = &total
	}
	return resp
}

func newComandaLineResponse(l models.ComandaLine) ComandaLineResponse {
	resp := ComandaLineResponse{
		ID:                    l.ID,
		ComandaID:             l.ComandaID,
		ProductID:             l.ProductID,
		Quantity:              l.Quantity.StringFixed(3),
		UnitPriceAtTimeOfSale: l.UnitPriceAtSale.StringFixed(2),
		Subtotal:              l.Subtotal.StringFixed(2),
	}
	if l.Product != nil {
		product := newProductResponse(*l.Product)
		resp.Product = &product
	}
	return resp
}

// sumSubtotals totals a comanda's line subtotals.
func sumSubtotals(lines []models.ComandaLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total.Round(2)
}
