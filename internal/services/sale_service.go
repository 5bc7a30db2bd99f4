package services

import (
	"errors"
	"fmt"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"
)

var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrInsufficientAmount = errors.New("amount received is less than the total")
)

// RecordSaleRequest settles an open comanda. AmountReceived is required for
// cash payments and ignored otherwise.
type RecordSaleRequest struct {
	ComandaID      int64   `json:"comandaId" binding:"required"`
	PaymentMethod  string  `json:"paymentMethod" binding:"required"`
	AmountReceived *string `json:"amountReceived"`
}

// SaleResponse is the wire shape of a recorded sale. Change is only set for
// cash payments.
type SaleResponse struct {
	ID             int64     `json:"id"`
	ComandaID      int64     `json:"comandaId"`
	PaymentMethod  string    `json:"paymentMethod"`
	TotalAmount    string    `json:"totalAmount"`
	AmountReceived *string   `json:"amountReceived"`
	Change         *string   `json:"change"`
	CreatedAt      time.Time `json:"createdAt"`
}

type SaleService interface {
	RecordSale(req RecordSaleRequest) (*SaleResponse, error)
	GetSaleByID(id int64) (*SaleResponse, error)
}

type saleService struct {
	txm         repositories.TxManager
	saleRepo    repositories.SaleRepository
	comandaRepo repositories.ComandaRepository
	tableRepo   repositories.TableRepository
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(
	txm repositories.TxManager,
	sr repositories.SaleRepository,
	cr repositories.ComandaRepository,
	tr repositories.TableRepository,
) SaleService {
	return &saleService{txm: txm, saleRepo: sr, comandaRepo: cr, tableRepo: tr}
}

// RecordSale recomputes the comanda total from its lines, records the sale,
// closes the comanda and frees its table, all in one transaction. A closed
// comanda cannot be sold twice.
func (s *saleService) RecordSale(req RecordSaleRequest) (*SaleResponse, error) {
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	comanda, err := s.comandaRepo.GetComandaByID(tx, req.ComandaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrComandaNotFound, req.ComandaID)
		}
		return nil, fmt.Errorf("failed to get comanda: %w", err)
	}
	if comanda.Status == models.ComandaClosed {
		return nil, fmt.Errorf("%w: ID %d", ErrComandaClosed, req.ComandaID)
	}
	lines, err := s.comandaRepo.GetLinesByComandaID(tx, req.ComandaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for comanda ID %d: %w", req.ComandaID, err)
	}
	total := sumSubtotals(lines)

	sale := models.Sale{
		ComandaID:     req.ComandaID,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		CreatedAt:     time.Now(),
	}
	if req.PaymentMethod == models.PaymentCash {
		if req.AmountReceived == nil {
			return nil, fmt.Errorf("%w: amountReceived is required for cash payments", ErrValidation)
		}
		received, err := parseMoney("amountReceived", *req.AmountReceived)
		if err != nil {
			return nil, err
		}
		if received.LessThan(total) {
			return nil, fmt.Errorf("%w: received %s, total %s",
				ErrInsufficientAmount, received.StringFixed(2), total.StringFixed(2))
		}
		change := received.Sub(total)
		sale.AmountReceived = &received
		sale.Change = &change
	}

	if _, err := s.saleRepo.CreateSale(tx, &sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	if err := s.comandaRepo.CloseComanda(tx, req.ComandaID, total, sale.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to close comanda for sale: %w", err)
	}
	if comanda.TableID != nil {
		if err := s.tableRepo.UpdateTableStatus(tx, *comanda.TableID, models.TableFree); err != nil {
			return nil, fmt.Errorf("failed to free table after sale: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	resp := newSaleResponse(sale)
	return &resp, nil
}

func (s *saleService) GetSaleByID(id int64) (*SaleResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.GetSaleByID(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrSaleNotFound, id)
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	resp := newSaleResponse(*sale)
	return &resp, nil
}

func newSaleResponse(sale models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            sale.ID,
		ComandaID:     sale.ComandaID,
		PaymentMethod: sale.PaymentMethod,
		TotalAmount:   sale.TotalAmount.StringFixed(2),
		CreatedAt:     sale.CreatedAt,
	}
	if sale.AmountReceived != nil {
		received := sale.AmountReceived.StringFixed(2)
		resp.AmountReceived = &received
	}
	if sale.Change != nil {
		change := sale.Change.StringFixed(2)
		resp.Change = &change
	}
	return resp
}
