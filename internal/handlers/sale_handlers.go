package handlers

import (
	"errors"
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// RecordSale handles settling an open comanda as a sale.
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req services.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.RecordSale(req)
	if err != nil {
		utils.LogError(err, "RecordSale: Error from saleService.RecordSale")
		if errors.Is(err, services.ErrComandaNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Comanda not found.", err.Error()))
		} else if errors.Is(err, services.ErrComandaClosed) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Comanda is already closed.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientAmount) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Amount received is less than the total.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// GetSaleByID handles fetching a single sale by ID.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	idStr := c.Param("id")
	saleID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", err.Error()))
		return
	}

	sale, err := h.saleService.GetSaleByID(saleID)
	if err != nil {
		utils.LogError(err, "GetSaleByID: Error from saleService.GetSaleByID for ID "+idStr)
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sale)
}
