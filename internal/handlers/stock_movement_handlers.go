package handlers

import (
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockMovementHandler holds the catalog service, which owns the stock ledger.
type StockMovementHandler struct {
	catalogService services.CatalogService
}

// NewStockMovementHandler creates a new StockMovementHandler.
func NewStockMovementHandler(cs services.CatalogService) *StockMovementHandler {
	return &StockMovementHandler{catalogService: cs}
}

// GetStockMovements handles fetching the stock ledger, optionally filtered by
// product via the product_id query parameter.
func (h *StockMovementHandler) GetStockMovements(c *gin.Context) {
	var productID *int64
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		id, err := utils.StrToInt64(productIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product_id format.", "product_id must be an integer"))
			return
		}
		productID = &id
	}

	movements, err := h.catalogService.ListStockMovements(productID)
	if err != nil {
		utils.LogError(err, "GetStockMovements: Error from catalogService.ListStockMovements")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock movements.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, movements)
}
