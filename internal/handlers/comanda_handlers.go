package handlers

import (
	"errors"
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ComandaHandler holds the comanda service.
type ComandaHandler struct {
	comandaService services.ComandaService
}

// NewComandaHandler creates a new ComandaHandler.
func NewComandaHandler(cs services.ComandaService) *ComandaHandler {
	return &ComandaHandler{comandaService: cs}
}

// CreateComanda handles opening a new comanda, optionally bound to a table.
func (h *ComandaHandler) CreateComanda(c *gin.Context) {
	var req services.CreateComandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	comanda, err := h.comandaService.CreateComanda(req)
	if err != nil {
		utils.LogError(err, "CreateComanda: Error from comandaService.CreateComanda")
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else if errors.Is(err, services.ErrTableHasOpenComanda) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table already has an open comanda.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create comanda.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, comanda)
}

// GetComandaByID handles fetching a comanda with its table and lines.
func (h *ComandaHandler) GetComandaByID(c *gin.Context) {
	idStr := c.Param("id")
	comandaID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid comanda ID format.", err.Error()))
		return
	}

	comanda, err := h.comandaService.GetComandaByID(comandaID)
	if err != nil {
		utils.LogError(err, "GetComandaByID: Error from comandaService.GetComandaByID for ID "+idStr)
		if errors.Is(err, services.ErrComandaNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Comanda not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch comanda.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, comanda)
}

// GetOpenComandaForTable handles fetching the open comanda bound to a table,
// via the table_id query parameter.
func (h *ComandaHandler) GetOpenComandaForTable(c *gin.Context) {
	tableIDStr := c.Query("table_id")
	tableID, err := utils.StrToInt64(tableIDStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table_id format.", "table_id must be an integer"))
		return
	}

	comanda, err := h.comandaService.GetOpenComandaForTable(tableID)
	if err != nil {
		utils.LogError(err, "GetOpenComandaForTable: Error from comandaService.GetOpenComandaForTable for table "+tableIDStr)
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else if errors.Is(err, services.ErrComandaNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No open comanda for this table.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch comanda.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, comanda)
}

// CloseComanda handles closing a comanda without recording a sale.
func (h *ComandaHandler) CloseComanda(c *gin.Context) {
	idStr := c.Param("id")
	comandaID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid comanda ID format.", err.Error()))
		return
	}

	comanda, err := h.comandaService.CloseComanda(comandaID)
	if err != nil {
		utils.LogError(err, "CloseComanda: Error from comandaService.CloseComanda for ID "+idStr)
		if errors.Is(err, services.ErrComandaNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Comanda not found.", err.Error()))
		} else if errors.Is(err, services.ErrComandaClosed) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Comanda is already closed.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to close comanda.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, comanda)
}

// AddLine handles appending a product line to an open comanda.
func (h *ComandaHandler) AddLine(c *gin.Context) {
	idStr := c.Param("id")
	comandaID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid comanda ID format.", err.Error()))
		return
	}

	var req services.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	line, err := h.comandaService.AddLine(comandaID, req)
	if err != nil {
		utils.LogError(err, "AddLine: Error from comandaService.AddLine for comanda "+idStr)
		respondLineError(c, err, "Failed to add comanda line.")
		return
	}
	c.JSON(http.StatusCreated, line)
}

// SetLineQuantity handles replacing a line's quantity.
func (h *ComandaHandler) SetLineQuantity(c *gin.Context) {
	idStr := c.Param("id")
	lineID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid line ID format.", err.Error()))
		return
	}

	var req services.SetLineQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	line, err := h.comandaService.SetLineQuantity(lineID, req)
	if err != nil {
		utils.LogError(err, "SetLineQuantity: Error from comandaService.SetLineQuantity for line "+idStr)
		respondLineError(c, err, "Failed to update comanda line.")
		return
	}
	c.JSON(http.StatusOK, line)
}

// RemoveLine handles deleting a line from an open comanda.
func (h *ComandaHandler) RemoveLine(c *gin.Context) {
	idStr := c.Param("id")
	lineID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid line ID format.", err.Error()))
		return
	}

	if err := h.comandaService.RemoveLine(lineID); err != nil {
		utils.LogError(err, "RemoveLine: Error from comandaService.RemoveLine for line "+idStr)
		respondLineError(c, err, "Failed to remove comanda line.")
		return
	}
	c.Status(http.StatusNoContent)
}

// respondLineError maps the shared line operation errors to HTTP responses.
func respondLineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrComandaNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Comanda not found.", err.Error()))
	case errors.Is(err, services.ErrLineNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Comanda line not found.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrComandaClosed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Comanda is already closed.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for product.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid line data.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
