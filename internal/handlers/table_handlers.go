package handlers

import (
	"errors"
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// GetTables handles fetching all tables.
func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.ListTables()
	if err != nil {
		utils.LogError(err, "GetTables: Error from tableService.ListTables")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch tables.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTableByID handles fetching a single table by ID.
func (h *TableHandler) GetTableByID(c *gin.Context) {
	idStr := c.Param("id")
	tableID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table ID format.", err.Error()))
		return
	}

	table, err := h.tableService.GetTableByID(tableID)
	if err != nil {
		utils.LogError(err, "GetTableByID: Error from tableService.GetTableByID for ID "+idStr)
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch table.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, table)
}

// SetTableStatus handles changing a table's status outside the comanda flow.
func (h *TableHandler) SetTableStatus(c *gin.Context) {
	idStr := c.Param("id")
	tableID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table ID format.", err.Error()))
		return
	}

	var req services.SetTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	table, err := h.tableService.SetTableStatus(tableID, req)
	if err != nil {
		utils.LogError(err, "SetTableStatus: Error from tableService.SetTableStatus for ID "+idStr)
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table status.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update table status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, table)
}
