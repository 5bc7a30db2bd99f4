package handlers

import (
	"errors"
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetSalesReport handles the aggregated sales report for a date range.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "start_date and end_date are required.", "use YYYY-MM-DD"))
		return
	}

	report, err := h.reportService.GetSalesReport(startDate, endDate)
	if err != nil {
		utils.LogError(err, "GetSalesReport: Error from reportService.GetSalesReport")
		if errors.Is(err, services.ErrInvalidDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date range.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetSummary handles the dashboard summary snapshot.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.GetSummary()
	if err != nil {
		utils.LogError(err, "GetSummary: Error from reportService.GetSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
