package router

import (
	"pos_comanda_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupCategoryRoutes sets up the category routes.
func SetupCategoryRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	categoryRoutes := apiGroup.Group("/categories")
	{
		categoryRoutes.GET("", catalogHandler.GetCategories)
		categoryRoutes.POST("", catalogHandler.CreateCategory)
	}
}

// SetupProductRoutes sets up the product routes.
func SetupProductRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.GET("", catalogHandler.GetProducts)
		productRoutes.POST("", catalogHandler.CreateProduct)
		productRoutes.GET("/:id", catalogHandler.GetProductByID)
		productRoutes.PUT("/:id", catalogHandler.UpdateProduct)
		productRoutes.DELETE("/:id", catalogHandler.DeleteProduct)
	}
}

// SetupTableRoutes sets up the table routes.
func SetupTableRoutes(apiGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := apiGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
		tableRoutes.PUT("/:id/status", tableHandler.SetTableStatus)
	}
}

// SetupComandaRoutes sets up the comanda and comanda line routes.
func SetupComandaRoutes(apiGroup *gin.RouterGroup, comandaHandler *handlers.ComandaHandler) {
	comandaRoutes := apiGroup.Group("/comandas")
	{
		comandaRoutes.POST("", comandaHandler.CreateComanda)
		comandaRoutes.GET("/open", comandaHandler.GetOpenComandaForTable)
		comandaRoutes.GET("/:id", comandaHandler.GetComandaByID)
		comandaRoutes.PUT("/:id/close", comandaHandler.CloseComanda)
		comandaRoutes.POST("/:id/lines", comandaHandler.AddLine)
	}

	lineRoutes := apiGroup.Group("/lines")
	{
		lineRoutes.PUT("/:id", comandaHandler.SetLineQuantity)
		lineRoutes.DELETE("/:id", comandaHandler.RemoveLine)
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(apiGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := apiGroup.Group("/sales")
	{
		saleRoutes.POST("", saleHandler.RecordSale)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := apiGroup.Group("/reports")
	{
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)
		reportRoutes.GET("/summary", reportHandler.GetSummary)
	}
}

// SetupStockMovementRoutes sets up the stock movement routes.
func SetupStockMovementRoutes(apiGroup *gin.RouterGroup, stockMovementHandler *handlers.StockMovementHandler) {
	stockMovementRoutes := apiGroup.Group("/stock-movements")
	{
		stockMovementRoutes.GET("", stockMovementHandler.GetStockMovements)
	}
}
