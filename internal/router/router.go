package router

import (
	"pos_comanda_backend/internal/handlers"
	"pos_comanda_backend/internal/repositories"
	"pos_comanda_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies carries the storage backend selected at startup. Both the
// Postgres and the in-memory backends satisfy these interfaces.
type Dependencies struct {
	TxManager    repositories.TxManager
	CategoryRepo repositories.CategoryRepository
	ProductRepo  repositories.ProductRepository
	TableRepo    repositories.TableRepository
	ComandaRepo  repositories.ComandaRepository
	SaleRepo     repositories.SaleRepository
	MovementRepo repositories.StockMovementRepository
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Services
	catalogService := services.NewCatalogService(deps.TxManager, deps.CategoryRepo, deps.ProductRepo, deps.MovementRepo)
	tableService := services.NewTableService(deps.TxManager, deps.TableRepo)
	comandaService := services.NewComandaService(deps.TxManager, deps.ComandaRepo, deps.TableRepo, deps.ProductRepo, deps.MovementRepo)
	saleService := services.NewSaleService(deps.TxManager, deps.SaleRepo, deps.ComandaRepo, deps.TableRepo)
	reportService := services.NewReportService(deps.TxManager, deps.SaleRepo, deps.ComandaRepo, deps.ProductRepo, deps.TableRepo)

	// Initialize Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	tableHandler := handlers.NewTableHandler(tableService)
	comandaHandler := handlers.NewComandaHandler(comandaService)
	saleHandler := handlers.NewSaleHandler(saleService)
	reportHandler := handlers.NewReportHandler(reportService)
	stockMovementHandler := handlers.NewStockMovementHandler(catalogService)

	apiV1 := engine.Group("/api/v1")

	SetupCategoryRoutes(apiV1, catalogHandler)
	SetupProductRoutes(apiV1, catalogHandler)
	SetupTableRoutes(apiV1, tableHandler)
	SetupComandaRoutes(apiV1, comandaHandler)
	SetupSaleRoutes(apiV1, saleHandler)
	SetupReportRoutes(apiV1, reportHandler)
	SetupStockMovementRoutes(apiV1, stockMovementHandler)
}
