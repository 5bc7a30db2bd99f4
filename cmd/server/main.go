package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"pos_comanda_backend/internal/database"
	"pos_comanda_backend/internal/repositories"
	"pos_comanda_backend/internal/repositories/memory"
	"pos_comanda_backend/internal/router"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	deps := buildDependencies()

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"} // Default origins
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, deps)

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildDependencies selects the storage backend from STORAGE_BACKEND:
// "memory" (default) runs on the seeded in-memory store, "postgres" connects
// to the database configured via DB_* environment variables.
func buildDependencies() router.Dependencies {
	backend := utils.Getenv("STORAGE_BACKEND", "memory")

	switch backend {
	case "postgres":
		dbHost := utils.Getenv("DB_HOST", "localhost")
		dbPort := utils.Getenv("DB_PORT", "5432")
		dbUser := utils.Getenv("DB_USER", "pos_user")
		dbPassword := utils.Getenv("DB_PASSWORD", "pos_password")
		dbName := utils.Getenv("DB_NAME", "pos_comanda_db")
		dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
		dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

		database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
		utils.LogInfo("Storage backend initialized", map[string]interface{}{"backend": "postgres", "database": dbName})

		return router.Dependencies{
			TxManager:    repositories.NewSQLTxManager(database.GetDB()),
			CategoryRepo: repositories.NewPostgresCategoryRepository(),
			ProductRepo:  repositories.NewPostgresProductRepository(),
			TableRepo:    repositories.NewPostgresTableRepository(),
			ComandaRepo:  repositories.NewPostgresComandaRepository(),
			SaleRepo:     repositories.NewPostgresSaleRepository(),
			MovementRepo: repositories.NewPostgresStockMovementRepository(),
		}
	case "memory":
		store := memory.NewDemoStore()
		utils.LogInfo("Storage backend initialized", map[string]interface{}{"backend": "memory", "seeded": true})

		return router.Dependencies{
			TxManager:    memory.NewTxManager(store),
			CategoryRepo: memory.NewCategoryRepository(store),
			ProductRepo:  memory.NewProductRepository(store),
			TableRepo:    memory.NewTableRepository(store),
			ComandaRepo:  memory.NewComandaRepository(store),
			SaleRepo:     memory.NewSaleRepository(store),
			MovementRepo: memory.NewStockMovementRepository(store),
		}
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q (expected memory or postgres)", backend)
		return router.Dependencies{}
	}
}
