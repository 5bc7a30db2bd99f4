package handlers

import (
	"errors"
	"net/http"

	"pos_comanda_backend/internal/services"
	"pos_comanda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog service.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// --- Category Handlers ---

// GetCategories handles fetching all categories.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from catalogService.ListCategories")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles the creation of a new category.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.catalogService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from catalogService.CreateCategory")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

// --- Product Handlers ---

// GetProducts handles fetching all products with their category embeds.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		utils.LogError(err, "GetProducts: Error from catalogService.ListProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID handles fetching a single product by ID.
func (h *CatalogHandler) GetProductByID(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	product, err := h.catalogService.GetProductByID(productID)
	if err != nil {
		utils.LogError(err, "GetProductByID: Error from catalogService.GetProductByID for ID "+idStr)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles the creation of a new product.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from catalogService.CreateProduct")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product data.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles a partial update of an existing product.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(productID, req)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from catalogService.UpdateProduct for ID "+idStr)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product. The operation is idempotent.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	if err := h.catalogService.DeleteProduct(productID); err != nil {
		utils.LogError(err, "DeleteProduct: Error from catalogService.DeleteProduct for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", "Internal error"))
		return
	}
	c.Status(http.StatusNoContent)
}
