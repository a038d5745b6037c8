package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"auction-marketplace/internal/auth"
	catalog "auction-marketplace/internal/catalogService"
	"auction-marketplace/internal/filtering"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	CreateProduct(sellerID string, in catalog.ProductInput) (model.Product, error)
	UpdateProduct(sellerID, productID string, in catalog.ProductInput) (model.Product, error)
	DeleteProduct(requesterID string, role model.Role, productID string) error
	VerifyProduct(productID string, commissionPct float64) (model.Product, error)
	GetProduct(productID string) (model.Product, error)
	WatchProduct(ctx context.Context, productID string) (*lifecycle.Watcher, error)
	Browse(params catalog.BrowseParams) ([]model.Product, error)
	HomePage() ([]model.Product, error)
	ProductsBySeller(sellerID string) ([]model.Product, error)
	WonProducts(userID string) ([]model.Product, error)
	CreateCategory(title string) (model.Category, error)
	ListCategories() ([]model.Category, error)
	UpdateCategory(categoryID, title string) (model.Category, error)
	DeleteCategory(categoryID string) error
}

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// BrowseHandler handles GET /products with search/category/sort/page query
// parameters
func (h *CatalogHandler) BrowseHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "9"))

	params := catalog.BrowseParams{
		SearchTerm: c.Query("search"),
		CategoryID: c.Query("category"),
		Sort:       filtering.SortOrder(c.DefaultQuery("sort", string(filtering.SortNewest))),
		Page:       page,
		PerPage:    perPage,
	}

	products, err := h.service.Browse(params)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BrowseHandler: error listing products", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
}

// HomePageHandler handles GET /products/home
func (h *CatalogHandler) HomePageHandler(c *gin.Context) {
	products, err := h.service.HomePage()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("HomePageHandler: error listing products", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
}

// GetProductHandler handles GET /products/:product_id
func (h *CatalogHandler) GetProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductHandler: error retrieving product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product retrieved successfully")
}

// LiveStatusHandler handles GET /products/:product_id/live, streaming
// lifecycle snapshots as server-sent events. The stream carries one "status"
// event per second and closes after the auction ends or the client
// disconnects.
func (h *CatalogHandler) LiveStatusHandler(c *gin.Context) {
	productID := c.Param("product_id")
	watcher, err := h.service.WatchProduct(c.Request.Context(), productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("LiveStatusHandler: error watching product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}
	defer watcher.Stop()

	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-watcher.Snapshots()
		if !ok {
			return false
		}
		c.SSEvent("status", snapshot)
		return true
	})
}

// CreateProductHandler handles POST /products
func (h *CatalogHandler) CreateProductHandler(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateProductHandler", err)
		return
	}

	sellerID := c.GetString(auth.ContextUserID)
	product, err := h.service.CreateProduct(sellerID, productInput(req))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateProductHandler: failed to create product", map[string]any{"seller_id": sellerID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, product, "product created successfully")
	helpers.LogSuccess("CreateProductHandler", "product created successfully", map[string]any{
		"product_id": product.ProductID,
		"seller_id":  sellerID,
		"title":      product.Title,
	})
}

// UpdateProductHandler handles PUT /products/:product_id
func (h *CatalogHandler) UpdateProductHandler(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProductHandler", err)
		return
	}

	sellerID := c.GetString(auth.ContextUserID)
	productID := c.Param("product_id")
	product, err := h.service.UpdateProduct(sellerID, productID, productInput(req))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UpdateProductHandler: failed to update product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product updated successfully")
}

// DeleteProductHandler handles DELETE /products/:product_id
func (h *CatalogHandler) DeleteProductHandler(c *gin.Context) {
	requesterID := c.GetString(auth.ContextUserID)
	role := model.Role(c.GetString(auth.ContextRole))
	productID := c.Param("product_id")

	if err := h.service.DeleteProduct(requesterID, role, productID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteProductHandler: failed to delete product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "product deleted successfully")
}

// VerifyProductHandler handles PATCH /products/admin/product-verified/:product_id
func (h *CatalogHandler) VerifyProductHandler(c *gin.Context) {
	var req VerifyProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "VerifyProductHandler", err)
		return
	}

	productID := c.Param("product_id")
	product, err := h.service.VerifyProduct(productID, req.Commission)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("VerifyProductHandler: failed to verify product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product verified successfully")
	helpers.LogSuccess("VerifyProductHandler", "product verified successfully", map[string]any{
		"product_id": product.ProductID,
		"commission": product.Commission,
	})
}

// SellerProductsHandler handles GET /products/user
func (h *CatalogHandler) SellerProductsHandler(c *gin.Context) {
	sellerID := c.GetString(auth.ContextUserID)
	products, err := h.service.ProductsBySeller(sellerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SellerProductsHandler: error listing products", map[string]any{"seller_id": sellerID, "error": err.Error()})
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
}

// WonProductsHandler handles GET /products/won
func (h *CatalogHandler) WonProductsHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	products, err := h.service.WonProducts(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("WonProductsHandler: error listing won products", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	utils.JSONResponse(c, http.StatusOK, products, "won products retrieved successfully")
}

// CreateCategoryHandler handles POST /category
func (h *CatalogHandler) CreateCategoryHandler(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateCategoryHandler", err)
		return
	}

	category, err := h.service.CreateCategory(req.Title)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateCategoryHandler: failed to create category", map[string]any{"title": req.Title, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, category, "category created successfully")
}

// ListCategoriesHandler handles GET /category
func (h *CatalogHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.service.ListCategories()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListCategoriesHandler: error listing categories", map[string]any{"error": err.Error()})
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	utils.JSONResponse(c, http.StatusOK, categories, "categories retrieved successfully")
}

// UpdateCategoryHandler handles PUT /category/:category_id
func (h *CatalogHandler) UpdateCategoryHandler(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateCategoryHandler", err)
		return
	}

	categoryID := c.Param("category_id")
	category, err := h.service.UpdateCategory(categoryID, req.Title)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UpdateCategoryHandler: failed to update category", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, category, "category updated successfully")
}

// DeleteCategoryHandler handles DELETE /category/:category_id
func (h *CatalogHandler) DeleteCategoryHandler(c *gin.Context) {
	categoryID := c.Param("category_id")
	if err := h.service.DeleteCategory(categoryID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteCategoryHandler: failed to delete category", map[string]any{"category_id": categoryID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "category deleted successfully")
}

func productInput(req ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		StartingPrice: req.StartingPrice,
		BuyNowPrice:   req.BuyNowPrice,
		ReservePrice:  req.ReservePrice,
		BidIncrement:  req.BidIncrement,
		Currency:      req.Currency,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Images:        req.Images,
	}
}
