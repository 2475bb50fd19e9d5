package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if active := c.Query("is_active"); active != "" {
		query.Filters["is_active"] = active
	}

	products, total, err := h.productService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("products", products, query, total))
}

func (h *ProductHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Unit        string  `json:"unit"`
	Description *string `json:"description"`
	BuyPrice    int64   `json:"buy_price" binding:"required"`
	SellPrice   *int64  `json:"sell_price"`
	Quantity    int     `json:"quantity"`
	SellerID    *uint   `json:"seller_id"`
	Comment     *string `json:"comment"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), services.CreateProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Description: req.Description,
		BuyPrice:    req.BuyPrice,
		SellPrice:   req.SellPrice,
		Quantity:    req.Quantity,
		SellerID:    req.SellerID,
		Comment:     req.Comment,
		CreatedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

type restockRequest struct {
	Quantity int     `json:"quantity" binding:"required"`
	BuyPrice *int64  `json:"buy_price"`
	SellerID *uint   `json:"seller_id"`
	Comment  *string `json:"comment"`
}

func (h *ProductHandler) Restock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Restock(c.Request.Context(), id, services.RestockInput{
		Quantity:  req.Quantity,
		BuyPrice:  req.BuyPrice,
		SellerID:  req.SellerID,
		Comment:   req.Comment,
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	Description *string `json:"description"`
	SellPrice   *int64  `json:"sell_price"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, services.UpdateProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Description: req.Description,
		SellPrice:   req.SellPrice,
		UpdatedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
