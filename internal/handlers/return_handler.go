package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type ReturnHandler struct {
	returnService *services.ReturnService
}

func NewReturnHandler(returnService *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

func (h *ReturnHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if contractID := c.Query("contract_id"); contractID != "" {
		query.Filters["contract_id"] = contractID
	}

	returns, total, err := h.returnService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ProductReturnResponse, 0, len(returns))
	for i := range returns {
		responses = append(responses, returns[i].ToResponse())
	}
	c.JSON(http.StatusOK, paginated("returns", responses, query, total))
}

func (h *ReturnHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	productReturn, err := h.returnService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"return": productReturn.ToResponse()})
}

type createReturnRequest struct {
	ContractID uint    `json:"contract_id" binding:"required"`
	ReasonID   uint    `json:"reason_id" binding:"required"`
	IsNew      *bool   `json:"is_new" binding:"required"`
	Comment    *string `json:"comment"`
}

func (h *ReturnHandler) Create(c *gin.Context) {
	var req createReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productReturn, err := h.returnService.Create(c.Request.Context(), services.CreateReturnInput{
		ContractID: req.ContractID,
		ReasonID:   req.ReasonID,
		IsNew:      *req.IsNew,
		Comment:    req.Comment,
		CreatedBy:  middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"return": productReturn.ToResponse()})
}

// Reasons lists the return reason lookup table
func (h *ReturnHandler) Reasons(c *gin.Context) {
	reasons, err := h.returnService.ListReasons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reasons": reasons})
}
