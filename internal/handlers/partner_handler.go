package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

func (h *PartnerHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if role := c.Query("role"); role != "" {
		query.Filters["role"] = role
	}

	partners, total, err := h.partnerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PartnerResponse, 0, len(partners))
	for _, partner := range partners {
		responses = append(responses, partner.ToResponse())
	}
	c.JSON(http.StatusOK, paginated("partners", responses, query, total))
}

func (h *PartnerHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	partner, err := h.partnerService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner.ToResponse()})
}

type createPartnerRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Phone    string  `json:"phone" binding:"required"`
	Address  *string `json:"address"`
	Role     string  `json:"role" binding:"required"`
}

func (h *PartnerHandler) Create(c *gin.Context) {
	var req createPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partner, err := h.partnerService.Create(c.Request.Context(), services.CreatePartnerInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      req.Role,
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"partner": partner.ToResponse()})
}

type updatePartnerRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

func (h *PartnerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partner, err := h.partnerService.Update(c.Request.Context(), id, services.UpdatePartnerInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  req.IsActive,
		UpdatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": partner.ToResponse()})
}
