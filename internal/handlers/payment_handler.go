package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	for _, key := range []string{"partner_id", "direction", "debt_id"} {
		if value := c.Query(key); value != "" {
			query.Filters[key] = value
		}
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, paginated("payments", responses, query, total))
}

func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

type createPaymentRequest struct {
	DebtID      *uint   `json:"debt_id"`
	PartnerID   uint    `json:"partner_id" binding:"required"`
	Amount      int64   `json:"amount" binding:"required"`
	Direction   string  `json:"direction" binding:"required"`
	PaymentType string  `json:"payment_type"`
	Comment     *string `json:"comment"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), services.CreatePaymentInput{
		DebtID:      req.DebtID,
		PartnerID:   req.PartnerID,
		Amount:      req.Amount,
		Direction:   req.Direction,
		PaymentType: req.PaymentType,
		Comment:     req.Comment,
		CreatedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

type updatePaymentRequest struct {
	Amount  *int64  `json:"amount"`
	Comment *string `json:"comment"`
}

func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, services.UpdatePaymentInput{
		Amount:    req.Amount,
		Comment:   req.Comment,
		UpdatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

func (h *PaymentHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.Remove(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment removed"})
}
