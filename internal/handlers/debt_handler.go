package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type DebtHandler struct {
	debtService *services.DebtService
}

func NewDebtHandler(debtService *services.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

func (h *DebtHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	debts, total, err := h.debtService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.DebtResponse, 0, len(debts))
	for i := range debts {
		responses = append(responses, debts[i].ToResponse())
	}
	c.JSON(http.StatusOK, paginated("debts", responses, query, total))
}

func (h *DebtHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	debt, err := h.debtService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debt": debt.ToResponse()})
}
