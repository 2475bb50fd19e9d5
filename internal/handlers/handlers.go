package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/services"
	"github.com/nasiya-uz/nasiya-api/internal/session"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Partner  *PartnerHandler
	Product  *ProductHandler
	Contract *ContractHandler
	Payment  *PaymentHandler
	Return   *ReturnHandler
	Debt     *DebtHandler
	Audit    *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *session.Store, userRepo repository.UserRepository) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Auth:     NewAuthHandler(store, userRepo),
		Partner:  NewPartnerHandler(svcs.Partner),
		Product:  NewProductHandler(svcs.Product),
		Contract: NewContractHandler(svcs.Contract),
		Payment:  NewPaymentHandler(svcs.Payment),
		Return:   NewReturnHandler(svcs.Return),
		Debt:     NewDebtHandler(svcs.Debt),
		Audit:    NewAuditHandler(svcs.Audit),
	}
}

// respondError maps service sentinels onto HTTP status codes. Anything not
// in the taxonomy is a 500; the message is passed through as-is because
// services phrase their errors for the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseListQuery reads the common pagination, search and sort parameters
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// paginated wraps a list response with its pagination block
func paginated(key string, items any, query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		key: items,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	}
}
