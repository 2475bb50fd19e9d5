package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	for _, key := range []string{"table_name", "action_type", "record_id"} {
		if value := c.Query(key); value != "" {
			query.Filters[key] = value
		}
	}

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated("history", entries, query, total))
}
