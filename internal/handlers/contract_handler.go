package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/middleware"
	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/services"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (h *ContractHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	if status := c.Query("status"); status != "" {
		query.Filters["status"] = status
	}
	if partnerID := c.Query("partner_id"); partnerID != "" {
		query.Filters["partner_id"] = partnerID
	}

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, contracts[i].ToResponse())
	}
	c.JSON(http.StatusOK, paginated("contracts", responses, query, total))
}

func (h *ContractHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type contractItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type createContractRequest struct {
	PartnerID       uint                  `json:"partner_id" binding:"required"`
	RepaymentPeriod int                   `json:"repayment_period" binding:"required"`
	Items           []contractItemRequest `json:"items" binding:"required"`
}

func (h *ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateContractInput{
		PartnerID:       req.PartnerID,
		RepaymentPeriod: req.RepaymentPeriod,
		CreatedBy:       middleware.GetUserID(c),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.ContractItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	contract, err := h.contractService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}

type updateContractRequest struct {
	RepaymentPeriod *int                  `json:"repayment_period"`
	Items           []contractItemRequest `json:"items"`
}

func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateContractInput{
		RepaymentPeriod: req.RepaymentPeriod,
		UpdatedBy:       middleware.GetUserID(c),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.ContractItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	contract, err := h.contractService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

func (h *ContractHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Remove(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contract removed"})
}
