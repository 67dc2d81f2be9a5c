package handler

import (
	"net/http"

	"atb/backend/internal/service"
	"atb/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// InvestmentHandler exposes the investment tracker over HTTP
type InvestmentHandler struct {
	investments *service.InvestmentService
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(investments *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

// ListInvestments handles GET /api/investments
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	util.SendSuccess(c, h.investments.List())
}

type addInvestmentRequest struct {
	Type     string  `json:"type" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// AddInvestment handles POST /api/investments
func (h *InvestmentHandler) AddInvestment(c *gin.Context) {
	var req addInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "type, category and a positive amount are required")
		return
	}

	inv := h.investments.Add(req.Type, req.Category, req.Amount)
	util.SendSuccessWithMessage(c, inv, "Investment added")
}

// RemoveInvestment handles DELETE /api/investments/:id
func (h *InvestmentHandler) RemoveInvestment(c *gin.Context) {
	h.investments.Remove(c.Param("id"))
	util.SendSuccessWithMessage(c, nil, "Investment removed")
}
