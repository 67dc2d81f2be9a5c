package handler

import (
	"net/http"

	"atb/backend/internal/model"
	"atb/backend/internal/repository"
	"atb/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BankHandler exposes the digital bank store over HTTP
type BankHandler struct {
	repo *repository.BankRepository
}

// NewBankHandler creates a new bank handler
func NewBankHandler(repo *repository.BankRepository) *BankHandler {
	return &BankHandler{repo: repo}
}

// ListAssets handles GET /api/bank
func (h *BankHandler) ListAssets(c *gin.Context) {
	assets, err := h.repo.List()
	if err != nil {
		util.SendError(c, err)
		return
	}
	if assets == nil {
		assets = []model.BankAsset{}
	}
	util.SendSuccess(c, assets)
}

// AddAsset handles POST /api/bank
func (h *BankHandler) AddAsset(c *gin.Context) {
	var asset model.BankAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Invalid request body")
		return
	}
	if asset.Name == "" {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "name is required")
		return
	}

	created, err := h.repo.Add(asset)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, created, "Asset added")
}

// UpdateAsset handles PUT /api/bank/:id
func (h *BankHandler) UpdateAsset(c *gin.Context) {
	var update model.BankAsset
	if err := c.ShouldBindJSON(&update); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.repo.Update(c.Param("id"), update); err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, nil, "Asset updated")
}

// DeleteAsset handles DELETE /api/bank/:id
func (h *BankHandler) DeleteAsset(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, nil, "Asset deleted")
}
