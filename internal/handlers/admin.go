// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arclabs/buttonshop/internal/economy"
	"github.com/arclabs/buttonshop/internal/i18n"
	"github.com/arclabs/buttonshop/internal/settings"
	"github.com/arclabs/buttonshop/internal/shop"
	"github.com/arclabs/buttonshop/internal/store"
	"github.com/arclabs/buttonshop/internal/utils"
)

// AdminHandler is the operator surface behind OperatorRequired: listing,
// clearing and reloading shops, tuning settings and granting currency.
type AdminHandler struct {
	lifecycle *shop.Lifecycle
	settings  *settings.Service
	ledger    economy.Ledger
	shops     *store.ShopStore
}

func NewAdminHandler(lifecycle *shop.Lifecycle, settings *settings.Service, ledger economy.Ledger, shops *store.ShopStore) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, settings: settings, ledger: ledger, shops: shops}
}

// GET /admin/shops
func (h *AdminHandler) ListShops(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	shops, total, err := h.lifecycle.ListAll(c.Request.Context(), params.Offset(), params.Limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponseWithMeta(c, shops, utils.NewPaginationResult(params, total, nil))
}

// DELETE /admin/shops
func (h *AdminHandler) ClearShops(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	removed, err := h.lifecycle.ClearAll(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"removed": removed,
		"message": i18n.T(lang, i18n.KeyAdminCleared, strconv.FormatInt(removed, 10)),
	})
}

// DELETE /admin/shops/:uuid
func (h *AdminHandler) DeleteShop(c *gin.Context) {
	actorID, _ := c.Get("actor_id")
	actorName, _ := c.Get("actor_name")
	owner := shop.Owner{}
	if id, ok := actorID.(string); ok {
		owner.ID = id
	}
	if name, ok := actorName.(string); ok {
		owner.Name = name
	}

	result, err := h.lifecycle.Delete(c.Request.Context(), owner, c.Param("uuid"), true)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	recs, err := h.shops.ListRecentTransactions(c.Request.Context(), params.Limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, recs)
}

// POST /admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if err := h.lifecycle.Reload(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	if err := h.settings.Reload(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAdminReloaded)})
}

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	utils.SuccessResponse(c, h.settings.All())
}

type updateSettingRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// PUT /admin/settings/:key
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.settings.Set(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAdminSettingOK)})
}

type creditRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// POST /admin/wallets/:actorID/credit
func (h *AdminHandler) CreditWallet(c *gin.Context) {
	var req creditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	actorID := c.Param("actorID")
	if err := h.ledger.Credit(c.Request.Context(), actorID, req.Amount); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	balance, err := h.ledger.Balance(c.Request.Context(), actorID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{"balance": balance})
}
