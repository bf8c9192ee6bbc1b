// internal/handlers/wallet.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arclabs/buttonshop/internal/economy"
	"github.com/arclabs/buttonshop/internal/utils"
)

type WalletHandler struct {
	ledger economy.Ledger
}

func NewWalletHandler(ledger economy.Ledger) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// GET /wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	actorID, exists := c.Get("actor_id")
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	balance, err := h.ledger.Balance(c.Request.Context(), actorID.(string))
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{"balance": balance})
}
