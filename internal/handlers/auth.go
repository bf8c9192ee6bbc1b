// internal/handlers/auth.go
package handlers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/arclabs/buttonshop/internal/config"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/utils"
)

// AuthHandler exchanges the bridge's shared secret for actor tokens. The
// game server is the only credentialed party; players never hold tokens
// themselves.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type tokenRequest struct {
	Secret    string `json:"secret" validate:"required"`
	ActorID   string `json:"actor_id" validate:"required,max=64"`
	ActorName string `json:"actor_name" validate:"required,max=64"`
	Role      string `json:"role" validate:"omitempty,oneof=bridge operator"`
}

// POST /auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	role := req.Role
	if role == "" {
		role = string(models.ActorRoleBridge)
	}

	secret := h.cfg.Bridge.SharedSecret
	if role == string(models.ActorRoleOperator) {
		secret = h.cfg.Bridge.OperatorSecret
	}
	if secret == "" || subtle.ConstantTimeCompare([]byte(req.Secret), []byte(secret)) != 1 {
		utils.UnauthorizedResponse(c, "")
		return
	}

	token, err := utils.GenerateJWT(req.ActorID, req.ActorName, role, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token":      token,
		"expires_in": h.cfg.JWT.AccessTokenTTL * 3600,
	})
}
