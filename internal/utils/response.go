// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/arclabs/buttonshop/internal/i18n"
	"github.com/arclabs/buttonshop/internal/shoperr"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyInvalidRequest)
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthForbidden)
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, resource+".not_found")
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	lang := GetLangFromContext(c)
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", i18n.T(lang, i18n.KeyValidationFailed), errors)
}

// EngineErrorResponse maps an engine error to its taxonomy code with a
// localized message; anything outside the taxonomy becomes a 500.
func EngineErrorResponse(c *gin.Context, err error) {
	code := shoperr.Code(err)
	if code == "" {
		InternalErrorResponse(c, "")
		return
	}
	lang := GetLangFromContext(c)
	status := engineErrorStatus(code)
	ErrorResponse(c, status, code, i18n.T(lang, engineErrorKey(code)), nil)
}

func engineErrorStatus(code string) int {
	switch code {
	case "SHOP_NOT_FOUND":
		return http.StatusNotFound
	case "NOT_OWNER", "OWN_SHOP":
		return http.StatusForbidden
	case "POSITION_OCCUPIED":
		return http.StatusConflict
	case "INSUFFICIENT_FUNDS", "INSUFFICIENT_STOCK", "INSUFFICIENT_ITEMS",
		"CONTAINER_FULL", "BUDGET_EXHAUSTED", "SHOP_LIMIT_REACHED", "SHOP_INACTIVE":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func engineErrorKey(code string) string {
	switch code {
	case "SHOP_NOT_FOUND":
		return i18n.KeyShopNotFound
	case "SHOP_INACTIVE":
		return i18n.KeyShopInactive
	case "POSITION_OCCUPIED":
		return i18n.KeyShopOccupied
	case "SHOP_LIMIT_REACHED":
		return i18n.KeyShopLimit
	case "NOT_OWNER":
		return i18n.KeyShopNotOwner
	case "OWN_SHOP":
		return i18n.KeyShopOwnShop
	case "INSUFFICIENT_STOCK":
		return i18n.KeyTradeNoStock
	case "INSUFFICIENT_FUNDS":
		return i18n.KeyTradeNoFunds
	case "INSUFFICIENT_ITEMS":
		return i18n.KeyTradeNoItems
	case "CONTAINER_FULL":
		return i18n.KeyTradeContainerFull
	case "BUDGET_EXHAUSTED":
		return i18n.KeyTradeNoBudget
	default:
		return i18n.KeyInvalidRequest
	}
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if l, ok := lang.(string); ok {
			return l
		}
	}
	return "en"
}
