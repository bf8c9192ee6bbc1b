// internal/shoperr/errors.go

// Package shoperr defines the engine's error taxonomy. Every trade or
// lifecycle failure surfaces as one of these sentinels so handlers can map
// them to stable API codes and localized messages, and so the transaction
// processor can distinguish "refuse and report" from "something broke".
package shoperr

import "errors"

var (
	ErrShopNotFound      = errors.New("shop not found")
	ErrShopInactive      = errors.New("shop is inactive")
	ErrPositionOccupied  = errors.New("position already hosts a shop")
	ErrShopLimitReached  = errors.New("shop limit reached")
	ErrNotOwner          = errors.New("actor does not own this shop")
	ErrOwnShop           = errors.New("cannot trade with own shop")
	ErrInvalidItem       = errors.New("invalid item descriptor")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInsufficientStock = errors.New("insufficient shop stock")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientItems = errors.New("insufficient matching items")
	ErrContainerFull     = errors.New("container cannot absorb items")
	ErrBudgetExhausted   = errors.New("shop budget exhausted")
	ErrNothingToCollect  = errors.New("nothing to collect")
	ErrContainerUnknown  = errors.New("no container snapshot for actor")
)

// Code returns the stable machine-readable code for an engine error, or the
// empty string when err is not part of the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrShopNotFound):
		return "SHOP_NOT_FOUND"
	case errors.Is(err, ErrShopInactive):
		return "SHOP_INACTIVE"
	case errors.Is(err, ErrPositionOccupied):
		return "POSITION_OCCUPIED"
	case errors.Is(err, ErrShopLimitReached):
		return "SHOP_LIMIT_REACHED"
	case errors.Is(err, ErrNotOwner):
		return "NOT_OWNER"
	case errors.Is(err, ErrOwnShop):
		return "OWN_SHOP"
	case errors.Is(err, ErrInvalidItem):
		return "INVALID_ITEM"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidPrice):
		return "INVALID_PRICE"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, ErrInsufficientItems):
		return "INSUFFICIENT_ITEMS"
	case errors.Is(err, ErrContainerFull):
		return "CONTAINER_FULL"
	case errors.Is(err, ErrBudgetExhausted):
		return "BUDGET_EXHAUSTED"
	case errors.Is(err, ErrNothingToCollect):
		return "NOTHING_TO_COLLECT"
	case errors.Is(err, ErrContainerUnknown):
		return "CONTAINER_UNKNOWN"
	default:
		return ""
	}
}

// IsClientFault reports whether the error is a refusal the caller caused, as
// opposed to an internal failure. Handlers use this to pick 4xx over 5xx.
func IsClientFault(err error) bool {
	return Code(err) != ""
}
