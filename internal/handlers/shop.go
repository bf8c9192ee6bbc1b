// internal/handlers/shop.go
package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arclabs/buttonshop/internal/inventory"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/notify"
	"github.com/arclabs/buttonshop/internal/shop"
	"github.com/arclabs/buttonshop/internal/shoperr"
	"github.com/arclabs/buttonshop/internal/store"
	"github.com/arclabs/buttonshop/internal/trade"
	"github.com/arclabs/buttonshop/internal/utils"
)

type ShopHandler struct {
	lifecycle *shop.Lifecycle
	processor *trade.Processor
	sessions  *shop.SessionManager
	registry  *inventory.Registry
	notifier  *notify.QueueNotifier
	shops     *store.ShopStore
	slotCount int
}

func NewShopHandler(lifecycle *shop.Lifecycle, processor *trade.Processor, sessions *shop.SessionManager, registry *inventory.Registry, notifier *notify.QueueNotifier, shops *store.ShopStore, slotCount int) *ShopHandler {
	return &ShopHandler{
		lifecycle: lifecycle,
		processor: processor,
		sessions:  sessions,
		registry:  registry,
		notifier:  notifier,
		shops:     shops,
		slotCount: slotCount,
	}
}

func actorFromContext(c *gin.Context) (trade.Actor, bool) {
	id, exists := c.Get("actor_id")
	if !exists {
		return trade.Actor{}, false
	}
	name, _ := c.Get("actor_name")
	actor := trade.Actor{ID: id.(string)}
	if n, ok := name.(string); ok {
		actor.Name = n
	}
	return actor, true
}

type positionRequest struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
	Dimension string `json:"dimension" validate:"required,dimension"`
}

func (r positionRequest) position() models.Position {
	return models.Position{X: r.X, Y: r.Y, Z: r.Z, Dimension: r.Dimension}
}

// POST /containers/:actorID
// The bridge replaces the actor's container snapshot. Stacks are slot
// indexed; null entries are empty slots.
func (h *ShopHandler) PushContainer(c *gin.Context) {
	actorID := c.Param("actorID")
	var stacks []*models.ItemDescriptor
	if err := c.ShouldBindJSON(&stacks); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	h.registry.Put(actorID, inventory.FromSnapshot(stacks, h.slotCount))
	utils.SuccessResponse(c, gin.H{"slots": h.slotCount})
}

// GET /containers/:actorID
// Post-transaction readback for the bridge.
func (h *ShopHandler) GetContainer(c *gin.Context) {
	container, err := h.registry.Get(c.Param("actorID"))
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, container.Snapshot())
}

// DELETE /containers/:actorID
func (h *ShopHandler) DropContainer(c *gin.Context) {
	h.registry.Drop(c.Param("actorID"))
	h.sessions.End(c.Param("actorID"))
	utils.SuccessResponse(c, nil)
}

// GET /notifications/:actorID
func (h *ShopHandler) DrainNotifications(c *gin.Context) {
	messages := h.notifier.Drain(c.Param("actorID"))
	if messages == nil {
		messages = []notify.Message{}
	}
	utils.SuccessResponse(c, gin.H{"messages": messages})
}

// POST /shops/lookup
// Resolves a block interaction to a shop. This runs for every button press
// in the world, so the miss path is the hot path.
func (h *ShopHandler) Lookup(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.lifecycle.GetAt(c.Request.Context(), req.position())
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, listing)
}

// GET /shops/nearby?x=&z=&dimension=&radius=
func (h *ShopHandler) Nearby(c *gin.Context) {
	x, errX := strconv.Atoi(c.DefaultQuery("x", "0"))
	z, errZ := strconv.Atoi(c.DefaultQuery("z", "0"))
	radius, errR := strconv.Atoi(c.DefaultQuery("radius", "2"))
	dimension := c.DefaultQuery("dimension", "overworld")
	if errX != nil || errZ != nil || errR != nil || radius > 8 {
		utils.BadRequestResponse(c, "", nil)
		return
	}

	shops, err := h.shops.ListNearby(c.Request.Context(), models.Position{X: x, Z: z, Dimension: dimension}, radius)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, shops)
}

// POST /shops/break
// Break protection: a block break at a shop position is rejected for
// everyone but the owner; the owner's break tears the shop down with the
// usual returns.
func (h *ShopHandler) Break(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	listing, err := h.lifecycle.GetAt(c.Request.Context(), req.position())
	if err != nil {
		if errors.Is(err, shoperr.ErrShopNotFound) {
			// Not a shop block; the break proceeds.
			utils.SuccessResponse(c, gin.H{"shop": nil})
			return
		}
		utils.EngineErrorResponse(c, err)
		return
	}

	result, err := h.lifecycle.Delete(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, listing.ShopUUID, false)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"shop": listing, "returns": result})
}

type beginSessionRequest struct {
	Kind     string          `json:"kind" validate:"required,oneof=sell buy"`
	Position positionRequest `json:"position" validate:"required"`
}

// POST /shops/sessions
func (h *ShopHandler) BeginSession(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req beginSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session := h.sessions.Begin(actor.ID, models.ShopKind(req.Kind), req.Position.position())
	utils.CreatedResponse(c, session)
}

// DELETE /shops/sessions
func (h *ShopHandler) CancelSession(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	h.sessions.End(actor.ID)
	utils.SuccessResponse(c, nil)
}

type createShopRequest struct {
	Kind      string                `json:"kind" validate:"omitempty,oneof=sell buy"`
	Position  *positionRequest      `json:"position"`
	Item      models.ItemDescriptor `json:"item" validate:"required"`
	UnitPrice int64                 `json:"unit_price" validate:"required,gt=0"`
	Stock     int                   `json:"stock" validate:"omitempty,gt=0"`
	Budget    int64                 `json:"budget" validate:"omitempty,gt=0"`
}

// POST /shops
// Creation completes the actor's setup session when one is live; kind and
// position can also be supplied inline for bridges that skip the form flow.
func (h *ShopHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	create := shop.CreateRequest{
		Item:      req.Item,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
		Budget:    req.Budget,
	}
	if session, live := h.sessions.End(actor.ID); live {
		create.Kind = session.Kind
		create.Position = session.Position
	} else {
		if req.Kind == "" || req.Position == nil {
			utils.BadRequestResponse(c, "", "kind and position are required without a setup session")
			return
		}
		create.Kind = models.ShopKind(req.Kind)
		create.Position = req.Position.position()
	}

	listing, err := h.lifecycle.Create(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, create)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, listing)
}

// GET /shops
func (h *ShopHandler) ListOwned(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	shops, err := h.lifecycle.ListOwned(c.Request.Context(), actor.ID)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, shops)
}

// GET /shops/:uuid
func (h *ShopHandler) Get(c *gin.Context) {
	listing, err := h.lifecycle.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, listing)
}

// GET /shops/:uuid/transactions
func (h *ShopHandler) Transactions(c *gin.Context) {
	listing, err := h.lifecycle.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	params := utils.GetPaginationParams(c)
	recs, err := h.shops.ListTransactions(c.Request.Context(), listing.ID, params.Limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, recs)
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// POST /shops/:uuid/buy
func (h *ShopHandler) Buy(c *gin.Context) {
	h.settle(c, h.processor.Buy)
}

// POST /shops/:uuid/sell
func (h *ShopHandler) Sell(c *gin.Context) {
	h.settle(c, h.processor.Sell)
}

func (h *ShopHandler) settle(c *gin.Context, fn func(ctx context.Context, shopUUID string, customer trade.Actor, quantity int) (*trade.Result, error)) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := fn(c.Request.Context(), c.Param("uuid"), actor, req.Quantity)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

type restockRequest struct {
	Count int `json:"count" validate:"required,gt=0"`
}

// POST /shops/:uuid/restock
func (h *ShopHandler) Restock(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.lifecycle.Restock(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, c.Param("uuid"), req.Count)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, listing)
}

type budgetRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// POST /shops/:uuid/budget
func (h *ShopHandler) AddBudget(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.lifecycle.AddBudget(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, c.Param("uuid"), req.Amount)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, listing)
}

// POST /shops/:uuid/collect
func (h *ShopHandler) Collect(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	result, err := h.lifecycle.Collect(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, c.Param("uuid"))
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// DELETE /shops/:uuid
func (h *ShopHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	result, err := h.lifecycle.Delete(c.Request.Context(), shop.Owner{ID: actor.ID, Name: actor.Name}, c.Param("uuid"), false)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
