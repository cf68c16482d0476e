package handler

import (
	"net/http"

	"restonext/internal/apierror"
	"restonext/internal/dto"
	"restonext/internal/service"
	"restonext/internal/worker"

	"github.com/gin-gonic/gin"
)

type IngredientsHandler struct {
	svc    service.InventoryService
	alerts worker.AlertStore
}

// NewIngredientsHandler wires the inventory endpoints. alerts may be nil when
// the worker side channel is not running.
func NewIngredientsHandler(svc service.InventoryService, alerts worker.AlertStore) *IngredientsHandler {
	return &IngredientsHandler{svc: svc, alerts: alerts}
}

func (h *IngredientsHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.CreateIngredient(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *IngredientsHandler) List(c *gin.Context) {
	var filter dto.IngredientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.ListIngredients(c.Request.Context(), tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.GetIngredient(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.UpdateIngredient(c.Request.Context(), tenantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	if err := h.svc.DeactivateIngredient(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IngredientsHandler) SetModifierLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ModifierLinkInput
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.SetModifierLink(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) ClearModifierLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.SetModifierLink(c.Request.Context(), tenantID, id, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.AdjustStock(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *IngredientsHandler) LedgerCheck(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.VerifyLedger(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) SetRecipe(c *gin.Context) {
	menuItemID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SetRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.SetRecipe(c.Request.Context(), tenantID, menuItemID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) ListTransactions(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) LowStockAlerts(c *gin.Context) {
	tenantID, _ := scope(c)
	resp, err := h.svc.LowStockAlerts(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActiveAlerts lists the alerts raised by the low-stock worker.
func (h *IngredientsHandler) ActiveAlerts(c *gin.Context) {
	if h.alerts == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("alert store unavailable"))
		return
	}
	tenantID, _ := scope(c)
	alerts, err := h.alerts.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
