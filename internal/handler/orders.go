package handler

import (
	"net/http"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Complete is called by the POS when an order is paid or delivered.
func (h *OrdersHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.CompleteOrder(c.Request.Context(), tenantID, id, model.OrderStatus(req.Status), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProcessInventory deducts the order's ingredients without touching its
// status. Repeated calls deduct again.
func (h *OrdersHandler) ProcessInventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProcessInventoryRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	allowNegative := true
	if req.AllowNegative != nil {
		allowNegative = *req.AllowNegative
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.ProcessOrderInventory(c.Request.Context(), tenantID, id, actor, allowNegative)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
