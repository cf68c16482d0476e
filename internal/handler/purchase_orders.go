package handler

import (
	"context"
	"net/http"

	"restonext/internal/apierror"
	"restonext/internal/dto"
	"restonext/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

func (h *PurchaseOrdersHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchaseOrdersHandler) CreateFromSuggestions(c *gin.Context) {
	var req dto.CreateFromSuggestionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.CreateFromSuggestions(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	var filter dto.PurchaseOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchaseOrdersHandler) Get(c *gin.Context) {
	h.transition(c, func(ctx context.Context, tenantID, id uuid.UUID, _ *uuid.UUID) (*dto.PurchaseOrderResponse, error) {
		return h.svc.Get(ctx, tenantID, id)
	})
}

func (h *PurchaseOrdersHandler) Submit(c *gin.Context) {
	h.transition(c, func(ctx context.Context, tenantID, id uuid.UUID, _ *uuid.UUID) (*dto.PurchaseOrderResponse, error) {
		return h.svc.Submit(ctx, tenantID, id)
	})
}

func (h *PurchaseOrdersHandler) Approve(c *gin.Context) {
	h.transition(c, h.svc.Approve)
}

func (h *PurchaseOrdersHandler) Cancel(c *gin.Context) {
	h.transition(c, func(ctx context.Context, tenantID, id uuid.UUID, _ *uuid.UUID) (*dto.PurchaseOrderResponse, error) {
		return h.svc.Cancel(ctx, tenantID, id)
	})
}

func (h *PurchaseOrdersHandler) Receive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceivePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, actor := scope(c)
	resp, err := h.svc.Receive(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// transition runs a body-less operation on the order named by :id.
func (h *PurchaseOrdersHandler) transition(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID, actor *uuid.UUID) (*dto.PurchaseOrderResponse, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, actor := scope(c)
	resp, err := op(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
