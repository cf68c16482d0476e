package handler

import (
	"net/http"

	"restonext/internal/dto"
	"restonext/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuppliersHandler) List(c *gin.Context) {
	tenantID, _ := scope(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID, c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliersHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := scope(c)
	if err := h.svc.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SuppliersHandler) LinkIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LinkIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := scope(c)
	resp, err := h.svc.LinkIngredient(c.Request.Context(), tenantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
