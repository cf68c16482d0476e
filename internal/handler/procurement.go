package handler

import (
	"net/http"
	"strconv"

	"restonext/internal/apierror"
	"restonext/internal/service"

	"github.com/gin-gonic/gin"
)

const maxHorizonDays = 90

type ProcurementHandler struct{ svc service.ProcurementService }

func NewProcurementHandler(svc service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

// Suggestions computes a fresh report. ?horizon_days defaults to the
// configured horizon.
func (h *ProcurementHandler) Suggestions(c *gin.Context) {
	horizon := 0
	if raw := c.Query("horizon_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHorizonDays {
			c.JSON(http.StatusBadRequest, apierror.New("horizon_days must be between 1 and 90"))
			return
		}
		horizon = n
	}
	tenantID, _ := scope(c)
	report, err := h.svc.GenerateSuggestions(c.Request.Context(), tenantID, horizon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Cached returns the last report built by the background refresh.
func (h *ProcurementHandler) Cached(c *gin.Context) {
	tenantID, _ := scope(c)
	report, err := h.svc.CachedSuggestions(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
