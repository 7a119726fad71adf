package handler

import (
	"net/http"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/service"

	"github.com/gin-gonic/gin"
)

// SweepHandler exposes the expiration sweep to its external scheduler.
type SweepHandler struct {
	sweeper *service.SweepService
}

func NewSweepHandler(sweeper *service.SweepService) *SweepHandler {
	return &SweepHandler{sweeper: sweeper}
}

// Trigger handles POST /api/sweep and returns the deletion summary.
func (h *SweepHandler) Trigger(c *gin.Context) {
	summary, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.SystemError(err))
		return
	}

	c.JSON(http.StatusOK, summary)
}
