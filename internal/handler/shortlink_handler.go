package handler

import (
	"net/http"
	"strconv"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/service"
	"shorturl-go/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShortLinkHandler serves the creation/listing API.
type ShortLinkHandler struct {
	links  *service.LinkService
	logger *zap.Logger
}

func NewShortLinkHandler(links *service.LinkService, logger *zap.Logger) *ShortLinkHandler {
	return &ShortLinkHandler{links: links, logger: logger}
}

// Create handles POST /api/shortlink.
func (h *ShortLinkHandler) Create(c *gin.Context) {
	var req dto.CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	shortURL, err := h.links.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Short link creation failed",
			zap.Error(err),
			zap.String("requested_code", req.RequestedCode),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(dto.CreateShortLinkResponse{ShortURL: shortURL}, "created"))
}

// List handles GET /api/shortlink with paging.
func (h *ShortLinkHandler) List(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	pageResp, err := h.links.List(c.Request.Context(), ownerID, page, size)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

// DeleteCustom handles DELETE /api/shortlink/custom.
func (h *ShortLinkHandler) DeleteCustom(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := h.links.DeleteCustom(c.Request.Context(), ownerID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(struct{}{}, "deleted"))
}
