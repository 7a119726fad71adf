package handler

import (
	"net/http"
	"strings"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/classify"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/service"
	"shorturl-go/response"

	"github.com/gin-gonic/gin"
)

// RedirectHandler classifies every inbound GET path and serves short-code
// redirects. Reserved and locale-prefixed paths fall through to the page
// router behind it.
type RedirectHandler struct {
	classifier *classify.Classifier
	redirects  *service.RedirectService
}

func NewRedirectHandler(classifier *classify.Classifier, redirects *service.RedirectService) *RedirectHandler {
	return &RedirectHandler{classifier: classifier, redirects: redirects}
}

// Middleware is mounted as a catch-all after the API group, the teacher
// pattern for keeping redirects off the route table.
func (h *RedirectHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		// the API and asset namespaces are routed upstream of classification
		if path == "/api" || strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/assets/") {
			c.Next()
			return
		}

		result := h.classifier.Classify(path)
		if result.Kind != classify.ShortCodeCandidate {
			// reserved and locale routes belong to the page router
			c.Next()
			return
		}

		decision, err := h.redirects.Resolve(c.Request.Context(), result.Code)
		if err != nil {
			_ = c.Error(apperrors.SystemError(err))
			c.Abort()
			return
		}

		if !decision.Found {
			message := i18n.T(c.Request.Context(), "error.link_not_found")
			c.AbortWithStatusJSON(http.StatusNotFound, response.Error(message))
			return
		}

		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Redirect(http.StatusFound, decision.URL)
		c.Abort()
	}
}
