package middleware

import (
	"errors"
	"net/http"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/i18n"
	"shorturl-go/response"

	"github.com/gin-gonic/gin"
)

// GlobalErrorMiddleware turns AppErrors collected on the context into JSON
// envelopes, localizing the message against the request locale. Anything
// else becomes a generic internal error so storage details never leak.
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				message := i18n.T(c.Request.Context(), appErr.MessageID)
				c.AbortWithStatusJSON(appErr.Code, response.Error(message))
				return
			}
		}

		message := i18n.T(c.Request.Context(), "error.internal")
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(message))
	}
}
