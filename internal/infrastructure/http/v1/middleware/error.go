package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/i18n"
	"saletype/pkg/logger"
)

// localizedMessages maps error codes to translated client messages.
var localizedMessages = map[string]string{
	apperror.CodeMailTemplateMissing: i18n.KeyTemplateMissing,
}

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(ctx, "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			message := appErr.Message
			if key, ok := localizedMessages[appErr.Code]; ok {
				message = i18n.Text(appctx.GetLocale(ctx), key)
			}

			body := gin.H{
				"code":    appErr.Code,
				"message": message,
				"details": appErr.Details,
			}
			failIdempotencyKey(c, appErr.HTTPStatus, body)
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		logger.Error(ctx, "unhandled error",
			"error", err,
		)

		body := gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
			"details": map[string]any{
				"request_id": c.GetString("request_id"),
			},
		}
		failIdempotencyKey(c, http.StatusInternalServerError, body)
		c.JSON(http.StatusInternalServerError, body)
	}
}

// failIdempotencyKey stores the error response for replay (best-effort).
func failIdempotencyKey(c *gin.Context, status int, body gin.H) {
	key, exists := c.Get("idempotency_key")
	if !exists {
		return
	}
	store, ok := c.Get("idempotency_store")
	if !ok {
		return
	}
	if s, ok := store.(IdempotencyStore); ok {
		_ = s.FailKey(c.Request.Context(), key.(string), status, "application/json", body)
	}
}
