package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/infrastructure/storage/postgres"
)

// HeaderIdempotencyKey makes a mutating request safe to retry.
const HeaderIdempotencyKey = "X-Idempotency-Key"

const maxIdempotencyBodyBytes = 1 << 20

// IdempotencyStore is implemented by *postgres.IdempotencyStore.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
}

// Idempotency replays the stored response of a POST, PUT or PATCH that
// repeats an idempotency key. Keys are scoped to the user and the working
// company, and bound to the route and the body hash. The handler or the
// error middleware finishes the key.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1))
		if err != nil {
			abort(c, apperror.NewValidation("unreadable request body"))
			return
		}
		if len(body) > maxIdempotencyBodyBytes {
			tooLarge := apperror.NewValidation("request body too large for idempotency").
				WithDetail("max_bytes", maxIdempotencyBodyBytes)
			tooLarge.HTTPStatus = http.StatusRequestEntityTooLarge
			abort(c, tooLarge)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)

		ctx := c.Request.Context()
		replay, err := store.AcquireKey(ctx, key, keyOwner(ctx), c.Request.Method+" "+c.FullPath(), hex.EncodeToString(sum[:]))
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				abort(c, appErr)
				return
			}
			abort(c, apperror.NewInternal(err).WithDetail("component", "idempotency"))
			return
		}
		if replay != nil {
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set("idempotency_key", key)
		c.Set("idempotency_store", store)
		c.Next()
	}
}

func isMutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// keyOwner is "user@company", or "" for anonymous calls.
func keyOwner(ctx context.Context) string {
	u := appctx.GetUser(ctx)
	if u == nil {
		return ""
	}
	if u.CompanyID == "" {
		return u.UserID
	}
	return u.UserID + "@" + u.CompanyID
}
