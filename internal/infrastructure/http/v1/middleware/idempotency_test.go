package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/infrastructure/storage/postgres"
)

// memKeys keeps one response per key; it never reports a conflict.
type memKeys struct {
	owners  map[string]string
	replays map[string]*postgres.IdempotencyReplay
}

func newMemKeys() *memKeys {
	return &memKeys{owners: map[string]string{}, replays: map[string]*postgres.IdempotencyReplay{}}
}

func (m *memKeys) AcquireKey(_ context.Context, key, userID, _, _ string) (*postgres.IdempotencyReplay, error) {
	m.owners[key] = userID
	return m.replays[key], nil
}

func (m *memKeys) CompleteKey(_ context.Context, key string, status int, ct string, response any) error {
	m.replays[key] = &postgres.IdempotencyReplay{StatusCode: status, ContentType: ct, Body: []byte(response.(string))}
	return nil
}

func (m *memKeys) FailKey(ctx context.Context, key string, status int, ct string, response any) error {
	return m.CompleteKey(ctx, key, status, ct, "failed")
}

func TestIdempotency_ReplaysFinishedKey(t *testing.T) {
	keys := newMemKeys()
	calls := 0

	r := gin.New()
	r.Use(Idempotency(keys))
	r.POST("/orders/:id/confirm", func(c *gin.Context) {
		calls++
		store, _ := c.Get("idempotency_store")
		key := c.GetString("idempotency_key")
		require.NoError(t, store.(IdempotencyStore).CompleteKey(c.Request.Context(), key, http.StatusOK, "text/plain", "confirmed"))
		c.String(http.StatusOK, "confirmed")
	})

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/orders/1/confirm", strings.NewReader(`{}`))
		req.Header.Set(HeaderIdempotencyKey, "k-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send(http.MethodPost)
	second := send(http.MethodPost)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "confirmed", first.Body.String())
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "confirmed", second.Body.String())
	assert.Equal(t, "", keys.owners["k-1"])
}

func TestIdempotency_SkipsReads(t *testing.T) {
	keys := newMemKeys()

	r := gin.New()
	r.Use(Idempotency(keys))
	r.GET("/orders", func(c *gin.Context) {
		_, set := c.Get("idempotency_key")
		assert.False(t, set)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(HeaderIdempotencyKey, "k-2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, keys.owners)
}
