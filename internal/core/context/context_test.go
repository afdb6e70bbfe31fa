package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSaleType(t *testing.T) {
	ctx := context.Background()

	_, ok := GetDefaultSaleType(ctx)
	assert.False(t, ok)

	_, ok = GetDefaultSaleType(WithDefaultSaleType(ctx, uuid.Nil))
	assert.False(t, ok, "nil id is not a default")

	id := uuid.New()
	got, ok := GetDefaultSaleType(WithDefaultSaleType(ctx, id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestGetLocale(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{UserID: "u1", Lang: "fr_FR"})
	assert.Equal(t, "fr_FR", GetLocale(ctx))

	ctx = WithLocale(ctx, "en_US")
	assert.Equal(t, "en_US", GetLocale(ctx))

	assert.Equal(t, "", GetLocale(context.Background()))
}

func TestHasCompanyAccess(t *testing.T) {
	ctx := WithUser(context.Background(), &UserContext{
		UserID:     "u1",
		CompanyID:  "c1",
		CompanyIDs: []string{"c2"},
	})

	assert.True(t, HasCompanyAccess(ctx, "c1"))
	assert.True(t, HasCompanyAccess(ctx, "c2"))
	assert.False(t, HasCompanyAccess(ctx, "c3"))
	assert.False(t, HasCompanyAccess(context.Background(), "c1"))

	admin := WithUser(context.Background(), &UserContext{IsAdmin: true})
	assert.True(t, HasCompanyAccess(admin, "anything"))
}
