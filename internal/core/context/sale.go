package context

import (
	"context"

	"github.com/google/uuid"
)

type defaultSaleTypeKey struct{}
type localeKey struct{}

// WithDefaultSaleType stores the caller-supplied default sale type.
// Resolution falls back to it when neither the partner nor its commercial
// entity carries a type.
func WithDefaultSaleType(ctx context.Context, saleTypeID uuid.UUID) context.Context {
	return context.WithValue(ctx, defaultSaleTypeKey{}, saleTypeID)
}

// GetDefaultSaleType returns the default sale type from context, if any.
func GetDefaultSaleType(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(defaultSaleTypeKey{}).(uuid.UUID)
	if !ok || v == uuid.Nil {
		return uuid.Nil, false
	}
	return v, true
}

// WithLocale stores the negotiated request locale ("en_US", "fr_FR", ...).
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// GetLocale returns the request locale, then the user's language, or "".
func GetLocale(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	if u := GetUser(ctx); u != nil {
		return u.Lang
	}
	return ""
}
