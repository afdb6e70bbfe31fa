// Package context holds the request scoped values: the authenticated
// user, the trace, the locale and the caller's default sale type.
package context

import (
	"context"
	"slices"
)

// UserContext is the authenticated caller.
type UserContext struct {
	UserID      string
	Email       string
	Roles       []string
	Permissions []string
	CompanyID   string   // working company; documents default to it
	CompanyIDs  []string // other companies the user may switch to
	Lang        string   // e.g. "fr_FR"
	IsAdmin     bool
	SessionID   string
}

// CanAccessCompany reports whether the user may work in companyID.
func (u *UserContext) CanAccessCompany(companyID string) bool {
	return u.IsAdmin || u.CompanyID == companyID || slices.Contains(u.CompanyIDs, companyID)
}

type userContextKey struct{}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns the caller, or nil for internal calls (seed, worker).
func GetUser(ctx context.Context) *UserContext {
	u, _ := ctx.Value(userContextKey{}).(*UserContext)
	return u
}

// GetUserID returns the caller's ID, or "".
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetCompanyID returns the working company, or "".
func GetCompanyID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.CompanyID
	}
	return ""
}

// HasCompanyAccess is CanAccessCompany for the caller of ctx. Anonymous
// contexts have no access.
func HasCompanyAccess(ctx context.Context, companyID string) bool {
	u := GetUser(ctx)
	return u != nil && u.CanAccessCompany(companyID)
}
