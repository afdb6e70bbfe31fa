// Package audit provides utilities for audit field enrichment in domain entities.
package audit

import (
	"context"

	appctx "saletype/internal/core/context"
)

type createdBySetter interface {
	SetCreatedBy(string)
	SetUpdatedBy(string)
}

type updatedBySetter interface {
	SetUpdatedBy(string)
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// Use in BeforeCreate hooks. No-op without a user in context.
func EnrichCreatedBy(ctx context.Context, entity any) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}
	if e, ok := entity.(createdBySetter); ok {
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}
	return nil
}

// EnrichUpdatedBy sets only UpdatedBy. Use in BeforeUpdate hooks.
func EnrichUpdatedBy(ctx context.Context, entity any) error {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}
	if e, ok := entity.(updatedBySetter); ok {
		e.SetUpdatedBy(userID)
	}
	return nil
}
