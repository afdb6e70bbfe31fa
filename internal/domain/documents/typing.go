// Package documents holds what sale orders and invoices share: resolving,
// loading and classifying their sale type.
package documents

import (
	"context"
	"fmt"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/saletype"
)

// TypeService is the part of the sale type service documents use.
type TypeService interface {
	GetByID(ctx context.Context, typeID id.ID) (*saletype.SaleType, error)
	Candidates(ctx context.Context, companyID id.ID) ([]*saletype.SaleType, error)
	Classifier() saletype.Classifier
}

// CategoryGetter maps products to their categories.
type CategoryGetter interface {
	GetCategories(ctx context.Context, productIDs []id.ID) (map[id.ID]id.ID, error)
}

// TypeAssigner decides the sale type of a document.
type TypeAssigner struct {
	types      TypeService
	resolver   *saletype.Resolver
	categories CategoryGetter
}

// NewTypeAssigner creates a TypeAssigner.
func NewTypeAssigner(types TypeService, resolver *saletype.Resolver, categories CategoryGetter) *TypeAssigner {
	return &TypeAssigner{
		types:      types,
		resolver:   resolver,
		categories: categories,
	}
}

// Resolve runs the partner and company fallback chain.
// A resolved type is returned loaded, nil when nothing was found.
func (a *TypeAssigner) Resolve(ctx context.Context, req saletype.Request) (*saletype.SaleType, saletype.Source, error) {
	res, err := a.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, saletype.SourceNone, fmt.Errorf("resolve sale type: %w", err)
	}
	if !res.Found() {
		return nil, saletype.SourceNone, nil
	}
	t, err := a.types.GetByID(ctx, res.TypeID)
	if err != nil {
		return nil, saletype.SourceNone, err
	}
	return t, res.Source, nil
}

// Load returns the type with the given id, or nil for id.Nil().
func (a *TypeAssigner) Load(ctx context.Context, typeID id.ID) (*saletype.SaleType, error) {
	if id.IsNil(typeID) {
		return nil, nil
	}
	return a.types.GetByID(ctx, typeID)
}

// LoadFor loads a type to attach to a document of companyID. Types of
// another company are rejected.
func (a *TypeAssigner) LoadFor(ctx context.Context, typeID, companyID id.ID) (*saletype.SaleType, error) {
	t, err := a.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if !t.AvailableIn(companyID) {
		return nil, apperror.NewBusinessRule(apperror.CodeCompanyMismatch, "sale type belongs to another company").
			WithDetail("saleTypeId", t.ID.String()).
			WithDetail("companyId", companyID.String())
	}
	return t, nil
}

// Lines builds the classifier view of a document's products.
func (a *TypeAssigner) Lines(ctx context.Context, productIDs []id.ID) (saletype.Lines, error) {
	if len(productIDs) == 0 {
		return saletype.NewLines(nil, nil), nil
	}
	categories, err := a.categories.GetCategories(ctx, productIDs)
	if err != nil {
		return saletype.Lines{}, fmt.Errorf("load product categories: %w", err)
	}
	return saletype.NewLines(productIDs, categories), nil
}

// Classify reassigns target to the type its products match and cascades
// the type's defaults into it. Without a match the current type is kept
// and the returned type is nil.
func (a *TypeAssigner) Classify(ctx context.Context, target saletype.Target, companyID id.ID, productIDs []id.ID) (*saletype.SaleType, bool, error) {
	lines, err := a.Lines(ctx, productIDs)
	if err != nil {
		return nil, false, err
	}
	types, err := a.types.Candidates(ctx, companyID)
	if err != nil {
		return nil, false, fmt.Errorf("load candidate types: %w", err)
	}
	return a.types.Classifier().Classify(target, types, lines)
}

// ClassifyResult reports the outcome of classifying one document.
type ClassifyResult struct {
	ID         string  `json:"id"`
	SaleTypeID *string `json:"saleTypeId,omitempty"`
	Changed    bool    `json:"changed"`
	Skipped    string  `json:"skipped,omitempty"`
}
