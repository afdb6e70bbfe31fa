// Package documentstest provides in-memory collaborators for testing
// document services.
package documentstest

import (
	"context"
	"sync"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/company"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/documents"
	"saletype/internal/domain/domaintest"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/saletype"
)

// Types is an in-memory sale type store. It serves both the document
// services and the resolver.
type Types struct {
	*domaintest.MemoryRepo[*saletype.SaleType]
	classifier saletype.Classifier
}

// NewTypes creates a store holding types.
func NewTypes(types ...*saletype.SaleType) *Types {
	return &Types{
		MemoryRepo: domaintest.NewMemoryRepo("sale_type", types...),
		classifier: saletype.NewClassifier(saletype.ProductFirst),
	}
}

var (
	_ documents.TypeService = (*Types)(nil)
	_ saletype.TypeFinder   = (*Types)(nil)
)

// Candidates implements documents.TypeService.
func (t *Types) Candidates(_ context.Context, companyID id.ID) ([]*saletype.SaleType, error) {
	var out []*saletype.SaleType
	for _, st := range t.All() {
		if !st.DeletionMark && st.AvailableIn(companyID) {
			out = append(out, st)
		}
	}
	saletype.SortTypes(out)
	return out, nil
}

// Classifier implements documents.TypeService.
func (t *Types) Classifier() saletype.Classifier {
	return t.classifier
}

// FirstForCompany implements saletype.TypeFinder.
func (t *Types) FirstForCompany(ctx context.Context, companyID id.ID) (*saletype.SaleType, error) {
	types, _ := t.Candidates(ctx, companyID)
	if len(types) == 0 {
		return nil, apperror.NewNotFound("sale_type", companyID.String())
	}
	return types[0], nil
}

// First implements saletype.TypeFinder.
func (t *Types) First(context.Context) (*saletype.SaleType, error) {
	types := t.All()
	saletype.SortTypes(types)
	if len(types) == 0 {
		return nil, apperror.NewNotFound("sale_type", "first")
	}
	return types[0], nil
}

// Categories maps products to categories.
type Categories map[id.ID]id.ID

// GetCategories implements documents.CategoryGetter.
func (c Categories) GetCategories(_ context.Context, productIDs []id.ID) (map[id.ID]id.ID, error) {
	out := make(map[id.ID]id.ID, len(productIDs))
	for _, p := range productIDs {
		if cat, ok := c[p]; ok {
			out[p] = cat
		}
	}
	return out, nil
}

// Mailer records send calls and answers with Result and Err.
type Mailer struct {
	mu    sync.Mutex
	Calls []MailCall

	Result mail.Result
	Err    error
}

// MailCall is one recorded send.
type MailCall struct {
	Request mail.Request
	Options mail.SendOptions
}

// Send implements documents.Mailer.
func (m *Mailer) Send(_ context.Context, req mail.Request, opts mail.SendOptions) (mail.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MailCall{Request: req, Options: opts})
	if m.Err != nil {
		return mail.Result{}, m.Err
	}
	res := m.Result
	if res.Status == "" {
		res.Status = mail.StatusSent
	}
	return res, nil
}

// Fixture wires a TypeAssigner and MailRequests over in-memory stores.
type Fixture struct {
	Company    *company.Company
	Customer   *partner.Partner
	Companies  *domaintest.MemoryRepo[*company.Company]
	Partners   *domaintest.MemoryRepo[*partner.Partner]
	Types      *Types
	Categories Categories
	Mailer     *Mailer

	Assigner *documents.TypeAssigner
	Requests *documents.MailRequests
}

// NewFixture creates a company with one customer and the given types.
func NewFixture(types ...*saletype.SaleType) *Fixture {
	lang := "fr_FR"
	email := "buyer@example.com"

	c := company.NewCompany("C1", "Main Company")
	c.Lang = &lang
	p := partner.NewPartner("P1", "Buyer", true)
	p.Email = &email

	f := &Fixture{
		Company:    c,
		Customer:   p,
		Companies:  domaintest.NewMemoryRepo("company", c),
		Partners:   domaintest.NewMemoryRepo("partner", p),
		Types:      NewTypes(types...),
		Categories: Categories{},
		Mailer:     &Mailer{},
	}
	f.Assigner = documents.NewTypeAssigner(f.Types, saletype.NewResolver(f.Partners, f.Types), f.Categories)
	f.Requests = documents.NewMailRequests(f.Partners, f.Companies)
	return f
}

// Type creates a type with the given code and sequence, available in
// every company.
func Type(code string, sequence int) *saletype.SaleType {
	t := saletype.NewSaleType(code, code)
	t.Sequence = sequence
	return t
}

// Ref returns a pointer to a copy of v.
func Ref(v id.ID) *id.ID {
	return &v
}
