package documents

import (
	"context"
	"encoding/json"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/company"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/mail"
)

// PartnerGetter loads partners.
type PartnerGetter interface {
	GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error)
}

// CompanyGetter loads companies.
type CompanyGetter interface {
	GetByID(ctx context.Context, companyID id.ID) (*company.Company, error)
}

// Mailer sends document mail.
type Mailer interface {
	Send(ctx context.Context, req mail.Request, opts mail.SendOptions) (mail.Result, error)
}

// MailRequests builds mail requests for documents.
type MailRequests struct {
	partners  PartnerGetter
	companies CompanyGetter
}

// NewMailRequests creates a request builder.
func NewMailRequests(partners PartnerGetter, companies CompanyGetter) *MailRequests {
	return &MailRequests{partners: partners, companies: companies}
}

// Build addresses doc to its partner. The recipient language is the
// partner's, then the company's.
func (b *MailRequests) Build(ctx context.Context, model string, templateID *id.ID, recordID, companyID, partnerID id.ID, doc any) (mail.Request, error) {
	p, err := b.partners.GetByID(ctx, partnerID)
	if err != nil {
		return mail.Request{}, err
	}
	c, err := b.companies.GetByID(ctx, companyID)
	if err != nil {
		return mail.Request{}, err
	}

	companyLang := ""
	if c.Lang != nil {
		companyLang = *c.Lang
	}
	to := ""
	if p.Email != nil {
		to = *p.Email
	}

	return mail.Request{
		TemplateID: templateID,
		Model:      model,
		RecordID:   recordID,
		To:         to,
		Lang:       p.LangOr(companyLang),
		Render: mail.RenderContext{
			Object:  fields(doc),
			Partner: fields(p),
			Company: fields(c),
		},
	}, nil
}

// fields renders v as its JSON field map.
func fields(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
