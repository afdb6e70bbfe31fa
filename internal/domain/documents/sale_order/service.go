package sale_order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/core/types"
	"saletype/internal/domain"
	"saletype/internal/domain/documents"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
	"saletype/internal/domain/saletype"
	"saletype/pkg/logger"
)

// Printer builds report print actions.
type Printer interface {
	Print(ctx context.Context, reportID *id.ID, model string, recordIDs []id.ID) (*report.Action, error)
}

// InvoiceCreator creates draft invoices.
type InvoiceCreator interface {
	Create(ctx context.Context, doc *invoice.Invoice) error
}

// ServiceConfig configures the sale order service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Types     *documents.TypeAssigner
	Requests  *documents.MailRequests
	Mailer    documents.Mailer
	Printer   Printer
	Invoices  InvoiceCreator
}

// Service provides business operations for sale orders.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
	types     *documents.TypeAssigner
	requests  *documents.MailRequests
	mailer    documents.Mailer
	printer   Printer
	invoices  InvoiceCreator
	hooks     *domain.HookRegistry[*SaleOrder]
}

// NewService creates a new sale order service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		types:     cfg.Types,
		requests:  cfg.Requests,
		mailer:    cfg.Mailer,
		printer:   cfg.Printer,
		invoices:  cfg.Invoices,
		hooks:     domain.NewHookRegistry[*SaleOrder](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*SaleOrder] {
	return s.hooks
}

// Create creates a quotation. Without a type, one is resolved from the
// partner and company fallback chain and its defaults are cascaded. An
// order named "" or "/" is numbered from its type's sequence, or from the
// default sequence when the type has none.
func (s *Service) Create(ctx context.Context, doc *SaleOrder) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	t, err := s.applyCreateDefaults(ctx, doc)
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.OnCreateDefault, doc); err != nil {
		return err
	}

	doc.recalculate()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if !doc.HasNumber() {
		number, err := s.nextNumber(ctx, doc, t)
		if err != nil {
			return err
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale order created", "id", doc.ID, "number", doc.Number, "sale_type_id", doc.GetSaleTypeID())

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", "sale_order", "error", err)
	}
	return nil
}

// applyCreateDefaults returns the order's type, nil when none applies.
func (s *Service) applyCreateDefaults(ctx context.Context, doc *SaleOrder) (*saletype.SaleType, error) {
	if doc.HasSaleType() {
		t, err := s.types.LoadFor(ctx, doc.GetSaleTypeID(), doc.CompanyID)
		if err != nil {
			return nil, err
		}
		for i := range doc.Lines {
			if doc.Lines[i].RouteID == nil {
				doc.ApplyLineRoute(&doc.Lines[i], t)
			}
		}
		return t, nil
	}

	partnerID := doc.PartnerID
	t, source, err := s.types.Resolve(ctx, saletype.Request{
		PartnerID: &partnerID,
		CompanyID: doc.CompanyID,
		OnCreate:  true,
	})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	changed := doc.ApplySaleType(t)
	logger.Debug(ctx, "sale order type resolved", "sale_type_id", t.ID, "source", string(source), "changed", changed)
	return t, nil
}

func (s *Service) nextNumber(ctx context.Context, doc *SaleOrder, t *saletype.SaleType) (string, error) {
	cfg := numerator.DefaultConfig(DefaultPrefix)
	if t != nil && t.HasSequence() {
		cfg = t.Numbering.Config()
	}
	number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
	if err != nil {
		return "", fmt.Errorf("generate number: %w", err)
	}
	return number, nil
}

// GetByID retrieves a sale order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SaleOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a quotation.
func (s *Service) Update(ctx context.Context, doc *SaleOrder) error {
	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	doc.recalculate()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.save(ctx, doc); err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", "sale_order", "error", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, doc *SaleOrder) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a quotation. Confirmed orders cannot be deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Posted {
		return doc.CanModify()
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}
	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", "sale_order", "error", err)
	}
	return nil
}

// List retrieves sale orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SaleOrder], error) {
	return s.repo.List(ctx, filter)
}

// Confirm turns a quotation into a sale order.
func (s *Service) Confirm(ctx context.Context, docID id.ID) (*SaleOrder, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if len(doc.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	if err := doc.Confirm(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	logger.Info(ctx, "sale order confirmed", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// ChangeSaleType attaches a type to a quotation and cascades its
// defaults into the header and the lines.
func (s *Service) ChangeSaleType(ctx context.Context, docID, typeID id.ID) (*SaleOrder, []string, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, nil, err
	}

	t, err := s.types.LoadFor(ctx, typeID, doc.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	changed := doc.ApplySaleType(t)
	if err := s.hooks.Run(ctx, domain.OnTypeChange, doc); err != nil {
		return nil, nil, err
	}

	if err := s.save(ctx, doc); err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "sale order type changed", "id", doc.ID, "sale_type_id", t.ID, "changed", changed)
	return doc, changed, nil
}

// ChangePartner sets the customer of a quotation and re-resolves its
// type from the partner. When the partner yields no type, the current
// one is kept.
func (s *Service) ChangePartner(ctx context.Context, docID, partnerID id.ID) (*SaleOrder, []string, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, nil, err
	}
	doc.PartnerID = partnerID
	changed := []string{"partner_id"}

	t, _, err := s.types.Resolve(ctx, saletype.Request{PartnerID: &partnerID, CompanyID: doc.CompanyID})
	if err != nil {
		return nil, nil, err
	}
	if t != nil && t.ID != doc.GetSaleTypeID() {
		changed = append(changed, "sale_type_id")
		changed = append(changed, doc.ApplySaleType(t)...)
		if err := s.hooks.Run(ctx, domain.OnTypeChange, doc); err != nil {
			return nil, nil, err
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, nil, err
	}
	return doc, changed, nil
}

// AddLine appends a line to a quotation. The line takes the route of the
// order type.
func (s *Service) AddLine(ctx context.Context, docID, productID id.ID, quantity decimal.Decimal, priceUnit types.Money) (*SaleOrder, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return nil, err
	}

	l := doc.AddLine(productID, quantity, priceUnit)
	doc.ApplyLineRoute(l, t)

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetLineProduct changes the product of a line and applies the route of
// the order type to it.
func (s *Service) SetLineProduct(ctx context.Context, docID id.ID, lineNo int, productID id.ID) (*SaleOrder, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}
	l, err := doc.Line(lineNo)
	if err != nil {
		return nil, err
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return nil, err
	}

	l.ProductID = productID
	doc.ApplyLineRoute(l, t)

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Classify reassigns each order to the type its products match and
// cascades the new type's defaults, as ChangeSaleType does. Orders without
// a match keep their type; confirmed orders are skipped.
func (s *Service) Classify(ctx context.Context, ids []id.ID) ([]documents.ClassifyResult, error) {
	results := make([]documents.ClassifyResult, 0, len(ids))
	for _, docID := range ids {
		doc, err := s.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		res := documents.ClassifyResult{ID: doc.ID.String()}

		if err := doc.CanModify(); err != nil {
			res.Skipped = "locked"
		} else {
			_, changed, err := s.types.Classify(ctx, doc, doc.CompanyID, doc.ProductIDs())
			if err != nil {
				return nil, err
			}
			if changed {
				if err := s.hooks.Run(ctx, domain.OnTypeChange, doc); err != nil {
					return nil, err
				}
				if err := s.save(ctx, doc); err != nil {
					return nil, err
				}
			}
			res.Changed = changed
		}

		if doc.HasSaleType() {
			v := doc.GetSaleTypeID().String()
			res.SaleTypeID = &v
		}
		results = append(results, res)
	}
	return results, nil
}

// PrepareInvoice builds the draft customer invoice of a confirmed order.
// The invoice takes the type's journal when it has one, the order's
// payment term and the sale type.
func (s *Service) PrepareInvoice(ctx context.Context, doc *SaleOrder) (*invoice.Invoice, error) {
	if doc.State != StateSale {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "only confirmed orders can be invoiced").
			WithDetail("document_id", doc.ID.String())
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return nil, err
	}

	inv := invoice.NewInvoice(doc.CompanyID, doc.PartnerID, invoice.MoveOutInvoice)
	inv.InvoiceOrigin = doc.Number
	orderID := doc.ID
	inv.SaleOrderID = &orderID
	if doc.PaymentTermID != nil {
		pt := *doc.PaymentTermID
		inv.PaymentTermID = &pt
	}
	if t != nil {
		inv.SetSaleTypeID(t.ID)
		if t.JournalID != nil {
			j := *t.JournalID
			inv.JournalID = &j
		}
	}
	for _, l := range doc.Lines {
		inv.AddLine(l.ProductID, l.Quantity, l.PriceUnit)
		inv.Lines[len(inv.Lines)-1].Description = l.Description
	}
	return inv, nil
}

// CreateInvoice prepares and saves the invoice of a confirmed order.
func (s *Service) CreateInvoice(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	inv, err := s.PrepareInvoice(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// SendQuotation mails the quotation with the template of its type and
// marks a draft as sent. Failures are returned to the caller.
func (s *Service) SendQuotation(ctx context.Context, docID id.ID) (mail.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return mail.Result{}, err
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return mail.Result{}, err
	}
	if err := s.hooks.Run(ctx, domain.BeforeSend, doc); err != nil {
		return mail.Result{}, err
	}

	var templateID *id.ID
	if t != nil {
		templateID = t.QuotationTemplateID
	}
	req, err := s.requests.Build(ctx, Model, templateID, doc.ID, doc.CompanyID, doc.PartnerID, doc)
	if err != nil {
		return mail.Result{}, err
	}
	res, err := s.mailer.Send(ctx, req, mail.Strict())
	if err != nil {
		return res, err
	}

	if doc.State == StateDraft && (res.Status == mail.StatusSent || res.Status == mail.StatusQueued) {
		doc.MarkSent()
		if err := s.save(ctx, doc); err != nil {
			return res, err
		}
	}
	return res, nil
}

// PrintQuotation returns the print action of the type's report, or nil
// when the type has none.
func (s *Service) PrintQuotation(ctx context.Context, docID id.ID) (*report.Action, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return nil, err
	}
	if t == nil || t.QuotationReportID == nil {
		return nil, nil
	}
	return s.printer.Print(ctx, t.QuotationReportID, Model, []id.ID{doc.ID})
}
