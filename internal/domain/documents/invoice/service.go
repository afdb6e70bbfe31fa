package invoice

import (
	"context"
	"fmt"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/documents"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/saletype"
	"saletype/pkg/logger"
)

// JournalGetter loads journals and the company's default sale journal.
type JournalGetter interface {
	GetByID(ctx context.Context, journalID id.ID) (*journal.Journal, error)
	GetDefaultSale(ctx context.Context, companyID id.ID) (*journal.Journal, error)
}

// ServiceConfig configures the invoice service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Types     *documents.TypeAssigner
	Journals  JournalGetter
	Requests  *documents.MailRequests
	Mailer    documents.Mailer
}

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
	types     *documents.TypeAssigner
	journals  JournalGetter
	requests  *documents.MailRequests
	mailer    documents.Mailer
	hooks     *domain.HookRegistry[*Invoice]
}

// NewService creates a new invoice service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		types:     cfg.Types,
		journals:  cfg.Journals,
		requests:  cfg.Requests,
		mailer:    cfg.Mailer,
		hooks:     domain.NewHookRegistry[*Invoice](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// Create creates a draft invoice. A customer invoice or refund without a
// type gets one from the partner and company fallback chain and takes
// its defaults; other entries never carry a type.
func (s *Service) Create(ctx context.Context, doc *Invoice) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := s.applyCreateDefaults(ctx, doc); err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.OnCreateDefault, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
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

	logger.Info(ctx, "invoice created", "id", doc.ID, "move_type", doc.MoveType, "sale_type_id", doc.GetSaleTypeID())

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", "invoice", "error", err)
	}
	return nil
}

// applyCreateDefaults resolves the sale type and the default sale journal
// of customer invoices and refunds. Other move types get neither.
func (s *Service) applyCreateDefaults(ctx context.Context, doc *Invoice) error {
	if !doc.MoveType.IsSale() {
		doc.SetSaleTypeID(id.Nil())
		return nil
	}

	if !doc.HasSaleType() {
		partnerID := doc.PartnerID
		t, source, err := s.types.Resolve(ctx, saletype.Request{
			PartnerID: &partnerID,
			CompanyID: doc.CompanyID,
			OnCreate:  true,
		})
		if err != nil {
			return err
		}
		if t != nil {
			changed, err := doc.ApplySaleType(t)
			if err != nil {
				return err
			}
			logger.Debug(ctx, "invoice sale type resolved", "sale_type_id", t.ID, "source", string(source), "changed", changed)
		}
	} else if _, err := s.types.LoadFor(ctx, doc.GetSaleTypeID(), doc.CompanyID); err != nil {
		return err
	}

	if doc.JournalID == nil && s.journals != nil {
		j, err := s.journals.GetDefaultSale(ctx, doc.CompanyID)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if j != nil {
			jid := j.ID
			doc.JournalID = &jid
		}
	}
	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
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

// Update updates a draft invoice.
func (s *Service) Update(ctx context.Context, doc *Invoice) error {
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
		logger.Warn(ctx, "after-update hook failed", "entity", "invoice", "error", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, doc *Invoice) error {
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

// Delete soft-deletes a draft invoice.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}
	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", "invoice", "error", err)
	}
	return nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// ChangeSaleType attaches a type to a draft customer invoice and
// cascades its payment term and journal.
func (s *Service) ChangeSaleType(ctx context.Context, docID, typeID id.ID) (*Invoice, []string, error) {
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
	changed, err := doc.ApplySaleType(t)
	if err != nil {
		return nil, nil, err
	}
	if err := s.hooks.Run(ctx, domain.OnTypeChange, doc); err != nil {
		return nil, nil, err
	}

	if err := s.save(ctx, doc); err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "invoice sale type changed", "id", doc.ID, "sale_type_id", t.ID, "changed", changed)
	return doc, changed, nil
}

// ChangePartner sets the partner of a draft invoice and re-resolves its
// type from the partner. When the partner yields no type, the current
// one is kept.
func (s *Service) ChangePartner(ctx context.Context, docID, partnerID id.ID) (*Invoice, []string, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, nil, err
	}
	doc.PartnerID = partnerID

	var changed []string
	if doc.MoveType.IsSale() {
		t, _, err := s.types.Resolve(ctx, saletype.Request{PartnerID: &partnerID, CompanyID: doc.CompanyID})
		if err != nil {
			return nil, nil, err
		}
		if t != nil && t.ID != doc.GetSaleTypeID() {
			if changed, err = doc.ApplySaleType(t); err != nil {
				return nil, nil, err
			}
			changed = append([]string{"sale_type_id"}, changed...)
			if err := s.hooks.Run(ctx, domain.OnTypeChange, doc); err != nil {
				return nil, nil, err
			}
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, nil, err
	}
	return doc, append([]string{"partner_id"}, changed...), nil
}

// Post validates the invoice and numbers it. When its type asks for it,
// the invoice mail is sent best-effort: a failure is logged and queued
// for retry and never fails the posting.
func (s *Service) Post(ctx context.Context, docID id.ID) (*Invoice, *mail.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, nil, err
	}
	if len(doc.Lines) == 0 {
		return nil, nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, nil, err
	}

	if !doc.HasNumber() {
		number, err := s.nextNumber(ctx, doc)
		if err != nil {
			return nil, nil, err
		}
		doc.Number = number
	}
	doc.MarkPosted()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("post document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "invoice posted", "id", doc.ID, "number", doc.Number)

	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		logger.Warn(ctx, "sale type of posted invoice not loaded, mail skipped", "id", doc.ID, "error", err)
		return doc, nil, nil
	}
	if t == nil || !t.SendInvoiceMailAutomatically || !doc.MoveType.IsSale() {
		return doc, nil, nil
	}

	res, err := s.send(ctx, doc, t, mail.BestEffort())
	if err != nil {
		logger.Warn(ctx, "automatic invoice mail failed", "id", doc.ID, "error", err)
		return doc, nil, nil
	}
	return doc, &res, nil
}

func (s *Service) nextNumber(ctx context.Context, doc *Invoice) (string, error) {
	prefix := InvoicePrefix
	if doc.JournalID != nil && s.journals != nil {
		j, err := s.journals.GetByID(ctx, *doc.JournalID)
		if err != nil {
			return "", err
		}
		if j.ShortCode != "" {
			prefix = j.ShortCode
		}
	}
	if doc.MoveType == MoveOutRefund || doc.MoveType == MoveInRefund {
		if prefix == InvoicePrefix {
			prefix = RefundPrefix
		} else {
			prefix = "R" + prefix
		}
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(prefix),
		&numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
	if err != nil {
		return "", fmt.Errorf("generate number: %w", err)
	}
	return number, nil
}

// Send sends the invoice mail of the invoice's type. Failures are
// returned to the caller; without a template on the type the send is
// rejected with MAIL_TEMPLATE_MISSING.
func (s *Service) Send(ctx context.Context, docID id.ID) (mail.Result, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return mail.Result{}, err
	}
	t, err := s.types.Load(ctx, doc.GetSaleTypeID())
	if err != nil {
		return mail.Result{}, err
	}
	return s.send(ctx, doc, t, mail.Strict())
}

func (s *Service) send(ctx context.Context, doc *Invoice, t *saletype.SaleType, opts mail.SendOptions) (mail.Result, error) {
	if err := s.hooks.Run(ctx, domain.BeforeSend, doc); err != nil {
		if opts.RaiseOnError {
			return mail.Result{}, err
		}
		logger.Warn(ctx, "before-send hook cancelled invoice mail", "id", doc.ID, "error", err)
		return mail.Result{Status: mail.StatusSkipped}, nil
	}

	var templateID *id.ID
	if t != nil {
		templateID = t.InvoiceTemplateID
	}
	req, err := s.requests.Build(ctx, Model, templateID, doc.ID, doc.CompanyID, doc.PartnerID, doc)
	if err != nil {
		if opts.RaiseOnError {
			return mail.Result{}, err
		}
		logger.Warn(ctx, "invoice mail request not built", "id", doc.ID, "error", err)
		return mail.Result{Status: mail.StatusFailed, Error: err.Error()}, nil
	}
	return s.mailer.Send(ctx, req, opts)
}

// Refund creates a draft refund of a posted customer invoice.
func (s *Service) Refund(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	refund, err := doc.Refund()
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// Classify reassigns each invoice to the type its products match and
// cascades the new type's payment term and journal. Entries that are not customer invoices or refunds and posted invoices
// are skipped.
func (s *Service) Classify(ctx context.Context, ids []id.ID) ([]documents.ClassifyResult, error) {
	results := make([]documents.ClassifyResult, 0, len(ids))
	for _, docID := range ids {
		doc, err := s.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		res := documents.ClassifyResult{ID: doc.ID.String()}

		switch {
		case !doc.MoveType.IsSale():
			res.Skipped = "not_sale"
		case doc.Posted:
			res.Skipped = "posted"
		default:
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
